// Package upload simulates document upload and analysis. No file content
// is read: after a fixed delay a placeholder exam is appended to the
// repository under the job's id.
package upload

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthtrack/internal/apperr"
	"healthtrack/internal/exam"
	"healthtrack/internal/logs"
	"healthtrack/internal/metrics"
)

const (
	PlaceholderType    = "New Exam"
	PlaceholderSummary = "Processing analysis..."
)

// Appender is the slice of the repository the simulator writes to.
type Appender interface {
	Append(ctx context.Context, r exam.Record) error
}

// Job is an accepted upload waiting for its simulated analysis.
type Job struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Simulator queues uploads and turns each into a placeholder exam record
// once the analysis delay has passed.
type Simulator struct {
	store   Appender
	delay   time.Duration
	jobs    chan Job
	logger  *logs.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

func NewSimulator(
	store Appender,
	delay time.Duration,
	queueSize int,
	logger *logs.Logger,
	metricsRegistry *metrics.Registry,
) *Simulator {
	return &Simulator{
		store:   store,
		delay:   delay,
		jobs:    make(chan Job, queueSize),
		logger:  logger,
		metrics: metricsRegistry,
		now:     time.Now,
	}
}

// Submit enqueues fileName without blocking. The returned job id becomes
// the id of the exam record once analysis completes.
func (s *Simulator) Submit(fileName string) (Job, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return Job{}, apperr.Validation("invalid upload", map[string]string{
			"file_name": "file name is required",
		})
	}

	job := Job{
		ID:          uuid.NewString(),
		FileName:    fileName,
		SubmittedAt: s.now().UTC(),
	}

	select {
	case s.jobs <- job:
		s.metrics.Inc(metrics.UploadsSubmittedTotal)
		s.metrics.Add(metrics.UploadsPending, 1)
		s.logger.Info("upload accepted", "job_id", job.ID, "file", fileName)
		return job, nil
	default:
		s.metrics.Inc(metrics.UploadsDroppedTotal)
		s.logger.Warn("upload queue full", "file", fileName)
		return Job{}, apperr.Conflict("upload queue is full, try again later")
	}
}

// Start processes jobs until the context is cancelled. Jobs still queued
// or waiting at that point are dropped.
// It blocks and should typically be run in a separate goroutine.
func (s *Simulator) Start(ctx context.Context) {
	for {
		select {
		case job := <-s.jobs:
			if !s.wait(ctx) {
				s.drop(1 + s.drain())
				return
			}
			s.process(ctx, job)
		case <-ctx.Done():
			s.drop(s.drain())
			return
		}
	}
}

func (s *Simulator) wait(ctx context.Context) bool {
	if s.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// process appends the placeholder record for a single job.
func (s *Simulator) process(ctx context.Context, job Job) {
	s.metrics.Add(metrics.UploadsPending, -1)

	r, err := exam.NewRecord(exam.Record{
		ID:       job.ID,
		ExamType: PlaceholderType,
		Date:     exam.DateOf(s.now().UTC()),
		Status:   exam.StatusGood,
		Summary:  PlaceholderSummary,
		FileName: job.FileName,
	})
	if err == nil {
		err = s.store.Append(ctx, r)
	}
	if err != nil {
		s.logger.Error("upload analysis failed", "job_id", job.ID, "error", err)
		s.metrics.Inc(metrics.UploadsDroppedTotal)
		return
	}

	s.logger.Info("upload analysed", "job_id", job.ID, "file", job.FileName)
	s.metrics.Inc(metrics.UploadsCompletedTotal)
}

func (s *Simulator) drain() int {
	n := 0
	for {
		select {
		case <-s.jobs:
			n++
		default:
			return n
		}
	}
}

func (s *Simulator) drop(n int) {
	if n > 0 {
		s.metrics.Add(metrics.UploadsDroppedTotal, int64(n))
		s.metrics.Add(metrics.UploadsPending, -int64(n))
		s.logger.Warn("upload simulator stopped with pending jobs", "dropped", n)
	}
	s.logger.Debug("upload simulator stopped")
}
