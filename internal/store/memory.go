package store

import (
	"context"
	"slices"
	"sync"

	"healthtrack/internal/apperr"
	"healthtrack/internal/exam"
	"healthtrack/internal/goals"
	"healthtrack/internal/metrics"
)

// Memory is a concurrency-safe in-memory Repository.
//
// Reads return copies, so callers always work on a snapshot that later
// appends cannot change.
type Memory struct {
	mu      sync.RWMutex
	records []exam.Record
	index   map[string]int
	read    map[string]bool
	goals   []goals.Goal
	metrics *metrics.Registry
}

var _ Repository = (*Memory)(nil)

// NewMemory initializes and returns an empty Memory repository.
func NewMemory(metricsRegistry *metrics.Registry) *Memory {
	return &Memory{
		index:   make(map[string]int),
		read:    make(map[string]bool),
		metrics: metricsRegistry,
	}
}

func (m *Memory) Append(_ context.Context, r exam.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[r.ID]; exists {
		return apperr.Conflict("exam " + r.ID + " already exists")
	}

	m.index[r.ID] = len(m.records)
	m.records = append(m.records, r.Clone())

	m.metrics.Inc(metrics.ExamsAppendedTotal)
	m.metrics.Set(metrics.ExamsStored, int64(len(m.records)))
	return nil
}

func (m *Memory) List(_ context.Context) ([]exam.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]exam.Record, len(m.records))
	for i, r := range m.records {
		out[i] = r.Clone()
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (exam.Record, error) {
	m.metrics.Inc(metrics.ExamLookupsTotal)

	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		m.metrics.Inc(metrics.ExamMissesTotal)
		return exam.Record{}, apperr.NotFound("exam", id)
	}
	return m.records[i].Clone(), nil
}

func (m *Memory) MarkRead(_ context.Context, notificationIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range notificationIDs {
		if !m.read[id] {
			m.read[id] = true
			m.metrics.Inc(metrics.NotificationsReadTotal)
		}
	}
	return nil
}

func (m *Memory) ReadIDs(_ context.Context) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]bool, len(m.read))
	for id := range m.read {
		out[id] = true
	}
	return out, nil
}

func (m *Memory) AddGoal(_ context.Context, g goals.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.goals {
		if existing.ID == g.ID {
			return apperr.Conflict("goal " + g.ID + " already exists")
		}
	}
	m.goals = append(m.goals, g)
	return nil
}

func (m *Memory) ListGoals(_ context.Context) ([]goals.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Clone(m.goals)
	if out == nil {
		out = []goals.Goal{}
	}
	return out, nil
}

func (m *Memory) UpdateGoalProgress(_ context.Context, id string, value float64) (goals.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, g := range m.goals {
		if g.ID != id {
			continue
		}
		updated, err := g.WithProgress(value)
		if err != nil {
			return goals.Goal{}, err
		}
		m.goals[i] = updated
		return updated, nil
	}
	return goals.Goal{}, apperr.NotFound("goal", id)
}
