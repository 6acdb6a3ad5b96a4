package ai

import (
	"time"

	"healthtrack/internal/exam"
	"healthtrack/internal/status"
	"healthtrack/internal/trend"
)

// HealthReport is the dashboard summary of the exam history.
type HealthReport struct {
	OverallStatus       exam.Status        `json:"overall_status"`
	Score               int                `json:"score"`
	Summary             string             `json:"summary"`
	Signals             []string           `json:"signals"`
	Recommendations     []string           `json:"recommendations"`
	Distribution        []status.Bucket    `json:"distribution"`
	Monthly             []trend.MonthCount `json:"monthly"`
	Trend               trend.Result       `json:"trend"`
	LatestExam          *exam.Record       `json:"latest_exam,omitempty"`
	UnreadNotifications int                `json:"unread_notifications"`
	GeneratedAt         time.Time          `json:"generated_at"`
}

var summaries = map[exam.Status]string{
	exam.StatusExcellent: "Your exams look excellent",
	exam.StatusGood:      "Your health is in good shape",
	exam.StatusWarning:   "Some results need attention",
	exam.StatusCritical:  "Critical results need medical follow-up",
}
