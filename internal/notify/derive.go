package notify

import (
	"fmt"
	"time"

	"healthtrack/internal/exam"
)

// Kind classifies a notification.
type Kind string

const (
	KindCritical  Kind = "critical"
	KindAttention Kind = "attention"
	KindReminder  Kind = "reminder"
	KindSuccess   Kind = "success"
)

// ReminderPrefix starts the id of the check-up reminder.
const ReminderPrefix = "reminder-checkup-"

// ReminderID names the reminder raised after the exam latestID. A newer exam
// yields a new id, so a reminder read earlier does not hide the next one.
func ReminderID(latestID string) string {
	return ReminderPrefix + latestID
}

// Notification is an advisory item derived from exam records.
type Notification struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Date    exam.Date `json:"date"`
	Read    bool      `json:"read"`
	ExamID  string    `json:"exam_id,omitempty"`
}

// Derive applies DefaultPolicy to records.
func Derive(records []exam.Record, now time.Time) []Notification {
	return DefaultPolicy().Derive(records, now)
}

// Derive builds the notification set for records as of now.
//
// Output order is fixed: critical, attention, the check-up reminder, then
// success. Ids depend only on exam ids, so deriving twice yields the same ids.
//
// The reminder looks at records[0] as the latest exam without sorting.
// Callers must pass records newest first.
func (p Policy) Derive(records []exam.Record, now time.Time) []Notification {
	out := make([]Notification, 0)

	for _, r := range records {
		if r.Status != exam.StatusCritical {
			continue
		}
		out = append(out, Notification{
			ID:      "critical-" + r.ID,
			Kind:    KindCritical,
			Title:   "Critical exam",
			Message: fmt.Sprintf("%s: %s", r.ExamType, r.Summary),
			Date:    r.Date,
			ExamID:  r.ID,
		})
	}

	for _, r := range records {
		if r.Status != exam.StatusWarning {
			continue
		}
		out = append(out, Notification{
			ID:      "warning-" + r.ID,
			Kind:    KindAttention,
			Title:   "Attention needed",
			Message: fmt.Sprintf("%s: %s", r.ExamType, r.Summary),
			Date:    r.Date,
			ExamID:  r.ID,
		})
	}

	if len(records) > 0 {
		elapsed := records[0].Date.DaysUntil(now)
		if elapsed > p.ReminderAfterDays {
			out = append(out, Notification{
				ID:      ReminderID(records[0].ID),
				Kind:    KindReminder,
				Title:   "Check-up reminder",
				Message: fmt.Sprintf("It has been %d days since your last exam. How about scheduling a check-up?", elapsed),
				Date:    exam.DateOf(now.UTC()),
			})
		}
	}

	for _, r := range records {
		if r.Status != exam.StatusExcellent || r.Date.DaysUntil(now) > p.SuccessWindowDays {
			continue
		}
		out = append(out, Notification{
			ID:      "success-" + r.ID,
			Kind:    KindSuccess,
			Title:   "Excellent results",
			Message: fmt.Sprintf("%s: all parameters look great!", r.ExamType),
			Date:    r.Date,
			ExamID:  r.ID,
		})
	}

	return out
}
