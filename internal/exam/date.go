package exam

import (
	"encoding/json"
	"math"
	"time"

	"healthtrack/internal/apperr"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
// It is stored as UTC midnight.
type Date struct {
	t time.Time
}

// NewDate returns the calendar day y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return Date{}, apperr.Validation("invalid exam date", map[string]string{
			"date": raw,
		})
	}
	return Date{t: t}, nil
}

// Time returns the date as UTC midnight.
func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) String() string { return d.t.Format(dateLayout) }

// DaysUntil is the number of whole days elapsed from d (UTC midnight) to t,
// rounded down. It is negative when t is before d.
func (d Date) DaysUntil(t time.Time) int {
	return int(math.Floor(t.Sub(d.t).Hours() / 24))
}

// DaysBetween is the absolute number of days separating a and b.
func DaysBetween(a, b Date) int {
	days := int(b.t.Sub(a.t).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
