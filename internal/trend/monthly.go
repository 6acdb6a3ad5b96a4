package trend

import (
	"slices"

	"healthtrack/internal/exam"
)

// MonthCount is the number of exams taken in one calendar month.
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Exams int    `json:"exams"`
}

// Monthly groups records by calendar month, oldest month first.
func Monthly(records []exam.Record) []MonthCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Date.Time().Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	slices.Sort(months)

	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCount{Month: m, Exams: counts[m]})
	}
	return out
}
