package status

import "healthtrack/internal/exam"

// Aggregate reduces records to one overall status.
//
// The reduction is by priority of concern, not by average: one critical
// exam makes the whole summary critical no matter how many good ones exist.
// Precedence is critical, warning, good, then excellent. An empty
// collection aggregates to excellent.
func Aggregate(records []exam.Record) exam.Status {
	counts := Count(records)

	for _, s := range concernOrder {
		if counts[s] > 0 {
			return s
		}
	}
	return exam.StatusExcellent
}

// concernOrder is the aggregation precedence. It is unrelated to the
// ordinal scores used for trends.
var concernOrder = []exam.Status{
	exam.StatusCritical,
	exam.StatusWarning,
	exam.StatusGood,
}

// Count returns the number of records per status.
func Count(records []exam.Record) map[exam.Status]int {
	counts := make(map[exam.Status]int, len(exam.Statuses))
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}

// Bucket is one slice of the status distribution.
type Bucket struct {
	Status exam.Status `json:"status"`
	Count  int         `json:"count"`
}

// Distribution returns per-status counts, most favorable first,
// leaving out statuses with no records.
func Distribution(records []exam.Record) []Bucket {
	counts := Count(records)

	out := make([]Bucket, 0, len(exam.Statuses))
	for _, s := range exam.Statuses {
		if counts[s] > 0 {
			out = append(out, Bucket{Status: s, Count: counts[s]})
		}
	}
	return out
}

// displayScores is the gauge percentage shown on the status card.
var displayScores = map[exam.Status]int{
	exam.StatusExcellent: 95,
	exam.StatusGood:      80,
	exam.StatusWarning:   60,
	exam.StatusCritical:  30,
}

// DisplayScore returns the status card gauge value for s, 0 if s is unknown.
func DisplayScore(s exam.Status) int {
	return displayScores[s]
}
