package trend

import (
	"math"

	"healthtrack/internal/exam"
)

// Direction is the movement of the ordinal score over the series.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Stable Direction = "stable"
)

// thresholdPercent is the change needed before a trend counts as up or down.
const thresholdPercent = 5.0

// ordinals maps a status to its trend score. It is not the aggregation
// precedence and must not be used for it.
var ordinals = map[exam.Status]int{
	exam.StatusExcellent: 4,
	exam.StatusGood:      3,
	exam.StatusWarning:   2,
	exam.StatusCritical:  1,
}

// Ordinal returns the trend score of s, 0 if s is unknown.
func Ordinal(s exam.Status) int {
	return ordinals[s]
}

// Point is one exam in the scored series.
type Point struct {
	Date     exam.Date   `json:"date"`
	Score    int         `json:"score"`
	Status   exam.Status `json:"status"`
	ExamType string      `json:"type"`
}

// Result is the scored series and its summary.
type Result struct {
	Series       []Point   `json:"series"`
	AverageScore float64   `json:"average_score"`
	LastScore    int       `json:"last_score"`
	Direction    Direction `json:"direction"`
	// Change is the magnitude of the first-to-last percentage change.
	Change float64 `json:"change"`
}

// Score sorts records by date and derives the trend.
//
// Direction compares only the first and last points:
// change = (last-first)/first*100. Because first can be 1 (critical),
// a single step up from critical reads as +100%.
func Score(records []exam.Record) Result {
	sorted := exam.SortOldestFirst(records)

	res := Result{
		Series:    make([]Point, 0, len(sorted)),
		Direction: Stable,
	}
	if len(sorted) == 0 {
		return res
	}

	total := 0
	for _, r := range sorted {
		score := Ordinal(r.Status)
		total += score
		res.Series = append(res.Series, Point{
			Date:     r.Date,
			Score:    score,
			Status:   r.Status,
			ExamType: r.ExamType,
		})
	}

	res.AverageScore = float64(total) / float64(len(res.Series))
	res.LastScore = res.Series[len(res.Series)-1].Score

	if len(res.Series) < 2 {
		return res
	}

	first := float64(res.Series[0].Score)
	last := float64(res.LastScore)
	if first == 0 {
		return res
	}

	change := (last - first) / first * 100
	switch {
	case change > thresholdPercent:
		res.Direction = Up
	case change < -thresholdPercent:
		res.Direction = Down
	}
	res.Change = math.Abs(change)

	return res
}
