package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/internal/exam"
)

func rec(id string, d exam.Date, s exam.Status) exam.Record {
	return exam.Record{ID: id, ExamType: "type-" + id, Date: d, Status: s}
}

func TestScore_Empty(t *testing.T) {
	res := Score(nil)

	assert.Empty(t, res.Series)
	assert.NotNil(t, res.Series)
	assert.Equal(t, 0.0, res.AverageScore)
	assert.Equal(t, 0, res.LastScore)
	assert.Equal(t, Stable, res.Direction)
	assert.Equal(t, 0.0, res.Change)
}

func TestScore_SingleRecordIsStable(t *testing.T) {
	res := Score([]exam.Record{rec("1", exam.NewDate(2024, 1, 1), exam.StatusCritical)})

	assert.Equal(t, Stable, res.Direction)
	assert.Equal(t, 0.0, res.Change)
	assert.Equal(t, 1.0, res.AverageScore)
	assert.Equal(t, 1, res.LastScore)
}

func TestScore_ReferenceExample(t *testing.T) {
	// Stored newest first, as the dashboard keeps them.
	records := []exam.Record{
		rec("1", exam.NewDate(2024, 12, 15), exam.StatusGood),
		rec("2", exam.NewDate(2024, 9, 10), exam.StatusWarning),
		rec("3", exam.NewDate(2024, 6, 20), exam.StatusExcellent),
	}

	res := Score(records)

	require.Len(t, res.Series, 3)
	scores := []int{res.Series[0].Score, res.Series[1].Score, res.Series[2].Score}
	assert.Equal(t, []int{4, 2, 3}, scores)
	assert.Equal(t, "type-3", res.Series[0].ExamType)
	assert.InDelta(t, 3.0, res.AverageScore, 1e-9)
	assert.Equal(t, 3, res.LastScore)
	assert.Equal(t, Down, res.Direction)
	assert.InDelta(t, 25.0, res.Change, 1e-9)
}

func TestScore_Directions(t *testing.T) {
	d1, d2 := exam.NewDate(2024, 1, 1), exam.NewDate(2024, 6, 1)

	tests := []struct {
		name      string
		first     exam.Status
		last      exam.Status
		direction Direction
		change    float64
	}{
		{"critical to warning is +100%", exam.StatusCritical, exam.StatusWarning, Up, 100},
		{"good to excellent", exam.StatusGood, exam.StatusExcellent, Up, 100.0 / 3},
		{"excellent to critical", exam.StatusExcellent, exam.StatusCritical, Down, 75},
		{"same status", exam.StatusGood, exam.StatusGood, Stable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score([]exam.Record{rec("b", d2, tt.last), rec("a", d1, tt.first)})
			assert.Equal(t, tt.direction, res.Direction)
			assert.InDelta(t, tt.change, res.Change, 1e-9)
		})
	}
}

func TestScore_OnlyEndpointsDecideDirection(t *testing.T) {
	records := []exam.Record{
		rec("1", exam.NewDate(2024, 1, 1), exam.StatusGood),
		rec("2", exam.NewDate(2024, 2, 1), exam.StatusCritical),
		rec("3", exam.NewDate(2024, 3, 1), exam.StatusCritical),
		rec("4", exam.NewDate(2024, 4, 1), exam.StatusGood),
	}

	res := Score(records)
	assert.Equal(t, Stable, res.Direction)
	assert.InDelta(t, 2.0, res.AverageScore, 1e-9)
}

func TestScore_StableSortKeepsInputOrderOnTies(t *testing.T) {
	day := exam.NewDate(2024, 5, 5)
	res := Score([]exam.Record{
		rec("x", day, exam.StatusWarning),
		rec("y", day, exam.StatusExcellent),
	})

	require.Len(t, res.Series, 2)
	assert.Equal(t, "type-x", res.Series[0].ExamType)
	assert.Equal(t, "type-y", res.Series[1].ExamType)
	assert.Equal(t, Up, res.Direction)
}

func TestScore_SeriesIndependentOfInputOrder(t *testing.T) {
	a := rec("1", exam.NewDate(2024, 1, 1), exam.StatusWarning)
	b := rec("2", exam.NewDate(2024, 3, 1), exam.StatusGood)
	c := rec("3", exam.NewDate(2024, 2, 1), exam.StatusExcellent)

	assert.Equal(t, Score([]exam.Record{a, b, c}), Score([]exam.Record{c, b, a}))
}

func TestMonthly(t *testing.T) {
	got := Monthly([]exam.Record{
		rec("1", exam.NewDate(2024, 12, 15), exam.StatusGood),
		rec("2", exam.NewDate(2024, 9, 10), exam.StatusWarning),
		rec("3", exam.NewDate(2024, 12, 1), exam.StatusGood),
	})

	assert.Equal(t, []MonthCount{
		{Month: "2024-09", Exams: 1},
		{Month: "2024-12", Exams: 2},
	}, got)
}
