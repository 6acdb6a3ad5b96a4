package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/internal/exam"
	"healthtrack/internal/logs"
	"healthtrack/internal/metrics"
	"healthtrack/internal/notify"
	"healthtrack/internal/trend"
)

func history() []exam.Record {
	return []exam.Record{
		{
			ID: "1", ExamType: "Complete Blood Count", Date: exam.NewDate(2024, 12, 15), Status: exam.StatusGood,
			Parameters: []exam.Parameter{
				{Name: "Hemoglobin", Value: "14.2 g/dL", Status: exam.ParameterNormal},
				{Name: "Vitamin D", Value: "22 ng/mL", Status: exam.ParameterLow},
			},
			Recommendations: []string{"Increase safe sun exposure"},
		},
		{ID: "2", ExamType: "Lipid Panel", Date: exam.NewDate(2024, 9, 10), Status: exam.StatusWarning},
		{ID: "3", ExamType: "Fasting Glucose", Date: exam.NewDate(2024, 6, 20), Status: exam.StatusExcellent},
	}
}

func newAnalyzer() (*HealthAnalyzer, *metrics.Registry, *logs.Logger) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(100, logs.DEBUG)
	return NewHealthAnalyzer(reg, logger, notify.DefaultPolicy()), reg, logger
}

func jan10() time.Time {
	return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
}

func TestHealthAnalyzer_Empty(t *testing.T) {
	analyzer, _, _ := newAnalyzer()

	report := analyzer.Analyze(nil, nil, jan10())

	assert.Equal(t, exam.StatusExcellent, report.OverallStatus)
	assert.Equal(t, 95, report.Score)
	assert.Empty(t, report.Signals)
	assert.Empty(t, report.Recommendations)
	assert.Nil(t, report.LatestExam)
	assert.Equal(t, 0, report.UnreadNotifications)
	assert.Equal(t, trend.Stable, report.Trend.Direction)
}

func TestHealthAnalyzer_History(t *testing.T) {
	analyzer, reg, _ := newAnalyzer()

	report := analyzer.Analyze(history(), nil, jan10())

	assert.Equal(t, exam.StatusWarning, report.OverallStatus)
	assert.Equal(t, 60, report.Score)
	assert.Equal(t, "Some results need attention", report.Summary)
	assert.Equal(t, []string{
		"1 exam(s) need attention",
		"1 parameter(s) out of range in Complete Blood Count: Vitamin D",
	}, report.Signals)
	assert.Equal(t, []string{
		"Plan a follow-up for the exams that need attention",
		"Discuss the out-of-range values in your latest exam with your doctor",
		"Increase safe sun exposure",
	}, report.Recommendations)

	require.NotNil(t, report.LatestExam)
	assert.Equal(t, "1", report.LatestExam.ID)
	assert.Len(t, report.Distribution, 3)
	assert.Len(t, report.Trend.Series, 3)
	assert.Equal(t, 1, report.UnreadNotifications)

	snap := reg.Snapshot()
	assert.Equal(t, int64(2), snap[string(metrics.RulesTriggeredTotal)])
	assert.Equal(t, int64(1), snap[string(metrics.ReportsGeneratedTotal)])
}

func TestHealthAnalyzer_InputOrderDoesNotMatter(t *testing.T) {
	analyzer, _, _ := newAnalyzer()

	h := history()
	reversed := []exam.Record{h[2], h[1], h[0]}

	a := analyzer.Analyze(h, nil, jan10())
	b := analyzer.Analyze(reversed, nil, jan10())

	assert.Equal(t, a.Signals, b.Signals)
	assert.Equal(t, a.LatestExam, b.LatestExam)
	assert.Equal(t, a.Trend, b.Trend)
}

func TestHealthAnalyzer_ReadStateLowersUnread(t *testing.T) {
	analyzer, _, _ := newAnalyzer()

	report := analyzer.Analyze(history(), map[string]bool{"warning-2": true}, jan10())

	assert.Equal(t, 0, report.UnreadNotifications)
}

func TestHealthAnalyzer_OverdueCheckup(t *testing.T) {
	analyzer, _, _ := newAnalyzer()

	report := analyzer.Analyze(history(), nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, report.Signals, "Last exam was 168 days ago")
	assert.Contains(t, report.Recommendations, "Schedule a routine check-up")
	assert.Equal(t, 2, report.UnreadNotifications)
}

func TestHealthAnalyzer_Critical(t *testing.T) {
	analyzer, _, _ := newAnalyzer()

	records := append(history(), exam.Record{
		ID: "4", ExamType: "ECG", Date: exam.NewDate(2024, 3, 1), Status: exam.StatusCritical,
	})
	report := analyzer.Analyze(records, nil, jan10())

	assert.Equal(t, exam.StatusCritical, report.OverallStatus)
	assert.Equal(t, 30, report.Score)
	assert.Equal(t, "1 exam(s) with critical results", report.Signals[0])
}

func TestHealthAnalyzer_LogBasedUploadFailures(t *testing.T) {
	analyzer, _, logger := newAnalyzer()

	logger.Error("upload analysis failed", "job_id", "abc")

	report := analyzer.Analyze(nil, nil, jan10())

	assert.Contains(t, report.Signals, "Recent uploads could not be analysed")
	assert.Contains(t, report.Recommendations, "Upload the affected documents again")
	assert.Equal(t, exam.StatusExcellent, report.OverallStatus)
}

func TestOutOfRangeRule_OnlyLatestExam(t *testing.T) {
	records := []exam.Record{
		{ID: "new", ExamType: "CBC", Parameters: []exam.Parameter{{Name: "Hb", Status: exam.ParameterNormal}}},
		{ID: "old", ExamType: "Lipid", Parameters: []exam.Parameter{{Name: "LDL", Status: exam.ParameterHigh}}},
	}

	assert.False(t, OutOfRangeRule(records, jan10()).Triggered)
	assert.False(t, OutOfRangeRule(nil, jan10()).Triggered)
}

func TestOverdueCheckupRule_Boundary(t *testing.T) {
	rule := OverdueCheckupRule(150)
	records := []exam.Record{{ID: "1", Date: exam.NewDate(2025, 1, 1)}}

	assert.False(t, rule(records, time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)).Triggered)
	assert.True(t, rule(records, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).Triggered)
}
