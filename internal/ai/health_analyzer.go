package ai

import (
	"slices"
	"strings"
	"time"

	"healthtrack/internal/exam"
	"healthtrack/internal/logs"
	"healthtrack/internal/metrics"
	"healthtrack/internal/notify"
	"healthtrack/internal/status"
	"healthtrack/internal/trend"
)

// HealthAnalyzer turns the exam history into a dashboard health report.
type HealthAnalyzer struct {
	metrics *metrics.Registry
	logger  *logs.Logger
	policy  notify.Policy
	rules   []Rule
}

// NewHealthAnalyzer creates a new analyzer.
func NewHealthAnalyzer(
	reg *metrics.Registry,
	logger *logs.Logger,
	policy notify.Policy,
) *HealthAnalyzer {
	return &HealthAnalyzer{
		metrics: reg,
		logger:  logger,
		policy:  policy,
		rules: []Rule{
			CriticalExamRule,
			AttentionExamRule,
			OverdueCheckupRule(policy.ReminderAfterDays),
			OutOfRangeRule,
		},
	}
}

// Analyze builds the report for records as of now. readIDs holds the
// notifications already marked read.
func (ha *HealthAnalyzer) Analyze(
	records []exam.Record,
	readIDs map[string]bool,
	now time.Time,
) HealthReport {
	records = exam.SortNewestFirst(records)
	overall := status.Aggregate(records)

	var (
		signals         = []string{}
		recommendations = []string{}
	)

	/* ---------- EXAM RULES ---------- */

	for _, rule := range ha.rules {
		result := rule(records, now)
		if !result.Triggered {
			continue
		}

		signals = append(signals, result.Signal)
		recommendations = appendUnique(recommendations, result.Recommendation)

		ha.metrics.Inc(metrics.RulesTriggeredTotal)
		ha.logger.Debug("health rule triggered",
			"signal", result.Signal,
			"severity", result.Severity,
		)
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	failedUploads := 0
	for _, entry := range ha.logger.GetLast(100) {
		if entry.Level == logs.ERROR &&
			strings.Contains(entry.Message, "upload analysis failed") {
			failedUploads++
		}
	}
	if failedUploads > 0 {
		signals = append(signals, "Recent uploads could not be analysed")
		recommendations = appendUnique(recommendations, "Upload the affected documents again")
	}

	/* ---------- REPORT ---------- */

	var latest *exam.Record
	if len(records) > 0 {
		r := records[0].Clone()
		latest = &r
		for _, rec := range r.Recommendations {
			recommendations = appendUnique(recommendations, rec)
		}
	}

	notifications := notify.ApplyReadState(ha.policy.Derive(records, now), readIDs)

	ha.metrics.Inc(metrics.ReportsGeneratedTotal)

	return HealthReport{
		OverallStatus:       overall,
		Score:               status.DisplayScore(overall),
		Summary:             summaries[overall],
		Signals:             signals,
		Recommendations:     recommendations,
		Distribution:        status.Distribution(records),
		Monthly:             trend.Monthly(records),
		Trend:               trend.Score(records),
		LatestExam:          latest,
		UnreadNotifications: notify.UnreadCount(notifications),
		GeneratedAt:         now.UTC(),
	}
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
