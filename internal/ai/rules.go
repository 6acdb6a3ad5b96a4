package ai

import (
	"fmt"
	"strings"
	"time"

	"healthtrack/internal/exam"
)

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       exam.Status
}

// Rule evaluates the exam history. Records arrive newest first.
type Rule func(records []exam.Record, now time.Time) RuleResult

// ---------- RULES ----------

// Any critical exam needs a doctor.
func CriticalExamRule(records []exam.Record, _ time.Time) RuleResult {
	n := countStatus(records, exam.StatusCritical)
	if n == 0 {
		return RuleResult{}
	}
	return RuleResult{
		Triggered:      true,
		Signal:         fmt.Sprintf("%d exam(s) with critical results", n),
		Recommendation: "Schedule an appointment with your doctor as soon as possible",
		Severity:       exam.StatusCritical,
	}
}

// Warning exams deserve a follow-up.
func AttentionExamRule(records []exam.Record, _ time.Time) RuleResult {
	n := countStatus(records, exam.StatusWarning)
	if n == 0 {
		return RuleResult{}
	}
	return RuleResult{
		Triggered:      true,
		Signal:         fmt.Sprintf("%d exam(s) need attention", n),
		Recommendation: "Plan a follow-up for the exams that need attention",
		Severity:       exam.StatusWarning,
	}
}

// OverdueCheckupRule fires when the latest exam is more than afterDays old.
func OverdueCheckupRule(afterDays int) Rule {
	return func(records []exam.Record, now time.Time) RuleResult {
		if len(records) == 0 {
			return RuleResult{}
		}
		days := records[0].Date.DaysUntil(now)
		if days <= afterDays {
			return RuleResult{}
		}
		return RuleResult{
			Triggered:      true,
			Signal:         fmt.Sprintf("Last exam was %d days ago", days),
			Recommendation: "Schedule a routine check-up",
			Severity:       exam.StatusGood,
		}
	}
}

// Out-of-range parameters in the latest exam.
func OutOfRangeRule(records []exam.Record, _ time.Time) RuleResult {
	if len(records) == 0 {
		return RuleResult{}
	}
	latest := records[0]

	var names []string
	for _, p := range latest.Parameters {
		if p.Status != exam.ParameterNormal {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return RuleResult{}
	}
	return RuleResult{
		Triggered: true,
		Signal: fmt.Sprintf("%d parameter(s) out of range in %s: %s",
			len(names), latest.ExamType, strings.Join(names, ", ")),
		Recommendation: "Discuss the out-of-range values in your latest exam with your doctor",
		Severity:       exam.StatusWarning,
	}
}

func countStatus(records []exam.Record, s exam.Status) int {
	n := 0
	for _, r := range records {
		if r.Status == s {
			n++
		}
	}
	return n
}
