// Package compare lines up the parameters of two exams and reports how each
// measurement moved between them.
//
// Values are compared by a lossy numeric extraction that ignores units
// entirely: "145 mg/dL" and "145 mmol/L" compare as equal. The result is a
// display hint only and is not fit for clinical decisions.
package compare

import (
	"regexp"
	"strconv"
	"strings"

	"healthtrack/internal/exam"
)

// Direction is how a parameter moved from exam A to exam B.
type Direction string

const (
	Up      Direction = "up"
	Down    Direction = "down"
	Flat    Direction = "flat"
	Unknown Direction = "unknown"
)

// NotAvailable is the ValueB placeholder when B lacks the parameter.
const NotAvailable = "not available"

// Delta is one aligned parameter.
type Delta struct {
	Name      string    `json:"name"`
	ValueA    string    `json:"value_a"`
	ValueB    string    `json:"value_b"`
	Direction Direction `json:"direction"`
}

// Result is the comparison of two exams.
type Result struct {
	DaysBetween int     `json:"days_between"`
	Parameters  []Delta `json:"parameters"`
}

// Compare aligns a's parameters with b's by exact name. When b repeats a
// name, the first occurrence is used. Comparing an exam with itself is
// allowed here.
func Compare(a, b exam.Record) Result {
	res := Result{
		DaysBetween: exam.DaysBetween(a.Date, b.Date),
		Parameters:  make([]Delta, 0, len(a.Parameters)),
	}

	for _, pa := range a.Parameters {
		d := Delta{
			Name:      pa.Name,
			ValueA:    pa.Value,
			ValueB:    NotAvailable,
			Direction: Unknown,
		}

		if pb, ok := b.Parameter(pa.Name); ok {
			d.ValueB = pb.Value
			d.Direction = direction(pa.Value, pb.Value)
		}

		res.Parameters = append(res.Parameters, d)
	}

	return res
}

func direction(valueA, valueB string) Direction {
	x, okA := ExtractNumber(valueA)
	y, okB := ExtractNumber(valueB)
	if !okA || !okB {
		return Unknown
	}

	switch {
	case y > x:
		return Up
	case y < x:
		return Down
	}
	return Flat
}

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.,]`)
	leadingNumber = regexp.MustCompile(`^[0-9]*\.?[0-9]*`)
)

// ExtractNumber pulls a decimal out of a display value such as "145 mg/dL".
//
// Everything except digits, '.' and ',' is dropped, the first ',' becomes
// '.', and the longest leading decimal is parsed. "7.200/mm³" yields 7.2.
func ExtractNumber(value string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(value, "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	num := leadingNumber.FindString(cleaned)
	if strings.Trim(num, ".") == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
