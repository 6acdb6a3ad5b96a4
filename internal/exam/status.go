package exam

import (
	"encoding/json"

	"healthtrack/internal/apperr"
)

// Status is the overall result of a single exam.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusWarning   Status = "warning"
	StatusCritical  Status = "critical"
)

// Statuses lists every valid Status, most favorable first.
var Statuses = []Status{StatusExcellent, StatusGood, StatusWarning, StatusCritical}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusExcellent, StatusGood, StatusWarning, StatusCritical:
		return true
	}
	return false
}

// ParseStatus converts raw into a Status. Unknown values are rejected.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", apperr.Validation("invalid exam status", map[string]string{
			"status": raw,
		})
	}
	return s, nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParameterStatus flags a single measurement against its reference range.
type ParameterStatus string

const (
	ParameterNormal ParameterStatus = "normal"
	ParameterHigh   ParameterStatus = "high"
	ParameterLow    ParameterStatus = "low"
)

func (s ParameterStatus) Valid() bool {
	switch s {
	case ParameterNormal, ParameterHigh, ParameterLow:
		return true
	}
	return false
}

// ParseParameterStatus converts raw into a ParameterStatus. Unknown values are rejected.
func ParseParameterStatus(raw string) (ParameterStatus, error) {
	s := ParameterStatus(raw)
	if !s.Valid() {
		return "", apperr.Validation("invalid parameter status", map[string]string{
			"status": raw,
		})
	}
	return s, nil
}

func (s *ParameterStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseParameterStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
