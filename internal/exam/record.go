package exam

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"healthtrack/internal/apperr"
)

// Parameter is one named measurement inside an exam.
// Value and Reference are display strings and may embed units.
type Parameter struct {
	Name      string          `json:"name"`
	Value     string          `json:"value"`
	Reference string          `json:"reference"`
	Status    ParameterStatus `json:"status"`
}

// Record is a single exam result. Records are values: once built by
// NewRecord they are only ever copied, never edited.
type Record struct {
	ID              string      `json:"id"`
	ExamType        string      `json:"type"`
	Date            Date        `json:"date"`
	Status          Status      `json:"status"`
	Summary         string      `json:"summary"`
	FileName        string      `json:"file_name,omitempty"`
	Parameters      []Parameter `json:"parameters,omitempty"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// NewRecord validates r and returns a detached copy of it.
// An empty ID is replaced by a fresh UUID.
func NewRecord(r Record) (Record, error) {
	details := map[string]string{}

	if strings.TrimSpace(r.ExamType) == "" {
		details["type"] = "type is required"
	}
	if r.Date.IsZero() {
		details["date"] = "date is required"
	}
	if !r.Status.Valid() {
		details["status"] = "unknown status " + string(r.Status)
	}
	for _, p := range r.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			details["parameters"] = "parameter name is required"
			break
		}
		if !p.Status.Valid() {
			details["parameters"] = "unknown status " + string(p.Status) + " for " + p.Name
			break
		}
	}

	if len(details) > 0 {
		return Record{}, apperr.Validation("invalid exam record", details)
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r.Clone(), nil
}

// Clone returns a copy of r that shares no slices with it.
func (r Record) Clone() Record {
	r.Parameters = slices.Clone(r.Parameters)
	r.Recommendations = slices.Clone(r.Recommendations)
	return r
}

// Parameter returns the first parameter named name.
func (r Record) Parameter(name string) (Parameter, bool) {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// SortOldestFirst returns a copy of records ordered by ascending date.
// Records sharing a date keep their relative order.
func SortOldestFirst(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		return a.Date.t.Compare(b.Date.t)
	})
	return out
}

// SortNewestFirst returns a copy of records ordered by descending date.
// Records sharing a date keep their relative order.
func SortNewestFirst(records []Record) []Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.Date.t.Compare(a.Date.t)
	})
	return out
}
