// Package fixtures provides the mock exam history the service starts with.
package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"healthtrack/internal/exam"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Exams []seedExam `yaml:"exams"`
}

type seedExam struct {
	ID              string          `yaml:"id"`
	Type            string          `yaml:"type"`
	Date            string          `yaml:"date"`
	Status          string          `yaml:"status"`
	Summary         string          `yaml:"summary"`
	FileName        string          `yaml:"file_name"`
	Parameters      []seedParameter `yaml:"parameters"`
	Recommendations []string        `yaml:"recommendations"`
}

type seedParameter struct {
	Name      string `yaml:"name"`
	Value     string `yaml:"value"`
	Reference string `yaml:"reference"`
	Status    string `yaml:"status"`
}

// Default returns the embedded mock exams, newest first.
func Default() ([]exam.Record, error) {
	return Parse(defaultSeed)
}

// Load reads records from the YAML file at path, or the embedded set when
// path is empty.
func Load(path string) ([]exam.Record, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document. Every exam goes through exam.NewRecord,
// so a bad status or date rejects the whole file.
func Parse(data []byte) ([]exam.Record, error) {
	var f seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	records := make([]exam.Record, 0, len(f.Exams))
	for i, e := range f.Exams {
		r, err := e.record()
		if err != nil {
			return nil, fmt.Errorf("seed exam %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (e seedExam) record() (exam.Record, error) {
	date, err := exam.ParseDate(e.Date)
	if err != nil {
		return exam.Record{}, err
	}
	status, err := exam.ParseStatus(e.Status)
	if err != nil {
		return exam.Record{}, err
	}

	params := make([]exam.Parameter, 0, len(e.Parameters))
	for _, p := range e.Parameters {
		ps, err := exam.ParseParameterStatus(p.Status)
		if err != nil {
			return exam.Record{}, err
		}
		params = append(params, exam.Parameter{
			Name:      p.Name,
			Value:     p.Value,
			Reference: p.Reference,
			Status:    ps,
		})
	}

	return exam.NewRecord(exam.Record{
		ID:              e.ID,
		ExamType:        e.Type,
		Date:            date,
		Status:          status,
		Summary:         e.Summary,
		FileName:        e.FileName,
		Parameters:      params,
		Recommendations: e.Recommendations,
	})
}
