package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthtrack/internal/apperr"
	"healthtrack/internal/exam"
	"healthtrack/internal/status"
)

func TestDefault(t *testing.T) {
	records, err := Default()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "Complete Blood Count", records[0].ExamType)
	assert.Equal(t, exam.NewDate(2024, 12, 15), records[0].Date)
	assert.Equal(t, exam.StatusGood, records[0].Status)
	assert.Len(t, records[0].Parameters, 4)
	assert.Len(t, records[0].Recommendations, 3)

	vitD, ok := records[0].Parameter("Vitamin D")
	require.True(t, ok)
	assert.Equal(t, exam.ParameterLow, vitD.Status)

	assert.Equal(t, exam.StatusWarning, records[1].Status)
	hdl, ok := records[1].Parameter("HDL")
	require.True(t, ok)
	assert.Equal(t, ">40", hdl.Reference)

	assert.Equal(t, exam.StatusExcellent, records[2].Status)
	assert.Equal(t, "2024-06-20", records[2].Date.String())

	assert.Equal(t, exam.StatusWarning, status.Aggregate(records))
}

func TestParse_RejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown status", "exams:\n  - {id: x, type: CBC, date: 2024-01-01, status: fine}\n"},
		{"bad date", "exams:\n  - {id: x, type: CBC, date: 01/02/2024, status: good}\n"},
		{"unknown parameter status", "exams:\n  - id: x\n    type: CBC\n    date: 2024-01-01\n    status: good\n    parameters:\n      - {name: Hb, value: '14', status: elevated}\n"},
		{"unknown field", "exams:\n  - {id: x, type: CBC, date: 2024-01-01, status: good, colour: red}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("exams:\n  - {id: x, type: CBC, date: 2024-01-01, status: fine}\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses embedded seed", func(t *testing.T) {
		records, err := Load("")
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("external file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.yaml")
		doc := "exams:\n  - {type: X-Ray, date: 2025-02-01, status: critical}\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		records, err := Load(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.NotEmpty(t, records[0].ID)
		assert.Equal(t, exam.StatusCritical, records[0].Status)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
