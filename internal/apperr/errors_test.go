package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("exam", "42")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "42", err.Details["id"])
	assert.Equal(t, "exam not found: resource not found", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("plain error becomes internal", func(t *testing.T) {
		base := errors.New("connection reset")
		err := Wrap(base, "failed to list exams")

		assert.ErrorIs(t, err, base)
		assert.Equal(t, "INTERNAL_ERROR", err.Code)
		assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	})

	t.Run("app error keeps its status", func(t *testing.T) {
		orig := Validation("invalid exam", map[string]string{"status": "unknown"})
		err := Wrap(orig, "seed")

		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
		assert.Equal(t, "seed: invalid exam", err.Message)
		assert.Equal(t, "invalid exam", orig.Message, "original must not be modified")
	})
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("dup")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("ctx: %w", BadRequest("x"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
