package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidewell/scheduler/internal/model"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCategory
	}{
		{400, Irrecoverable},
		{401, Irrecoverable},
		{404, Irrecoverable},
		{408, Recoverable},
		{429, Recoverable},
		{500, Recoverable},
		{503, Recoverable},
		{302, Recoverable},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			got := ClassifyHTTPError(tc.status, "", stderrors.New("x"))
			assert.Equal(t, tc.want, got.Category)
		})
	}
}

func TestNewHTTPError_WrapsModelSentinels(t *testing.T) {
	assert.ErrorIs(t, NewHTTPError(404, "", "update"), model.ErrNotFound)
	assert.ErrorIs(t, NewHTTPError(400, "", "create"), model.ErrValidation)
	assert.ErrorIs(t, NewHTTPError(409, "", "create"), model.ErrConflict)
	assert.Contains(t, NewHTTPError(502, "bad gateway", "list").Error(), "HTTP 502")
}

func TestIsIrrecoverable(t *testing.T) {
	assert.True(t, IsIrrecoverable(NewHTTPError(403, "", "delete")))
	assert.True(t, IsIrrecoverable(fmt.Errorf("wrapped: %w", NewHTTPError(400, "", "create"))))
	assert.True(t, IsIrrecoverable(fmt.Errorf("store: %w", model.ErrNotFound)))
	assert.True(t, IsIrrecoverable(Irrecoverablef("no remote id for %d", 3)))

	assert.False(t, IsIrrecoverable(NewNetworkError("list", context.DeadlineExceeded)))
	assert.False(t, IsIrrecoverable(stderrors.New("plain")))
	assert.False(t, IsIrrecoverable(nil))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Recoverable", Recoverable.String())
	assert.Equal(t, "Irrecoverable", Irrecoverable.String())
	assert.Equal(t, "Unknown(7)", ErrorCategory(7).String())
}
