package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrStageMismatch, "director cannot act on Course Coordinator")
	require.True(t, errors.Is(err, ErrStageMismatch))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.Equal(t, "director cannot act on Course Coordinator", err.Message)
	assert.Equal(t, "actor does not govern the current stage", ErrStageMismatch.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)

	wrapped := fmt.Errorf("load: %w", Clone(ErrNotFound, "application not found"))
	assert.Equal(t, ErrNotFound.Code, FromError(wrapped).Code)
	assert.Nil(t, FromError(nil))
}
