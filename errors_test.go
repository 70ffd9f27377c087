package postharvest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/postharvest"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := postharvest.Errorf(postharvest.EFETCH, "HTTP %d for %s", 404, "https://example.com/p/a")

	assert.Equal(t, postharvest.EFETCH, postharvest.ErrorCode(err))
	assert.Equal(t, "HTTP 404 for https://example.com/p/a", postharvest.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("extracting: %w", postharvest.Errorf(postharvest.ENOTFOUND, "no posts"))

	assert.Equal(t, postharvest.ENOTFOUND, postharvest.ErrorCode(err))
	assert.Equal(t, "no posts", postharvest.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, postharvest.EINTERNAL, postharvest.ErrorCode(err))
	assert.Equal(t, "Internal error", postharvest.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, postharvest.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, postharvest.ErrorMessage(nil))
}
