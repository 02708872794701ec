package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/libris-ui/internal/errors"
)

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "transient", Classify(fmt.Errorf("fetch: %w", apperrors.Transient("offline"))))
	assert.Equal(t, "unauthenticated", Classify(apperrors.Unauthenticated("expired")))
	assert.Equal(t, "errors_errorstring", Classify(fmt.Errorf("outer: %w", fmt.Errorf("inner"))))
	assert.Equal(t, "context_deadlineexceedederror", Classify(context.DeadlineExceeded))
}
