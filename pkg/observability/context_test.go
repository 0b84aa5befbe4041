package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestContext(t *testing.T) {
	t.Run("generates ids when no parent", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "")

		_, err := uuid.Parse(CorrelationIDFromContext(ctx))
		require.NoError(t, err)
		_, err = uuid.Parse(RequestIDFromContext(ctx))
		require.NoError(t, err)
	})

	t.Run("keeps parent correlation id", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "parent-corr")
		assert.Equal(t, "parent-corr", CorrelationIDFromContext(ctx))
	})
}

func TestOperationContext(t *testing.T) {
	ctx := WithOperation(context.Background(), "score.message")
	assert.Equal(t, "score.message", OperationFromContext(ctx))
	assert.Empty(t, OperationFromContext(context.Background()))
}

func TestContextAccessorsOnNilContext(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(nil))
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Empty(t, OperationFromContext(nil))
}
