package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "", RequestID(WithRequestID(context.Background(), "")))
}

func TestNewRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
	assert.Len(t, NewRequestID(), 36)
}
