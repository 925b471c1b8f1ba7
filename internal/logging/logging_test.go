package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil))).With("component", "test")

	logger.InfoContext(WithRequestID(context.Background(), "req-42"), "hello")
	assert.Contains(t, buf.String(), "req_id=req-42")
	assert.Contains(t, buf.String(), "component=test")

	buf.Reset()
	logger.InfoContext(context.Background(), "no id")
	assert.NotContains(t, buf.String(), "req_id")
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	_, err := ulid.ParseStrict(a)
	require.NoError(t, err)
	assert.Less(t, a, b, "ids are monotonic")
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
