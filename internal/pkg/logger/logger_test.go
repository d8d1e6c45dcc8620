package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "text", Output: &buf})

	Info(context.Background(), "hidden")
	Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	Error(ctx, "boom", "deal_id", "d1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["msg"])
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "d1", line["deal_id"])
}

func TestWithContextEmpty(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "text", Output: &buf})

	Debug(context.Background(), "plain")
	assert.Contains(t, buf.String(), "plain")
	assert.NotContains(t, buf.String(), "request_id")
}
