package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"mocardapio-api/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTo_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewTo(&buf, true)
	log.Debug("hidden")
	log.Info("order placed", "order_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order placed", line["msg"])
	assert.EqualValues(t, 7, line["order_id"])
}

func TestNewTo_DevelopmentIsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger.NewTo(&buf, false).Debug("claim", "outcome", "won")
	assert.Contains(t, buf.String(), "outcome=won")
}

func TestFromCtx(t *testing.T) {
	assert.Same(t, slog.Default(), logger.FromCtx(context.Background()))

	var buf bytes.Buffer
	log := logger.NewTo(&buf, false).With("request_id", "abc")
	ctx := logger.Inject(context.Background(), log)
	logger.FromCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")
}
