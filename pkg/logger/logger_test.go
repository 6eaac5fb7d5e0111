package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	// Packages
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	assert "github.com/stretchr/testify/assert"
)

func Test_logger_001(t *testing.T) {
	assert := assert.New(t)
	defer logger.SetRoot(nil)

	var buf bytes.Buffer
	assert.NoError(logger.Configure("info", "text", &buf))

	logger.Named("agent").WithField("round", 2).Info("tool call")
	logger.Named("agent").Debug("hidden")

	line := buf.String()
	assert.Contains(line, "[INFO] [agent] tool call round=2")
	assert.NotContains(line, "hidden")
}

func Test_logger_002(t *testing.T) {
	assert := assert.New(t)
	defer logger.SetRoot(nil)

	var buf bytes.Buffer
	assert.NoError(logger.Configure("debug", "json", &buf))
	logger.Named("bot").Debug("hello")

	var v map[string]any
	assert.NoError(json.Unmarshal(buf.Bytes(), &v))
	assert.Equal("bot", v["component"])
	assert.Equal("hello", v["msg"])
}

func Test_logger_003(t *testing.T) {
	assert := assert.New(t)

	assert.Error(logger.Configure("loud", "text", nil))
	assert.Error(logger.Configure("info", "xml", nil))
}

func Test_logger_004(t *testing.T) {
	assert := assert.New(t)

	entry := logger.Named("agent").WithField("run", "abc")
	ctx := logger.WithContext(context.Background(), entry)
	assert.Equal(entry, logger.FromContext(ctx, "other"))
	assert.Equal("other", logger.FromContext(context.Background(), "other").Data["component"])
}
