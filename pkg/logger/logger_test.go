package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	ctx := context.Background()
	entry := GetLogger(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("component", "bump")
	ctx := WithLogger(context.Background(), custom)

	entry := G(ctx)
	assert.Equal(t, "bump", entry.Data["component"])
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { L.Logger.SetLevel(logrus.InfoLevel) })

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("noisy"))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() {
		SetLogFormat("fmt")
		SetLogOutput(logrus.New().Out)
	})

	SetLogFormat("json")
	SetLogOutput(&buf)

	L.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["message"])
	assert.Equal(t, "info", record["logLevel"])
	assert.NotEmpty(t, record["timestamp"])
}
