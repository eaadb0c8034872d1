package logger

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	entry := G(context.Background())
	assert.Same(t, L.Logger, entry.Logger)
}

func TestWithLogger(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("cmd", "lint")
	ctx := WithLogger(context.Background(), custom)

	got := G(ctx)
	assert.Equal(t, "lint", got.Data["cmd"])
	assert.NotSame(t, L.Logger, got.Logger)
}

func TestSetLogLevelAndOutput(t *testing.T) {
	prev := L.Logger.GetLevel()
	t.Cleanup(func() {
		L.Logger.SetLevel(prev)
		SetLogFormat("fmt")
		SetLogOutput(os.Stderr)
	})

	var buf bytes.Buffer
	SetLogOutput(&buf)

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	SetLogFormat("json")
	L.Debug("hello")
	assert.Contains(t, buf.String(), `"message":"hello"`)

	assert.Error(t, SetLogLevel("nope"))
}
