package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_Fallback(t *testing.T) {
	entry := FromContext(context.Background())
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger_RoundTrip(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("component", "test")

	ctx := WithLogger(context.Background(), custom)
	got := FromContext(ctx)

	require.NotNil(t, got)
	assert.Equal(t, custom.Logger, got.Logger)
	assert.Equal(t, "test", got.Data["component"])
}

func TestG_IsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, FromContext(ctx).Logger, G(ctx).Logger)
}

func TestSetLevel(t *testing.T) {
	original := L.Logger.GetLevel()
	defer L.Logger.SetLevel(original)

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLevel("not-a-level"))
}

func TestSetFormat_JSON(t *testing.T) {
	defer applyFormat(L.Logger, "text")

	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	applyFormat(l, "json")
	l.Info("hello")

	assert.Contains(t, buf.String(), `"message":"hello"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}
