package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format, Service: "synthlaw"})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/x/y.log"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestZapLogger_WritesTypedFields(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Info("analysis complete",
		String("analysis_id", "a-1"),
		Int("risks", 3),
		Float64("score", 85),
		Bool("enriched", false),
		Strings("clauses", []string{"ip_transfer"}),
		Duration("took", 15*time.Millisecond),
		Err(errors.New("cache miss")),
	)

	out := buf.String()
	assert.Contains(t, out, `"msg":"analysis complete"`)
	assert.Contains(t, out, `"analysis_id":"a-1"`)
	assert.Contains(t, out, `"risks":3`)
	assert.Contains(t, out, `"enriched":false`)
	assert.Contains(t, out, `"clauses":["ip_transfer"]`)
	assert.Contains(t, out, `"error":"cache miss"`)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("analysis").With(String("request_id", "r-9"))

	l.Warn("enrichment skipped")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "analysis", entries[0].LoggerName)
	assert.Equal(t, "r-9", entries[0].ContextMap()["request_id"])
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.NotNil(t, l.With(String("k", "v")).Named("n"))
	assert.NoError(t, l.Sync())
}

func TestDefault_SetDefaultIgnoresNil(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	custom := NewNopLogger()
	SetDefault(custom)
	assert.Equal(t, custom, Default())

	SetDefault(nil)
	assert.Equal(t, custom, Default())
}

func TestZapLogger_SetLevelAppliesToChildren(t *testing.T) {
	buf := &zaptest.Buffer{}
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), buf, level)
	var l Logger = &zapLogger{z: zap.New(core), level: &level}
	child := l.Named("analysis")

	setter, ok := l.(LevelSetter)
	require.True(t, ok)
	setter.SetLevel("warn")

	child.Info("dropped")
	child.Warn("kept")
	require.Len(t, buf.Lines(), 1)
	assert.Contains(t, buf.Lines()[0], `"msg":"kept"`)

	setter.SetLevel("debug")
	child.Debug("visible")
	assert.Len(t, buf.Lines(), 2)
}

func TestNewLogger_SupportsLevelChanges(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info"})
	require.NoError(t, err)
	_, ok := l.(LevelSetter)
	assert.True(t, ok)
	_, ok = NewNopLogger().(LevelSetter)
	assert.False(t, ok)
}
