package logging

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for name, want := range cases {
		got, ok := ParseLevel(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseLevel("loud")
	assert.False(t, ok)
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	require.NoError(t, Initialize(""))
	assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel))
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	require.NoError(t, Initialize(""))
	assert.True(t, GetLogger().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
}

func TestSessionHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogSessionEvent("s-1", "127.0.0.1", "connect")
	LogFrame("s-1", "in", "input", []byte(`{"type":"input"}`))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Session event", entries[0].Message)
	assert.Equal(t, "connect", entries[0].ContextMap()["event"])
	assert.Equal(t, "input", entries[1].ContextMap()["type"])
}

func TestGetLoggerNeverNil(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, GetLogger())
	assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	// "ü" is two bytes, so a limit of 3 lands inside the second rune.
	got := truncate([]byte(strings.Repeat("ü", 4)), 3)
	assert.Equal(t, "ü...", got)
	assert.True(t, utf8.ValidString(got))

	// A four byte rune cut after its first byte drops entirely.
	got = truncate([]byte("a😀b"), 2)
	assert.Equal(t, "a...", got)

	assert.Equal(t, "short", truncate([]byte("short"), 256))
}
