package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	l, err := New(false, false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)
	OrNop(l).Info("kept", zap.String(FieldRole, "Data Engineer"))

	require.Equal(t, 1, observed.Len())
	entry := observed.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "Data Engineer", entry.ContextMap()[FieldRole])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("  abc ", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}
