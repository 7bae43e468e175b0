package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestNewGormLoggerDefaults(t *testing.T) {
	l := NewGormLogger()

	gl, ok := l.(*GormLogger)
	require.True(t, ok)
	require.Equal(t, gormLogger.Info, gl.LogLevel)
	require.NotZero(t, gl.SlowThreshold)

	// LogMode mengembalikan logger yang sama dengan level baru
	out := l.LogMode(gormLogger.Silent)
	require.Same(t, l, out)
	require.Equal(t, gormLogger.Silent, gl.LogLevel)
}

func TestGetEnvFallback(t *testing.T) {
	require.Equal(t, "fallback", GetEnv("ENV_KEY_YANG_TIDAK_ADA", "fallback"))

	t.Setenv("ENV_KEY_TEST", "isi")
	require.Equal(t, "isi", GetEnv("ENV_KEY_TEST", "fallback"))
}
