package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/ankibot/internal/config"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug},
		{level: "info", enabled: slog.LevelInfo},
		{level: "warn", enabled: slog.LevelWarn},
		{level: "error", enabled: slog.LevelError},
		{level: "WARN", enabled: slog.LevelWarn},
		{level: "bogus", enabled: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.level})
			require.NotNil(t, logger)

			assert.True(t, logger.Enabled(nil, tt.enabled))
			if tt.enabled > slog.LevelDebug {
				assert.False(t, logger.Enabled(nil, tt.enabled-4))
			}
		})
	}
}

func TestSetupSetsDefault(t *testing.T) {
	logger := Setup(config.ServerConfig{Port: 8080, LogLevel: "info"})
	assert.Equal(t, logger, slog.Default())
}
