package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/entref/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
		errMsg  string
	}{
		{name: "defaults", cfg: config.LogConfig{}},
		{name: "text debug", cfg: config.LogConfig{Level: "debug", Format: "text"}},
		{name: "json warn", cfg: config.LogConfig{Level: "warn", Format: "json"}},
		{name: "uppercase level", cfg: config.LogConfig{Level: "ERROR"}},
		{name: "unknown level", cfg: config.LogConfig{Level: "loud"}, wantErr: true, errMsg: "invalid log level"},
		{name: "unknown format", cfg: config.LogConfig{Format: "xml"}, wantErr: true, errMsg: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, &bytes.Buffer{})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("compiled tables")
	assert.Empty(t, buf.String())

	logger.Warn("slow fetch")
	assert.Contains(t, buf.String(), "slow fetch")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("compiled tables", "full", 2125, "base", 106)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "compiled tables", entry["msg"])
	assert.Equal(t, float64(2125), entry["full"])
	assert.Equal(t, float64(106), entry["base"])
}
