package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"json stdout", Config{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"warning alias", Config{Level: "WARNING"}, false},
		{"bad level", Config{Level: "loud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.log")
	l, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("order submitted", zap.String("request_id", "abc"))
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"request_id":"abc"`)
}

func TestNewWithWriter_JSONFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("json", zapcore.WarnLevel, &buf)

	l.Info("dropped")
	l.Warn("no identifiers", zap.String("entry_point", "submit_order"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "no identifiers", entry["msg"])
	assert.Equal(t, "submit_order", entry["entry_point"])
}
