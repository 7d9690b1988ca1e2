package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataDir := filepath.Join(t.TempDir(), "data")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "version", args: []string{"version"}},
		{name: "help", args: []string{"--help"}},
		{name: "init", args: []string{"--data-dir", dataDir, "init"}},
		{name: "add after init", args: []string{"--data-dir", dataDir, "add", "Write", "report"}},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: true},
		{name: "bad task id", args: []string{"--data-dir", dataDir, "done", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
