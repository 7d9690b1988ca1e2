package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStore_Execute(t *testing.T) {
	// Setup
	dataDir := filepath.Join(t.TempDir(), "weekplan")
	store := &testutil.MockStoreInitializer{}
	uc := NewInitStore(store, nil)

	// Execute
	out, err := uc.Execute(context.Background(), InitStoreInput{DataDir: dataDir})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.AlreadyInitialized)
	assert.True(t, out.ConfigWritten)
	assert.True(t, store.Initialized)
	assert.DirExists(t, filepath.Join(dataDir, "logs"))

	content, err := os.ReadFile(out.ConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[calendar]")
}

func TestInitStore_Execute_KeepsExistingConfig(t *testing.T) {
	dataDir := t.TempDir()
	cfgPath := domain.DataConfigPath(dataDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"debug\"\n"), 0o600))
	store := &testutil.MockStoreInitializer{Initialized: true}

	out, err := NewInitStore(store, nil).Execute(context.Background(), InitStoreInput{DataDir: dataDir})

	require.NoError(t, err)
	assert.True(t, out.AlreadyInitialized)
	assert.False(t, out.ConfigWritten)
	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "[log]\nlevel = \"debug\"\n", string(content))
}

func TestInitStore_Execute_StoreError(t *testing.T) {
	store := &testutil.MockStoreInitializer{InitErr: errors.New("permission denied")}

	_, err := NewInitStore(store, nil).Execute(context.Background(), InitStoreInput{DataDir: t.TempDir()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize task store")
}
