package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/weekplan/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Data directory to create
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	ConfigPath         string // Path of the config file
	AlreadyInitialized bool   // True if the store already existed
	ConfigWritten      bool   // True if a new config file was written
}

// InitStore prepares a data directory for weekplan.
type InitStore struct {
	storeInit domain.StoreInitializer
	config    *domain.Config
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer, config *domain.Config) *InitStore {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &InitStore{storeInit: storeInit, config: config}
}

// Execute creates the data and logs directories, the task store and a
// commented config file. An existing config is never overwritten.
func (uc *InitStore) Execute(ctx context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	out := &InitStoreOutput{
		AlreadyInitialized: uc.storeInit.IsInitialized(),
		ConfigPath:         domain.DataConfigPath(in.DataDir),
	}

	if err := os.MkdirAll(filepath.Join(in.DataDir, domain.LogsDirName), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if err := uc.storeInit.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize task store: %w", err)
	}

	if _, err := os.Stat(out.ConfigPath); errors.Is(err, os.ErrNotExist) {
		content := domain.RenderConfigTemplate(uc.config)
		if err := os.WriteFile(out.ConfigPath, []byte(content), 0o600); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
		out.ConfigWritten = true
	}

	return out, nil
}
