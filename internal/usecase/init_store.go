package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/te4it/te4it/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir string // Path to the data directory
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	DataDir            string // Path to the data directory
	AlreadyInitialized bool   // True if the store already existed
}

// InitStore prepares the data directory and creates an empty store.
type InitStore struct {
	storeInit domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer) *InitStore {
	return &InitStore{storeInit: storeInit}
}

// Execute creates the data and log directories and initializes the store.
// Running it on an initialized store is not an error.
func (uc *InitStore) Execute(_ context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if err := os.MkdirAll(in.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.MkdirAll(domain.LogDir(in.DataDir), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	already := false
	if err := uc.storeInit.Initialize(); err != nil {
		if !errors.Is(err, domain.ErrAlreadyInitialized) {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
		already = true
	}

	return &InitStoreOutput{DataDir: in.DataDir, AlreadyInitialized: already}, nil
}
