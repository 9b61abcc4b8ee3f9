package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func TestInitStore_Execute(t *testing.T) {
	// Setup
	dataDir := filepath.Join(t.TempDir(), "te4it")
	storeInit := &testutil.MockStoreInitializer{}
	uc := NewInitStore(storeInit)

	// Execute
	out, err := uc.Execute(context.Background(), InitStoreInput{DataDir: dataDir})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, dataDir, out.DataDir)
	assert.False(t, out.AlreadyInitialized)
	assert.True(t, storeInit.Initialized)
	assert.DirExists(t, domain.LogDir(dataDir))
}

func TestInitStore_Execute_AlreadyInitialized(t *testing.T) {
	// Setup
	dataDir := t.TempDir()
	storeInit := &testutil.MockStoreInitializer{InitErr: domain.ErrAlreadyInitialized}
	uc := NewInitStore(storeInit)

	// Execute
	out, err := uc.Execute(context.Background(), InitStoreInput{DataDir: dataDir})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.AlreadyInitialized)
}

func TestInitStore_Execute_InitError(t *testing.T) {
	// Setup
	storeInit := &testutil.MockStoreInitializer{InitErr: errors.New("disk full")}
	uc := NewInitStore(storeInit)

	// Execute
	_, err := uc.Execute(context.Background(), InitStoreInput{DataDir: t.TempDir()})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize store")
}

func TestInitStore_Execute_DataDirIsFile(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	uc := NewInitStore(&testutil.MockStoreInitializer{})

	// Execute
	_, err := uc.Execute(context.Background(), InitStoreInput{DataDir: path})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create data directory")
}
