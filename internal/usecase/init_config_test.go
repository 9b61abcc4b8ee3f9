package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
	"github.com/te4it/te4it/internal/usecase"
)

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates data directory config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.DataConfigInfo = domain.ConfigInfo{
			Path:   "/data/te4it/config.toml",
			Exists: false,
		}

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Global: false,
			Config: domain.NewDefaultConfig(),
		})

		require.NoError(t, err)
		assert.Equal(t, "/data/te4it/config.toml", out.Path)
		assert.True(t, manager.InitDataCalled)
		assert.False(t, manager.InitGlobalCalled)
	})

	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:   "/home/test/.config/te4it/config.toml",
			Exists: false,
		}

		uc := usecase.NewInitConfig(manager)
		out, err := uc.Execute(context.Background(), usecase.InitConfigInput{
			Global: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/te4it/config.toml", out.Path)
		assert.False(t, manager.InitDataCalled)
		assert.True(t, manager.InitGlobalCalled)
	})

	t.Run("returns error when data config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.DataConfigInfo = domain.ConfigInfo{Path: "/data/te4it/config.toml", Exists: true}
		manager.InitDataErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})

	t.Run("returns error when global config already exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalConfigInfo = domain.ConfigInfo{Path: "/home/test/.config/te4it/config.toml", Exists: true}
		manager.InitGlobalErr = domain.ErrConfigExists

		uc := usecase.NewInitConfig(manager)
		_, err := uc.Execute(context.Background(), usecase.InitConfigInput{Global: true})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}
