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

func TestShowConfig_Execute(t *testing.T) {
	t.Run("returns both config infos and effective config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.DataConfigInfo = domain.ConfigInfo{
			Path:    "/data/te4it/config.toml",
			Content: "[store]\ntype = \"json\"",
			Exists:  true,
		}
		manager.GlobalConfigInfo = domain.ConfigInfo{
			Path:    "/home/test/.config/te4it/config.toml",
			Content: "[log]\nlevel = \"debug\"",
			Exists:  true,
		}
		effective := domain.NewDefaultConfig()
		effective.Store.Type = domain.StoreTypeJSON

		uc := usecase.NewShowConfig(manager, effective)
		out, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, "/data/te4it/config.toml", out.DataConfig.Path)
		assert.Equal(t, "[store]\ntype = \"json\"", out.DataConfig.Content)
		assert.True(t, out.DataConfig.Exists)
		assert.Equal(t, "/home/test/.config/te4it/config.toml", out.GlobalConfig.Path)
		assert.True(t, out.GlobalConfig.Exists)
		assert.Equal(t, domain.StoreTypeJSON, out.Effective.Store.Type)
	})

	t.Run("handles non-existent files", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.DataConfigInfo = domain.ConfigInfo{Path: "/data/te4it/config.toml"}
		manager.GlobalConfigInfo = domain.ConfigInfo{Path: "/home/test/.config/te4it/config.toml"}

		uc := usecase.NewShowConfig(manager, domain.NewDefaultConfig())
		out, err := uc.Execute(context.Background(), usecase.ShowConfigInput{})

		require.NoError(t, err)
		assert.False(t, out.DataConfig.Exists)
		assert.Empty(t, out.DataConfig.Content)
		assert.False(t, out.GlobalConfig.Exists)
	})
}
