package usecase

import (
	"context"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
)

func TestShowConfigTemplate_Defaults(t *testing.T) {
	// Execute
	out, err := NewShowConfigTemplate().Execute(context.Background(), ShowConfigTemplateInput{})

	// Assert
	require.NoError(t, err)
	for _, section := range []string{"[store]", "[users]", "[log]", "[invitations]"} {
		assert.Contains(t, out.Template, section)
	}
	assert.Contains(t, out.Template, `type = "sqlite"`)
	assert.Contains(t, out.Template, "expiration_days = 7")
}

func TestShowConfigTemplate_RendersValues(t *testing.T) {
	// Setup
	cfg := &domain.Config{
		Store:       domain.StoreConfig{Type: domain.StoreTypeJSON},
		Log:         domain.LogConfig{Level: "debug"},
		Invitations: domain.InvitationsConfig{ExpirationDays: 14},
	}

	// Execute
	out, err := NewShowConfigTemplate().Execute(context.Background(), ShowConfigTemplateInput{Config: cfg})
	require.NoError(t, err)

	// Assert: the rendered file loads back to the same settings
	var parsed domain.Config
	require.NoError(t, toml.Unmarshal([]byte(out.Template), &parsed))
	assert.Equal(t, domain.StoreTypeJSON, parsed.Store.Type)
	assert.Equal(t, "debug", parsed.Log.Level)
	assert.Equal(t, 14, parsed.Invitations.ExpirationDays)
	assert.NotContains(t, out.Template, `type = "sqlite"`)
}
