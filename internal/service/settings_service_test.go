package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/events"
)

func TestSettingsService_GetOrCreateDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.settings.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSiteName, first.SiteName)
	assert.Nil(t, first.Logo)
	assert.Empty(t, first.SocialLinks)
	require.NotEmpty(t, first.ID)

	second, err := env.settings.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSettingsService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.seedAdmin(t, "admin@example.com", "changeme123")

	var payload events.SettingsUpdatedPayload
	env.dispatcher.Subscribe(events.EventSettingsUpdated, func(_ context.Context, e events.Event) error {
		payload, _ = e.Payload.(events.SettingsUpdatedPayload)
		return nil
	})

	phone := "+60 12 345 6789"
	updated, err := env.settings.Update(ctx, &actor, domain.SettingsPatch{
		Phone:       &phone,
		SocialLinks: map[string]string{"facebook": "https://facebook.com/dayang"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSiteName, updated.SiteName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	name := "Dayang Express"
	_, err = env.settings.Update(ctx, &actor, domain.SettingsPatch{SiteName: &name})
	require.NoError(t, err)

	current, err := env.settings.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dayang Express", current.SiteName)
	assert.Equal(t, phone, *current.Phone)
	assert.Equal(t, "https://facebook.com/dayang", current.SocialLinks["facebook"])
	assert.Equal(t, []string{"site_name"}, payload.Fields)
}
