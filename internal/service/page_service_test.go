package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/transport-site/internal/domain"
	apperrors "github.com/spec-kit/transport-site/pkg/util"
)

func TestPageService_GetOrCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.pages.GetOrCreate(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, domain.PageAbout, first.Slug)
	assert.Nil(t, first.ContentEN)
	require.NotEmpty(t, first.ID)

	second, err := env.pages.GetOrCreate(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = env.pages.GetOrCreate(ctx, "blog")
	de := requireCode(t, err, apperrors.CodeBadRequest)
	assert.Equal(t, "invalid slug, allowed: home, about, services, contact", de.Message)
}

func TestPageService_UpdateCreatesAndPatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := env.seedAdmin(t, "admin@example.com", "changeme123")

	welcome := "Welcome aboard"
	image := "https://cdn.example.com/home.jpg"
	page, err := env.pages.Update(ctx, &actor, "home", domain.PagePatch{ContentEN: &welcome, Image: &image})
	require.NoError(t, err)
	require.NotNil(t, page.ContentEN)
	assert.Equal(t, welcome, *page.ContentEN)

	cleared := ""
	page, err = env.pages.Update(ctx, &actor, "home", domain.PagePatch{Image: &cleared})
	require.NoError(t, err)
	assert.Nil(t, page.Image)
	assert.Equal(t, welcome, *page.ContentEN)

	pages, err := env.pages.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, domain.PageHome, pages[0].Slug)
}

func TestPageService_CreateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	body := "Door-to-door freight"
	page, err := env.pages.Create(ctx, nil, "services", domain.PagePatch{ContentEN: &body})
	require.NoError(t, err)
	assert.Equal(t, domain.PageServices, page.Slug)

	_, err = env.pages.Create(ctx, nil, "services", domain.PagePatch{})
	requireCode(t, err, apperrors.CodeConflict)
	_, err = env.pages.Create(ctx, nil, "careers", domain.PagePatch{})
	requireCode(t, err, apperrors.CodeBadRequest)

	require.NoError(t, env.pages.Delete(ctx, nil, "services"))
	requireCode(t, env.pages.Delete(ctx, nil, "services"), apperrors.CodeNotFound)

	recreated, err := env.pages.GetOrCreate(ctx, "services")
	require.NoError(t, err)
	assert.NotEqual(t, page.ID, recreated.ID)
	assert.Nil(t, recreated.ContentEN)
}
