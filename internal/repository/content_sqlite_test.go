package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/transport-site/internal/domain"
	"github.com/spec-kit/transport-site/internal/repository"
)

func TestPostSQLiteRepository_CRUDAndFilters(t *testing.T) {
	repo := newTestDatabase(t).Posts()
	ctx := context.Background()

	image := "https://cdn.example.com/truck.jpg"
	draft := &domain.Post{
		TitleFR: "Brouillon", TitleEN: "Draft", TitleES: "Borrador",
		ContentFR: "a", ContentEN: "b", ContentES: "c",
		ShowInCarousel: true, Status: domain.PostStatusDraft,
	}
	live := &domain.Post{
		TitleFR: "En ligne", TitleEN: "Live", TitleES: "En vivo",
		ContentFR: "a", ContentEN: "b", ContentES: "c",
		Image: &image, ShowInCarousel: true, Status: domain.PostStatusPublished,
	}
	require.NoError(t, repo.Create(ctx, draft))
	require.NoError(t, repo.Create(ctx, live))

	got, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, image, *got.Image)
	assert.True(t, got.ShowInCarousel)
	assert.Equal(t, domain.PostStatusPublished, got.Status)

	all, err := repo.List(ctx, domain.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, live.ID, all[0].ID)

	carousel, err := repo.List(ctx, domain.CarouselFilter())
	require.NoError(t, err)
	require.Len(t, carousel, 1)
	assert.Equal(t, live.ID, carousel[0].ID)

	got.Image = nil
	got.ShowInCarousel = false
	require.NoError(t, repo.Update(ctx, got))
	reloaded, err := repo.GetByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Image)
	assert.False(t, reloaded.ShowInCarousel)

	require.NoError(t, repo.Delete(ctx, draft.ID))
	_, err = repo.GetByID(ctx, draft.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, draft.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Post{ID: "missing", Status: domain.PostStatusDraft}), repository.ErrNotFound)
}

func TestPostSQLiteRepository_RejectsUnknownStatus(t *testing.T) {
	repo := newTestDatabase(t).Posts()
	err := repo.Create(context.Background(), &domain.Post{Status: "archived"})
	require.Error(t, err)
}

func TestPageSQLiteRepository(t *testing.T) {
	repo := newTestDatabase(t).Pages()
	ctx := context.Background()

	body := "About us"
	page := &domain.Page{Slug: domain.PageAbout, ContentEN: &body}
	require.NoError(t, repo.Create(ctx, page))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Page{Slug: domain.PageAbout}), repository.ErrDuplicateSlug)

	got, err := repo.GetBySlug(ctx, domain.PageAbout)
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)
	require.NotNil(t, got.ContentEN)
	assert.Equal(t, body, *got.ContentEN)
	assert.Nil(t, got.ContentFR)

	fr := "À propos"
	got.ContentFR = &fr
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetBySlug(ctx, domain.PageAbout)
	require.NoError(t, err)
	assert.Equal(t, fr, *got.ContentFR)

	require.NoError(t, repo.Create(ctx, &domain.Page{Slug: domain.PageContact}))
	pages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, domain.PageAbout, pages[0].Slug)

	require.NoError(t, repo.Delete(ctx, domain.PageContact))
	_, err = repo.GetBySlug(ctx, domain.PageContact)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Page{Slug: domain.PageHome}), repository.ErrNotFound)
}

func TestMessageSQLiteRepository(t *testing.T) {
	repo := newTestDatabase(t).Messages()
	ctx := context.Background()

	msg := &domain.ContactMessage{Name: "Ana", Email: "ana@example.com", Body: "Hello"}
	require.NoError(t, repo.Create(ctx, msg))
	require.NotEmpty(t, msg.ID)

	got, err := repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Body)
	assert.False(t, got.IsRead)

	require.NoError(t, repo.MarkRead(ctx, msg.ID))
	got, err = repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing"), repository.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
