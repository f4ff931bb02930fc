package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

func newFavoritesFixture(t *testing.T) (*FavoritesService, *fakeUserRepo, *fakeProductRepo, string) {
	t.Helper()
	products := newFakeProductRepo(fixtureProducts()...)
	user := &domain.User{ID: "u1", Username: "johndoe", Email: "john@example.com", Favorites: []string{}}
	users := newFakeUserRepo(user)
	svc := NewFavoritesService(users, products, nil, zap.NewNop())
	return svc, users, products, user.ID
}

func TestAddThenCheckThenRemoveFavorite(t *testing.T) {
	svc, _, _, userID := newFavoritesFixture(t)
	ctx := context.Background()

	list, err := svc.AddFavorite(ctx, userID, "p2")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)

	isFav, err := svc.IsFavorite(ctx, userID, "p2")
	require.NoError(t, err)
	assert.True(t, isFav)

	list, err = svc.RemoveFavorite(ctx, userID, "p2")
	require.NoError(t, err)
	assert.Empty(t, list)

	isFav, err = svc.IsFavorite(ctx, userID, "p2")
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestAddFavoriteTwiceFails(t *testing.T) {
	svc, users, _, userID := newFavoritesFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, userID, "p1")
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, userID, "p1")
	require.Error(t, err)
	assert.Equal(t, "ALREADY_FAVORITED", apperrors.ToDomainError(err).Code)

	user, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, user.Favorites)
}

func TestAddFavoriteUnknownProduct(t *testing.T) {
	svc, users, _, userID := newFavoritesFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, userID, "nope")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	user, err := users.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.Favorites)
}

func TestRemoveFavoriteIsIdempotent(t *testing.T) {
	svc, _, _, userID := newFavoritesFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, userID, "p1")
	require.NoError(t, err)

	list, err := svc.RemoveFavorite(ctx, userID, "p3")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)

	list, err = svc.RemoveFavorite(ctx, userID, "never-added")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListFavoritesEmpty(t *testing.T) {
	svc, _, _, userID := newFavoritesFixture(t)

	list, err := svc.ListFavorites(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListFavoritesPreservesInsertionOrder(t *testing.T) {
	svc, _, _, userID := newFavoritesFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, userID, "p3")
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, userID, "p1")
	require.NoError(t, err)

	list, err := svc.ListFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p3", list[0].ID)
	assert.Equal(t, "p1", list[1].ID)
}

func TestListFavoritesDropsDanglingReferences(t *testing.T) {
	svc, _, products, userID := newFavoritesFixture(t)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, userID, "p1")
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, userID, "p2")
	require.NoError(t, err)

	// product deleted after being favorited; the soft reference stays behind
	require.NoError(t, products.Delete(ctx, "p1"))

	list, err := svc.ListFavorites(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)

	isFav, err := svc.IsFavorite(ctx, userID, "p1")
	require.NoError(t, err)
	assert.True(t, isFav, "membership test still sees the dangling id")
}

func TestFavoritesUnknownUser(t *testing.T) {
	svc, _, _, _ := newFavoritesFixture(t)

	_, err := svc.ListFavorites(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
