package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// FavoritesService maintains the per-user favorite product list.
//
// The toggle sequence is read-modify-write against the user row and is not
// atomic across concurrent requests for the same user. The list is written
// wholesale, so the race resolves as last-writer-wins with no persisted
// duplicate. Accepted best-effort consistency; see UserRepository.UpdateFavorites.
type FavoritesService struct {
	users      repository.UserRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewFavoritesService builds the service. Dispatcher may be nil.
func NewFavoritesService(users repository.UserRepository, products repository.ProductRepository, dispatcher events.Dispatcher, logger *zap.Logger) *FavoritesService {
	return &FavoritesService{
		users:      users,
		products:   products,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListFavorites resolves the user's favorite ids to full product records,
// preserving insertion order. Ids that no longer resolve to a product are
// silently dropped (soft reference, no cascade from product deletion).
func (s *FavoritesService) ListFavorites(ctx context.Context, userID string) ([]domain.Product, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveFavorites(ctx, user.Favorites)
}

// AddFavorite appends the product to the end of the user's favorite list.
func (s *FavoritesService) AddFavorite(ctx context.Context, userID, productID string) ([]domain.Product, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": productID})
		}
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasFavorite(productID) {
		return nil, apperrors.NewAlreadyFavorited(productID)
	}

	updated := append(user.Favorites, productID)
	if err := s.users.UpdateFavorites(ctx, userID, updated); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventFavoriteAdded, userID, productID, len(updated))
	return s.resolveFavorites(ctx, updated)
}

// RemoveFavorite drops the product from the user's favorite list. Removing a
// product that is not a member succeeds and returns the unchanged list.
func (s *FavoritesService) RemoveFavorite(ctx context.Context, userID, productID string) ([]domain.Product, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, len(user.Favorites))
	for _, id := range user.Favorites {
		if id != productID {
			updated = append(updated, id)
		}
	}

	if len(updated) != len(user.Favorites) {
		if err := s.users.UpdateFavorites(ctx, userID, updated); err != nil {
			return nil, err
		}
		s.publish(ctx, events.EventFavoriteRemoved, userID, productID, len(updated))
	}

	return s.resolveFavorites(ctx, updated)
}

// IsFavorite reports membership without side effects.
func (s *FavoritesService) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.HasFavorite(productID), nil
}

func (s *FavoritesService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	return user, nil
}

func (s *FavoritesService) resolveFavorites(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	resolved := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			// dangling soft reference, dropped from the view
			s.logger.Debug("favorite id no longer resolves", zap.String("product_id", id))
			continue
		}
		resolved = append(resolved, product)
	}
	return resolved, nil
}

func (s *FavoritesService) publish(ctx context.Context, eventType events.EventType, userID, productID string, count int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProductID: productID,
		Timestamp: time.Now(),
		Payload: events.FavoriteTogglePayload{
			UserID:        userID,
			FavoriteCount: count,
		},
	})
}
