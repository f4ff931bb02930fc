package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
)

type fixture struct {
	app      *fiber.App
	token    string
	userID   string
	products *memProductRepo
	users    *memUserRepo
}

func newFixture(t *testing.T, products ...domain.Product) *fixture {
	t.Helper()

	productRepo := &memProductRepo{products: products}
	user := &domain.User{ID: "u1", Username: "johndoe", Email: "john@example.com", Favorites: []string{}}
	userRepo := &memUserRepo{users: map[string]*domain.User{user.ID: user}}

	logger := zap.NewNop()
	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}, userRepo)
	catalogService := service.NewCatalogService(config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 100}, productRepo, nil, nil)
	favoritesService := service.NewFavoritesService(userRepo, productRepo, nil, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Users:          handlers.NewUsersHandler(authService),
		Products:       handlers.NewProductsHandler(catalogService),
		Favorites:      handlers.NewFavoritesHandler(favoritesService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	token, _, err := authService.TokenManager().GenerateToken(user.ID)
	require.NoError(t, err)

	return &fixture{app: app, token: token, userID: user.ID, products: productRepo, users: userRepo}
}

func (f *fixture) request(t *testing.T, method, path string, authed bool) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeJSON(t *testing.T, body []byte, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, target))
}

func catalogFixture() []domain.Product {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Product{
		{ID: "p1", Title: "Wireless Bluetooth Headphones", Price: 79.99, Description: "Noise-cancelling headphones.", Category: "Electronics", CreatedAt: base},
		{ID: "p2", Title: "Yoga Mat Premium", Price: 39.99, Description: "Extra thick eco-friendly yoga mat.", Category: "Sports", CreatedAt: base.Add(time.Hour)},
	}
}

// memProductRepo is a minimal in-memory ProductRepository for handler tests.
type memProductRepo struct {
	mu       sync.Mutex
	products []domain.Product
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (m *memProductRepo) Create(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	m.products = append(m.products, *product)
	return nil
}

func (m *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == product.ID {
			m.products[i] = *product
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memProductRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			product := m.products[i]
			return &product, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	result := []domain.Product{}
	for _, product := range m.products {
		if _, ok := wanted[product.ID]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (m *memProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := m.matchedLocked(filter)
	if filter.Offset >= len(matched) {
		return []domain.Product{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (m *memProductRepo) Count(_ context.Context, filter repository.ProductFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matchedLocked(filter))), nil
}

func (m *memProductRepo) matchedLocked(filter repository.ProductFilter) []domain.Product {
	matched := []domain.Product{}
	for _, product := range m.products {
		if filter.SearchTerm != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !strings.Contains(strings.ToLower(product.Title), term) &&
				!strings.Contains(strings.ToLower(product.Description), term) {
				continue
			}
		}
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		matched = append(matched, product)
	}
	return matched
}

// memUserRepo is a minimal in-memory UserRepository for handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.CreatedAt = time.Now()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	clone.Favorites = append([]string{}, user.Favorites...)
	return &clone, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) UpdateFavorites(_ context.Context, userID string, favorites []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Favorites = append([]string{}, favorites...)
	return nil
}
