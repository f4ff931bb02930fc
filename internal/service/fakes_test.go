package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// fakeProductRepo is an in-memory ProductRepository for tests.
type fakeProductRepo struct {
	mu       sync.Mutex
	products []domain.Product
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	return &fakeProductRepo{products: products}
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Category == "" {
		product.Category = domain.DefaultCategory
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	f.products = append(f.products, *product)
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == product.ID {
			f.products[i] = *product
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			product := f.products[i]
			return &product, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	result := []domain.Product{}
	for _, product := range f.products {
		if _, ok := wanted[product.ID]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := f.matchedLocked(filter)

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		titleHit := func(p domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Title), term)
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return titleHit(matched[i]) && !titleHit(matched[j])
		})
	}

	if filter.Offset >= len(matched) {
		return []domain.Product{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (f *fakeProductRepo) Count(_ context.Context, filter repository.ProductFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.matchedLocked(filter))), nil
}

func (f *fakeProductRepo) matchedLocked(filter repository.ProductFilter) []domain.Product {
	matched := []domain.Product{}
	for _, product := range f.products {
		if filter.SearchTerm != nil {
			term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			title := strings.ToLower(product.Title)
			desc := strings.ToLower(product.Description)
			if !strings.Contains(title, term) && !strings.Contains(desc, term) {
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

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	clone.Favorites = append([]string{}, user.Favorites...)
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) UpdateFavorites(_ context.Context, userID string, favorites []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Favorites = append([]string{}, favorites...)
	user.UpdatedAt = time.Now()
	return nil
}
