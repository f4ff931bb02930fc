package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// ProductListInput captures catalog query parameters after HTTP parsing.
type ProductListInput struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Items      []domain.Product
	TotalCount int64
	Page       int
	TotalPages int
}

// ProductInput carries fields for product create/update.
type ProductInput struct {
	Title       string
	Price       float64
	Description string
	Image       string
	Category    string
}

// CatalogService serves product listing, lookup and admin mutations.
type CatalogService struct {
	products   repository.ProductRepository
	cache      *persistence.ProductCache
	dispatcher events.Dispatcher
	pageSize   int
	maxPage    int
}

// NewCatalogService builds the service. Cache and dispatcher may be nil.
func NewCatalogService(cfg config.CatalogConfig, products repository.ProductRepository, cache *persistence.ProductCache, dispatcher events.Dispatcher) *CatalogService {
	pageSize := cfg.DefaultPageSize
	if pageSize <= 0 {
		pageSize = 12
	}
	maxPage := cfg.MaxPageSize
	if maxPage < pageSize {
		maxPage = pageSize
	}
	return &CatalogService{
		products:   products,
		cache:      cache,
		dispatcher: dispatcher,
		pageSize:   pageSize,
		maxPage:    maxPage,
	}
}

// DefaultPageSize returns the page size applied when the caller omits limit.
func (s *CatalogService) DefaultPageSize() int {
	return s.pageSize
}

// ListProducts returns one page of products matching the filter. A page past
// the end of the result set yields an empty item list with accurate totals.
func (s *CatalogService) ListProducts(ctx context.Context, input ProductListInput) (*ProductPage, error) {
	if input.Page < 1 {
		return nil, apperrors.NewValidationError("page must be >= 1", nil)
	}
	if input.Limit < 1 {
		return nil, apperrors.NewValidationError("limit must be >= 1", nil)
	}
	limit := input.Limit
	if limit > s.maxPage {
		limit = s.maxPage
	}

	filter := repository.ProductFilter{
		Limit:  limit,
		Offset: (input.Page - 1) * limit,
	}
	if search := strings.TrimSpace(input.Search); search != "" {
		filter.SearchTerm = &search
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		filter.Category = &category
	}

	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := []domain.Product{}
	if total > 0 && int64(filter.Offset) < total {
		items, err = s.products.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Product{}
		}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ProductPage{
		Items:      items,
		TotalCount: total,
		Page:       input.Page,
		TotalPages: totalPages,
	}, nil
}

// GetProduct fetches one product, read-through cached when a cache is wired.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if cached := s.cache.Get(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, err
	}

	s.cache.Set(ctx, product)
	return product, nil
}

// CreateProduct adds a catalog entry.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Title:       strings.TrimSpace(input.Title),
		Price:       input.Price,
		Description: input.Description,
		Image:       input.Image,
		Category:    strings.TrimSpace(input.Category),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventProductCreated, product)
	return product, nil
}

// UpdateProduct replaces mutable product fields.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, err
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Price = input.Price
	product.Description = input.Description
	product.Image = input.Image
	if category := strings.TrimSpace(input.Category); category != "" {
		product.Category = category
	}

	if err := s.products.Update(ctx, product); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.publish(ctx, events.EventProductUpdated, product)
	return product, nil
}

// DeleteProduct removes a catalog entry. Favorite lists referencing the id are
// left untouched; listing favorites drops unresolvable ids.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("product", map[string]any{"product_id": id})
		}
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.publish(ctx, events.EventProductDeleted, &domain.Product{ID: id})
	return nil
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, product *domain.Product) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ProductID: product.ID,
		Timestamp: time.Now(),
		Payload: events.ProductChangedPayload{
			Title:    product.Title,
			Price:    product.Price,
			Category: product.Category,
		},
	})
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if input.Price < 0 {
		return apperrors.NewValidationError("price must be >= 0", nil)
	}
	return nil
}
