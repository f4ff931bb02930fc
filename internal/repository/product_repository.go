package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProductFilter captures catalog search parameters.
type ProductFilter struct {
	SearchTerm *string
	Category   *string
	Limit      int
	Offset     int
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Category == "" {
		product.Category = domain.DefaultCategory
	}
	const query = `
        INSERT INTO products (id, title, price, description, image, category)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		product.ID,
		product.Title,
		product.Price,
		product.Description,
		product.Image,
		product.Category,
	).Scan(&product.CreatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET title=$1, price=$2, description=$3, image=$4, category=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		product.Title,
		product.Price,
		product.Description,
		product.Image,
		product.Category,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
        SELECT id, title, price, description, image, category, created_at
        FROM products WHERE id=$1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&product.Price,
		&product.Description,
		&product.Image,
		&product.Category,
		&product.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs fetches the products for the given ids. Ids that do not resolve are
// simply absent from the result; callers decide how to treat the gaps.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	const query = `
        SELECT id, title, price, description, image, category, created_at
        FROM products WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	clauses, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// When searching, rank title hits above description-only hits, newest first
	// within each band; unfiltered listings are plain newest-first.
	order := "created_at DESC"
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		pattern := likePattern(*filter.SearchTerm)
		args = append(args, pattern)
		order = fmt.Sprintf("(LOWER(title) LIKE $%d) DESC, created_at DESC", len(args))
	}

	query := fmt.Sprintf(`
        SELECT id, title, price, description, image, category, created_at
        FROM products WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		strings.Join(clauses, " AND "), order, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM products WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func filterClauses(filter ProductFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, likePattern(*filter.SearchTerm))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	return clauses, args
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Price,
			&product.Description,
			&product.Image,
			&product.Category,
			&product.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}
