package subject

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravtsov/contentgen/internal/apperr"
)

const (
	TypeProduct  = "product"
	TypeCategory = "category"
)

// ProductResolver reads products from the store's catalog tables.
type ProductResolver struct {
	db *pgxpool.Pool
}

func NewProductResolver(db *pgxpool.Pool) *ProductResolver {
	return &ProductResolver{db: db}
}

func (r *ProductResolver) Resolve(ctx context.Context, id int64) (*Subject, error) {
	s := &Subject{Type: TypeProduct, ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT p.name, COALESCE(p.description, ''), COALESCE(c.name, ''), COALESCE(p.attributes, '')
		 FROM products p
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1`, id,
	).Scan(&s.Name, &s.Description, &s.Category, &s.Attributes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("product", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return s, nil
}

// CategoryResolver reads categories from the store's catalog tables.
type CategoryResolver struct {
	db *pgxpool.Pool
}

func NewCategoryResolver(db *pgxpool.Pool) *CategoryResolver {
	return &CategoryResolver{db: db}
}

func (r *CategoryResolver) Resolve(ctx context.Context, id int64) (*Subject, error) {
	s := &Subject{Type: TypeCategory, ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT name, COALESCE(description, '') FROM categories WHERE id = $1`, id,
	).Scan(&s.Name, &s.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("category", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return s, nil
}

// NewStoreRegistry registers the catalog subject types backed by the pool.
func NewStoreRegistry(db *pgxpool.Pool) *Registry {
	reg := NewRegistry()
	reg.Register(TypeProduct, NewProductResolver(db))
	reg.Register(TypeCategory, NewCategoryResolver(db))
	return reg
}
