package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkmeuns06/ministore/internal/domain"
)

const productColumns = `p.id, p.name, p.description, p.price, p.stock,
	COALESCE(p.category_id, 0), COALESCE(c.name, ''), p.image_url, p.active, p.created_at`

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1 AND p.active = TRUE`, productColumns)

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.active = TRUE
		ORDER BY p.created_at DESC`, productColumns)

	return r.queryProducts(ctx, query)
}

func (r *Repository) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.category_id = $1 AND p.active = TRUE
		ORDER BY p.name ASC`, productColumns)

	return r.queryProducts(ctx, query, categoryID)
}

func (r *Repository) SearchProducts(ctx context.Context, keyword string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE (p.name ILIKE $1 OR p.description ILIKE $1) AND p.active = TRUE
		ORDER BY p.name ASC`, productColumns)

	return r.queryProducts(ctx, query, "%"+keyword+"%")
}

func (r *Repository) LatestProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1`, productColumns)

	return r.queryProducts(ctx, query, limit)
}

// IsAvailable performs a fresh stock read on every call. It is the gate for
// cart add/update and the pre-commit check; the authoritative guard is the
// conditional decrement inside CreateOrder.
func (r *Repository) IsAvailable(ctx context.Context, id int64, quantity int) (bool, error) {
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE id = $1 AND active = TRUE`, id).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query product stock: %w", err)
	}
	return stock >= quantity, nil
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.CategoryName,
		&p.ImageURL,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
