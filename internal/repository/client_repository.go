package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mkmeuns06/ministore/internal/domain"
)

const clientColumns = `id, last_name, first_name, email, password_hash,
	COALESCE(phone, ''), street, city, postal_code, country, created_at`

func (r *Repository) FindClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE email = $1`, clientColumns)
	return r.queryClient(ctx, query, email)
}

func (r *Repository) FindClientByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1`, clientColumns)
	return r.queryClient(ctx, query, id)
}

func (r *Repository) CreateClient(ctx context.Context, client *domain.Client) error {
	query := `INSERT INTO clients (last_name, first_name, email, password_hash, phone, street, city, postal_code, country)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		client.LastName,
		client.FirstName,
		client.Email,
		client.PasswordHash,
		client.Phone,
		client.Street,
		client.City,
		client.PostalCode,
		client.Country,
	).Scan(&client.ID, &client.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *Repository) queryClient(ctx context.Context, query string, arg interface{}) (*domain.Client, error) {
	c := &domain.Client{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID,
		&c.LastName,
		&c.FirstName,
		&c.Email,
		&c.PasswordHash,
		&c.Phone,
		&c.Street,
		&c.City,
		&c.PostalCode,
		&c.Country,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query client: %w", err)
	}
	return c, nil
}
