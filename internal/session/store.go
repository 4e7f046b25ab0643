package session

import (
	"context"
	"errors"

	"github.com/mkmeuns06/ministore/internal/domain"
)

// Store keeps per-session state keyed by the session token: the cart and,
// once logged in, a snapshot of the authenticated client.
type Store interface {
	GetCart(ctx context.Context, token string) (*domain.Cart, error)
	SaveCart(ctx context.Context, token string, cart *domain.Cart) error
	DeleteCart(ctx context.Context, token string) error

	GetClient(ctx context.Context, token string) (*domain.Client, error)
	SaveClient(ctx context.Context, token string, client *domain.Client) error
	DeleteSession(ctx context.Context, token string) error
}

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrNoSession    = errors.New("no active session")
)
