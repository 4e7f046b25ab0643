package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/repository"
	"github.com/mkmeuns06/ministore/internal/session"
)

type CartService struct {
	products repository.ProductRepository
	sessions session.Store
}

func NewCartService(products repository.ProductRepository, sessions session.Store) *CartService {
	return &CartService{
		products: products,
		sessions: sessions,
	}
}

func (s *CartService) loadCart(ctx context.Context, token string) (*domain.Cart, error) {
	cart, err := s.sessions.GetCart(ctx, token)
	if errors.Is(err, session.ErrCartNotFound) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Add puts quantity more units of the product into the cart. The stock check
// is additive: the line's existing quantity plus the requested one must not
// exceed current stock. On failure the cart is left unchanged.
func (s *CartService) Add(ctx context.Context, token string, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return err
	}

	newQty := cart.Quantity(productID) + quantity
	available, err := s.products.IsAvailable(ctx, productID, newQty)
	if err != nil {
		return err
	}
	if !available {
		return &InsufficientStockError{Problems: []string{product.Name}}
	}

	cart.Lines[productID] = newQty
	return s.sessions.SaveCart(ctx, token, cart)
}

// Update replaces the line's quantity. Unlike Add, the stock check is against
// the absolute new quantity. A quantity of zero or less removes the line.
func (s *CartService) Update(ctx context.Context, token string, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, token, productID)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	available, err := s.products.IsAvailable(ctx, productID, quantity)
	if err != nil {
		return err
	}
	if !available {
		return &InsufficientStockError{Problems: []string{product.Name}}
	}

	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return err
	}

	cart.Lines[productID] = quantity
	return s.sessions.SaveCart(ctx, token, cart)
}

func (s *CartService) Remove(ctx context.Context, token string, productID int64) error {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return err
	}

	if _, ok := cart.Lines[productID]; !ok {
		return ErrCartLineNotFound
	}

	delete(cart.Lines, productID)
	return s.sessions.SaveCart(ctx, token, cart)
}

func (s *CartService) Clear(ctx context.Context, token string) error {
	return s.sessions.DeleteCart(ctx, token)
}

// Contents joins the cart against the live catalog. Lines whose product no
// longer resolves are dropped from the view but stay in the stored cart;
// ValidateStock is the pass that actually prunes them.
func (s *CartService) Contents(ctx context.Context, token string) (*domain.CartView, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}

	view := &domain.CartView{Total: decimal.Zero}
	for productID, quantity := range cart.Lines {
		product, err := s.products.GetProduct(ctx, productID)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
		view.Lines = append(view.Lines, domain.CartLine{
			Product:  product,
			Quantity: quantity,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
		view.Count += quantity
	}

	return view, nil
}

// ValidateStock re-checks every line against live stock. Lines whose product
// vanished are removed from the cart; lines with insufficient stock are
// reported but kept so the client can lower the quantity.
func (s *CartService) ValidateStock(ctx context.Context, token string) ([]string, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}

	var problems []string
	pruned := false
	for productID, quantity := range cart.Lines {
		product, err := s.products.GetProduct(ctx, productID)
		if errors.Is(err, repository.ErrProductNotFound) {
			problems = append(problems, "a product in the cart no longer exists")
			delete(cart.Lines, productID)
			pruned = true
			continue
		}
		if err != nil {
			return nil, err
		}

		available, err := s.products.IsAvailable(ctx, productID, quantity)
		if err != nil {
			return nil, err
		}
		if !available {
			problems = append(problems, fmt.Sprintf("insufficient stock for: %s", product.Name))
		}
	}

	if pruned {
		if err := s.sessions.SaveCart(ctx, token, cart); err != nil {
			log.Printf("failed to save pruned cart: %v", err)
		}
	}

	return problems, nil
}
