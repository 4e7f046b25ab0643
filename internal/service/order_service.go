package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/repository"
)

// EventPublisher emits domain events after an order commits. Publishing is
// best-effort: a failed publish never fails the order.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
}

type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, *domain.Order, []domain.OrderItem) error {
	return nil
}

type OrderService struct {
	orders repository.OrderRepository
	carts  *CartService
	events EventPublisher
}

func NewOrderService(orders repository.OrderRepository, carts *CartService, events EventPublisher) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{
		orders: orders,
		carts:  carts,
		events: events,
	}
}

// PlaceOrder runs the whole checkout workflow for one session: address
// defaulting, pre-commit stock validation, the atomic write (header + lines +
// decrements in one transaction), cart clear, event publish. Validation
// failures short-circuit with no side effects beyond ValidateStock's pruning
// of vanished products.
func (s *OrderService) PlaceOrder(ctx context.Context, token string, client *domain.Client, addr domain.Address) (*domain.Order, []domain.OrderItem, error) {
	addr = resolveAddress(addr, client)
	if addr.Street == "" || addr.City == "" || addr.PostalCode == "" {
		return nil, nil, fmt.Errorf("%w: shipping street, city and postal code are required", ErrInvalidInput)
	}

	problems, err := s.carts.ValidateStock(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if len(problems) > 0 {
		return nil, nil, &InsufficientStockError{Problems: problems}
	}

	// Snapshot after validation: pruning may have shrunk the cart.
	view, err := s.carts.Contents(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if len(view.Lines) == 0 {
		return nil, nil, ErrEmptyCart
	}

	order := &domain.Order{
		OrderNumber: generateOrderNumber(),
		ClientID:    client.ID,
		Status:      domain.OrderStatusPending,
		Total:       view.Total,
		Shipping:    addr,
	}

	items := make([]domain.OrderItem, 0, len(view.Lines))
	for _, line := range view.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Subtotal:  line.Subtotal,
		})
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		var stockErr *repository.InsufficientStockError
		if errors.As(err, &stockErr) {
			return nil, nil, &InsufficientStockError{Problems: depletedNames(stockErr.ProductIDs, view)}
		}
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.carts.Clear(ctx, token); err != nil {
		log.Printf("failed to clear cart after order %s: %v", order.OrderNumber, err)
	}

	if err := s.events.OrderPlaced(ctx, order, items); err != nil {
		log.Printf("failed to publish order placed event for %s: %v", order.OrderNumber, err)
	}

	full, err := s.orders.GetOrderByID(ctx, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload order: %w", err)
	}
	lines, err := s.orders.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load order items: %w", err)
	}

	return full, lines, nil
}

// GetOrder returns the order and its lines; orders belonging to another
// client look exactly like missing ones.
func (s *OrderService) GetOrder(ctx context.Context, clientID, orderID int64) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.ClientID != clientID {
		return nil, nil, repository.ErrOrderNotFound
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *OrderService) History(ctx context.Context, clientID int64) ([]*domain.Order, error) {
	return s.orders.ListOrdersByClient(ctx, clientID)
}

func resolveAddress(addr domain.Address, client *domain.Client) domain.Address {
	if addr.Street == "" {
		addr.Street = client.Street
	}
	if addr.City == "" {
		addr.City = client.City
	}
	if addr.PostalCode == "" {
		addr.PostalCode = client.PostalCode
	}
	if addr.Country == "" {
		addr.Country = client.Country
	}
	if addr.Country == "" {
		addr.Country = defaultCountry
	}
	return addr
}

// generateOrderNumber builds a date-prefixed human-readable number, e.g.
// CMD-20260829-3FA09C. Collisions are treated as negligible; the unique
// index on order_number is the backstop.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("CMD-%s-%s", time.Now().Format("20060102"), suffix)
}

func depletedNames(productIDs []int64, view *domain.CartView) []string {
	names := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		name := fmt.Sprintf("product %d", id)
		for _, line := range view.Lines {
			if line.Product.ID == id {
				name = line.Product.Name
				break
			}
		}
		names = append(names, name)
	}
	return names
}
