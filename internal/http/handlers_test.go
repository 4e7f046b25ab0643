package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/repository"
	"github.com/mkmeuns06/ministore/internal/session"
)

// In-memory fakes backing real service instances; handler tests exercise the
// full handler -> service -> store path without Postgres or Redis.

type memProducts struct {
	m        sync.RWMutex
	products map[int64]*domain.Product
}

func newMemProducts(products ...*domain.Product) *memProducts {
	m := &memProducts{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memProducts) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok || !p.Active {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) ListProducts(context.Context) ([]*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var out []*domain.Product
	for _, p := range m.products {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memProducts) ListProductsByCategory(ctx context.Context, _ int64) ([]*domain.Product, error) {
	return m.ListProducts(ctx)
}

func (m *memProducts) SearchProducts(ctx context.Context, _ string) ([]*domain.Product, error) {
	return m.ListProducts(ctx)
}

func (m *memProducts) LatestProducts(ctx context.Context, _ int) ([]*domain.Product, error) {
	return m.ListProducts(ctx)
}

func (m *memProducts) IsAvailable(_ context.Context, id int64, quantity int) (bool, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	return ok && p.Active && p.Stock >= quantity, nil
}

type memSessions struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart
	clients map[string]*domain.Client
}

func newMemSessions() *memSessions {
	return &memSessions{
		carts:   make(map[string]*domain.Cart),
		clients: make(map[string]*domain.Client),
	}
}

func (m *memSessions) GetCart(_ context.Context, token string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	cart, ok := m.carts[token]
	if !ok {
		return nil, session.ErrCartNotFound
	}
	return cart, nil
}

func (m *memSessions) SaveCart(_ context.Context, token string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[token] = cart
	return nil
}

func (m *memSessions) DeleteCart(_ context.Context, token string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, token)
	return nil
}

func (m *memSessions) GetClient(_ context.Context, token string) (*domain.Client, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	client, ok := m.clients[token]
	if !ok {
		return nil, session.ErrNoSession
	}
	return client, nil
}

func (m *memSessions) SaveClient(_ context.Context, token string, client *domain.Client) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.clients[token] = client
	return nil
}

func (m *memSessions) DeleteSession(_ context.Context, token string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.clients, token)
	delete(m.carts, token)
	return nil
}

type memOrders struct {
	m        sync.Mutex
	products *memProducts
	orders   map[int64]*domain.Order
	items    map[int64][]domain.OrderItem
	nextID   int64
}

func newMemOrders(products *memProducts) *memOrders {
	return &memOrders{
		products: products,
		orders:   make(map[int64]*domain.Order),
		items:    make(map[int64][]domain.OrderItem),
	}
}

func (m *memOrders) CreateOrder(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products.m.Lock()
	defer m.products.m.Unlock()

	var depleted []int64
	for _, item := range items {
		p, ok := m.products.products[item.ProductID]
		if !ok || p.Stock < item.Quantity {
			depleted = append(depleted, item.ProductID)
		}
	}
	if len(depleted) > 0 {
		return &repository.InsufficientStockError{ProductIDs: depleted}
	}
	for _, item := range items {
		m.products.products[item.ProductID].Stock -= item.Quantity
	}

	m.nextID++
	order.ID = m.nextID
	stored := *order
	m.orders[order.ID] = &stored
	m.items[order.ID] = items
	return nil
}

func (m *memOrders) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *memOrders) ListOrdersByClient(_ context.Context, clientID int64) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []*domain.Order
	for _, order := range m.orders {
		if order.ClientID == clientID {
			cp := *order
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrders) GetOrderItems(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.items[orderID], nil
}

func activeProduct(id int64, name string, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Active: true,
	}
}

func withSession(r *http.Request, token string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), tokenCtxKey, token))
}

func withClient(r *http.Request, client *domain.Client) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), clientCtxKey, client))
}
