package service

import (
	"context"
	"sync"

	"github.com/mkmeuns06/ministore/internal/domain"
	"github.com/mkmeuns06/ministore/internal/repository"
	"github.com/mkmeuns06/ministore/internal/session"
)

// mockProductRepo implements repository.ProductRepository over an in-memory
// product map. Inactive products behave like missing ones, as in the real
// repository.
type mockProductRepo struct {
	m        sync.RWMutex
	products map[int64]*domain.Product
	err      error
}

func newMockProductRepo(products ...*domain.Product) *mockProductRepo {
	m := &mockProductRepo{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepo) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok || !p.Active {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) ListProducts(context.Context) ([]*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	var out []*domain.Product
	for _, p := range m.products {
		if p.Active {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, m.err
}

func (m *mockProductRepo) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	all, err := m.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Product
	for _, p := range all {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) SearchProducts(ctx context.Context, _ string) ([]*domain.Product, error) {
	return m.ListProducts(ctx)
}

func (m *mockProductRepo) LatestProducts(ctx context.Context, _ int) ([]*domain.Product, error) {
	return m.ListProducts(ctx)
}

func (m *mockProductRepo) IsAvailable(_ context.Context, id int64, quantity int) (bool, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return false, m.err
	}
	p, ok := m.products[id]
	return ok && p.Active && p.Stock >= quantity, nil
}

func (m *mockProductRepo) setStock(id int64, stock int) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[id].Stock = stock
}

func (m *mockProductRepo) stock(id int64) int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.products[id].Stock
}

func (m *mockProductRepo) deactivate(id int64) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[id].Active = false
}

// mockSessionStore implements session.Store with in-memory maps.
type mockSessionStore struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart
	clients map[string]*domain.Client
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{
		carts:   make(map[string]*domain.Cart),
		clients: make(map[string]*domain.Client),
	}
}

func (m *mockSessionStore) GetCart(_ context.Context, token string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	cart, ok := m.carts[token]
	if !ok {
		return nil, session.ErrCartNotFound
	}
	cp := domain.Cart{Lines: make(map[int64]int), CreatedAt: cart.CreatedAt, UpdatedAt: cart.UpdatedAt}
	for k, v := range cart.Lines {
		cp.Lines[k] = v
	}
	return &cp, nil
}

func (m *mockSessionStore) SaveCart(_ context.Context, token string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.carts[token] = cart
	return nil
}

func (m *mockSessionStore) DeleteCart(_ context.Context, token string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, token)
	return nil
}

func (m *mockSessionStore) GetClient(_ context.Context, token string) (*domain.Client, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	client, ok := m.clients[token]
	if !ok {
		return nil, session.ErrNoSession
	}
	return client, nil
}

func (m *mockSessionStore) SaveClient(_ context.Context, token string, client *domain.Client) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.clients[token] = client
	return nil
}

func (m *mockSessionStore) DeleteSession(_ context.Context, token string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.clients, token)
	delete(m.carts, token)
	return nil
}

// mockOrderRepo implements repository.OrderRepository. CreateOrder applies
// the conditional decrements against the shared mockProductRepo with the same
// all-or-nothing semantics as the real transaction.
type mockOrderRepo struct {
	m         sync.Mutex
	products  *mockProductRepo
	orders    map[int64]*domain.Order
	items     map[int64][]domain.OrderItem
	nextID    int64
	createErr error
}

func newMockOrderRepo(products *mockProductRepo) *mockOrderRepo {
	return &mockOrderRepo{
		products: products,
		orders:   make(map[int64]*domain.Order),
		items:    make(map[int64][]domain.OrderItem),
	}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order, items []domain.OrderItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}

	m.products.m.Lock()
	defer m.products.m.Unlock()

	// First pass: every decrement must be satisfiable, or nothing happens
	var depleted []int64
	for _, item := range items {
		p, ok := m.products.products[item.ProductID]
		if !ok || !p.Active || p.Stock < item.Quantity {
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
	for i := range items {
		items[i].OrderID = order.ID
	}
	m.items[order.ID] = items
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) ListOrdersByClient(_ context.Context, clientID int64) ([]*domain.Order, error) {
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

func (m *mockOrderRepo) GetOrderItems(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.items[orderID], nil
}

func (m *mockOrderRepo) orderCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.orders)
}

// mockClientRepo implements repository.ClientRepository.
type mockClientRepo struct {
	m       sync.Mutex
	clients map[string]*domain.Client
	nextID  int64
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*domain.Client)}
}

func (m *mockClientRepo) FindClientByEmail(_ context.Context, email string) (*domain.Client, error) {
	m.m.Lock()
	defer m.m.Unlock()
	client, ok := m.clients[email]
	if !ok {
		return nil, repository.ErrClientNotFound
	}
	return client, nil
}

func (m *mockClientRepo) FindClientByID(_ context.Context, id int64) (*domain.Client, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, client := range m.clients {
		if client.ID == id {
			return client, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (m *mockClientRepo) CreateClient(_ context.Context, client *domain.Client) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, exists := m.clients[client.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	m.nextID++
	client.ID = m.nextID
	m.clients[client.Email] = client
	return nil
}
