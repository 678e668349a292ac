package httpx

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/sportsdist/commerce/internal/cart"
	"github.com/sportsdist/commerce/internal/catalog"
	"github.com/sportsdist/commerce/internal/commerce"
	"github.com/sportsdist/commerce/internal/orders"
)

// In-memory stand-ins for the pgx/redis stores, mirroring their
// contracts: merge-on-add, ownership-scoped mutation, idempotent remove,
// checkout snapshot + clear, legal status transitions.

type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]string // token -> customer id
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (s *fakeSessions) Create(_ context.Context, customerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = customerID
	return token, nil
}

func (s *fakeSessions) Resolve(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, okTok := s.tokens[token]
	if !okTok {
		return "", commerce.ErrUnauthorized
	}
	return id, nil
}

func (s *fakeSessions) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (c *fakeCatalog) Get(_ context.Context, id string) (catalog.Product, error) {
	p, okID := c.products[id]
	if !okID {
		return catalog.Product{}, commerce.ErrNotFound
	}
	return p, nil
}

func (c *fakeCatalog) List(_ context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func (c *fakeCatalog) Exists(_ context.Context, id string) (bool, error) {
	_, okID := c.products[id]
	return okID, nil
}

type fakeCart struct {
	mu      sync.Mutex
	catalog *fakeCatalog
	lines   map[string][]cart.Line // customer id -> lines
	nextID  int
}

func newFakeCart(c *fakeCatalog) *fakeCart {
	return &fakeCart{catalog: c, lines: map[string][]cart.Line{}}
}

func (f *fakeCart) List(_ context.Context, customerID string) ([]cart.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cart.Line(nil), f.lines[customerID]...), nil
}

func (f *fakeCart) Add(_ context.Context, customerID, productID string, qty int32) error {
	if qty < 1 {
		return commerce.ErrInvalidArgument
	}
	p, okID := f.catalog.products[productID]
	if !okID {
		return commerce.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lines[customerID] {
		if l.ProductID == productID {
			f.lines[customerID][i].Quantity += qty
			return nil
		}
	}
	f.nextID++
	f.lines[customerID] = append(f.lines[customerID], cart.Line{
		LineID:         fmt.Sprintf("line-%d", f.nextID),
		ProductID:      productID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Quantity:       qty,
		Image:          p.ImageDefault,
	})
	return nil
}

func (f *fakeCart) SetQuantity(_ context.Context, customerID, lineID string, qty int32) error {
	if qty < 1 {
		return commerce.ErrInvalidArgument
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lines[customerID] {
		if l.LineID == lineID {
			f.lines[customerID][i].Quantity = qty
			return nil
		}
	}
	return commerce.ErrNotFound
}

func (f *fakeCart) Remove(_ context.Context, customerID, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := f.lines[customerID]
	for i, l := range lines {
		if l.LineID == lineID {
			f.lines[customerID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil // removing an absent line is a no-op
}

type fakeOrders struct {
	mu    sync.Mutex
	cart  *fakeCart
	byID  map[string]*orders.Order
	items map[string][]orders.OrderItem

	// beforeClear, when set, runs between the snapshot and the cart
	// clear, standing in for a transaction that commits in that window.
	beforeClear func()
}

func newFakeOrders(c *fakeCart) *fakeOrders {
	return &fakeOrders{cart: c, byID: map[string]*orders.Order{}, items: map[string][]orders.OrderItem{}}
}

func (f *fakeOrders) CheckoutTx(_ context.Context, customerID string) (orders.Order, []orders.OrderItem, error) {
	f.cart.mu.Lock()
	lines := append([]cart.Line(nil), f.cart.lines[customerID]...)
	f.cart.mu.Unlock()
	if len(lines) == 0 {
		return orders.Order{}, nil, fmt.Errorf("cart is empty: %w", commerce.ErrInvalidArgument)
	}

	o := orders.Order{ID: uuid.NewString(), CustomerID: customerID, Status: orders.StatusPending}
	var items []orders.OrderItem
	snapshotted := map[string]bool{}
	for _, l := range lines {
		snapshotted[l.LineID] = true
		o.TotalCents += l.UnitPriceCents * int64(l.Quantity)
		items = append(items, orders.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			ProductID:  l.ProductID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			PriceCents: l.UnitPriceCents,
		})
	}

	if f.beforeClear != nil {
		f.beforeClear()
	}

	// clear only the snapshotted lines, like the repo's scoped delete
	f.cart.mu.Lock()
	var kept []cart.Line
	for _, l := range f.cart.lines[customerID] {
		if !snapshotted[l.LineID] {
			kept = append(kept, l)
		}
	}
	f.cart.lines[customerID] = kept
	f.cart.mu.Unlock()

	f.mu.Lock()
	f.byID[o.ID] = &o
	f.items[o.ID] = items
	f.mu.Unlock()
	return o, items, nil
}

func (f *fakeOrders) UpdateStatusTx(_ context.Context, customerID, orderID string, next orders.Status) (orders.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, okID := f.byID[orderID]
	if !okID || o.CustomerID != customerID {
		return "", commerce.ErrNotFound
	}
	if !orders.CanTransition(o.Status, next) {
		return "", fmt.Errorf("cannot transition %s -> %s: %w", o.Status, next, commerce.ErrInvalidArgument)
	}
	old := o.Status
	o.Status = next
	return old, nil
}

func (f *fakeOrders) Get(_ context.Context, orderID string) (orders.Order, []orders.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, okID := f.byID[orderID]
	if !okID {
		return orders.Order{}, nil, commerce.ErrNotFound
	}
	return *o, f.items[orderID], nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *fakePublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, value)
}

// testEnv wires the handlers onto a router the way cmd/api does.
type testEnv struct {
	router   *chi.Mux
	sessions *fakeSessions
	catalog  *fakeCatalog
	cart     *fakeCart
	orders   *fakeOrders
	created  *fakePublisher
	status   *fakePublisher
}

func newTestEnv(products ...catalog.Product) *testEnv {
	cat := &fakeCatalog{products: map[string]catalog.Product{}}
	for _, p := range products {
		cat.products[p.ID] = p
	}

	env := &testEnv{
		sessions: newFakeSessions(),
		catalog:  cat,
		created:  &fakePublisher{},
		status:   &fakePublisher{},
	}
	env.cart = newFakeCart(cat)
	env.orders = newFakeOrders(env.cart)

	r := NewRouter()
	cartH := &CartHandler{Cart: env.cart, Catalog: cat}
	ordersH := &OrdersHandler{Orders: env.orders, Created: env.created, Status: env.status, Service: "test-api"}
	r.Group(func(pr chi.Router) {
		pr.Use(RequireSession(env.sessions))
		cartH.Register(pr)
		ordersH.Register(pr)
	})
	env.router = r
	return env
}

func (e *testEnv) login(customerID string) string {
	token, _ := e.sessions.Create(context.Background(), customerID)
	return token
}
