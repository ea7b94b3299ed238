package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"poolshop_server/structs/tables"
)

// Action is a typed mutation of the state. Apply must validate before it
// mutates so a failing action leaves the state untouched.
type Action interface {
	Name() string
	Apply(st *State) error
}

// Hook observes every dispatched action after it ran.
type Hook interface {
	AfterDispatch(ctx context.Context, event *DispatchEvent)
}

type DispatchEvent struct {
	Action   Action
	Err      error
	Duration time.Duration
}

type poKey struct {
	orderId    uuid.UUID
	supplierId uuid.UUID
}

// State is the whole application state. It is only reachable through
// Store.Read and actions.
type State struct {
	Orders         map[uuid.UUID]*tables.Order
	PurchaseOrders map[uuid.UUID]*tables.PurchaseOrder
	Invoices       map[uuid.UUID]*tables.Invoice
	Suppliers      map[uuid.UUID]*tables.Supplier
	Products       map[uuid.UUID]*tables.Product
	Categories     map[uuid.UUID]*tables.Category
	Templates      map[string]*tables.EmailTemplate
	PaymentMethods map[tables.PaymentMethodType]*tables.PaymentMethod
	Notifications  []tables.Notification // append-only

	orderNumbers map[string]uuid.UUID
	skus         map[string]uuid.UUID
	poIndex      map[poKey]uuid.UUID
	now          func() time.Time
}

func newState(now func() time.Time) *State {
	return &State{
		Orders:         make(map[uuid.UUID]*tables.Order),
		PurchaseOrders: make(map[uuid.UUID]*tables.PurchaseOrder),
		Invoices:       make(map[uuid.UUID]*tables.Invoice),
		Suppliers:      make(map[uuid.UUID]*tables.Supplier),
		Products:       make(map[uuid.UUID]*tables.Product),
		Categories:     make(map[uuid.UUID]*tables.Category),
		Templates:      make(map[string]*tables.EmailTemplate),
		PaymentMethods: make(map[tables.PaymentMethodType]*tables.PaymentMethod),
		orderNumbers:   make(map[string]uuid.UUID),
		skus:           make(map[string]uuid.UUID),
		poIndex:        make(map[poKey]uuid.UUID),
		now:            now,
	}
}

// Now returns the store clock, used by actions for timestamps.
func (st *State) Now() time.Time {
	return st.now()
}

// PurchaseOrderFor returns the purchase order of (orderId, supplierId), if any.
func (st *State) PurchaseOrderFor(orderId, supplierId uuid.UUID) (*tables.PurchaseOrder, bool) {
	id, ok := st.poIndex[poKey{orderId, supplierId}]
	if !ok {
		return nil, false
	}
	po, ok := st.PurchaseOrders[id]
	return po, ok
}

// ProductBySKU looks a product up by its SKU.
func (st *State) ProductBySKU(sku string) (*tables.Product, bool) {
	id, ok := st.skus[sku]
	if !ok {
		return nil, false
	}
	p, ok := st.Products[id]
	return p, ok
}

// OrderByNumber looks an order up by its order number.
func (st *State) OrderByNumber(number string) (*tables.Order, bool) {
	id, ok := st.orderNumbers[number]
	if !ok {
		return nil, false
	}
	o, ok := st.Orders[id]
	return o, ok
}

// Store owns the state and serializes every write.
type Store struct {
	mu    sync.RWMutex
	state *State
	hooks []Hook
}

type Option func(*Store)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.state.now = now
	}
}

func WithHook(h Hook) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, h)
	}
}

func New(opts ...Option) *Store {
	s := &Store{state: newState(time.Now)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddHook registers a hook called after every dispatch.
func (s *Store) AddHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Dispatch applies the action under the write lock.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()

	s.mu.Lock()
	err := action.Apply(s.state)
	hooks := s.hooks
	s.mu.Unlock()

	event := &DispatchEvent{Action: action, Err: err, Duration: time.Since(start)}
	for _, h := range hooks {
		h.AfterDispatch(ctx, event)
	}

	return err
}

// Read runs fn under the read lock. fn must not keep references to the state;
// copy what it needs with the Clone methods.
func (s *Store) Read(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}
