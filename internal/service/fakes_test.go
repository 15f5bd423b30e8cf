package service_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
	"github.com/stretchr/testify/mock"
)

// memoryStore keeps orders in memory, WithinTx restores the snapshot on error.
type memoryStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
	nextID int64
	events []string

	txOpen atomic.Bool

	saveOrderErr error
	saveItemsErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{orders: map[uuid.UUID]domain.Order{}}
}

func (s *memoryStore) WithinTx(ctx context.Context, fn func(orders port.OrderRepository, items port.OrderItemRepository) error) error {
	s.mu.Lock()
	snapshot := maps.Clone(s.orders)
	s.mu.Unlock()

	s.txOpen.Store(true)
	defer s.txOpen.Store(false)

	if err := fn(s, s); err != nil {
		s.mu.Lock()
		s.orders = snapshot
		s.events = append(s.events, "rollback")
		s.mu.Unlock()
		return err
	}

	s.record("commit")
	return nil
}

func (s *memoryStore) SaveOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, "SaveOrder")

	if s.saveOrderErr != nil {
		return domain.Order{}, s.saveOrderErr
	}

	order.ID = uuid.New()
	order.UpdatedAt = order.CreatedAt
	s.orders[order.ID] = order

	return order, nil
}

func (s *memoryStore) SaveItems(_ context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, fmt.Sprintf("SaveItems[%d]", len(items)))

	if s.saveItemsErr != nil {
		return nil, s.saveItemsErr
	}

	saved := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		order, ok := s.orders[item.OrderID]
		if !ok {
			return nil, fmt.Errorf("order[%s] does not exist", item.OrderID)
		}

		s.nextID++
		item.ID = s.nextID
		item.CreatedAt = order.CreatedAt

		order.Items = append(order.Items, item)
		s.orders[item.OrderID] = order

		saved = append(saved, item)
	}

	return saved, nil
}

func (s *memoryStore) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *memoryStore) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := []domain.Order{}
	for _, order := range s.orders {
		if len(filter.UserIDs) > 0 && !slices.Contains(filter.UserIDs, order.UserID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, order.Status) {
			continue
		}
		result = append(result, order)
	}
	return result, nil
}

func (s *memoryStore) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	s.orders[orderID] = order
	return nil
}

func (s *memoryStore) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, orderID)
	return nil
}

func (s *memoryStore) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *memoryStore) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// catalog is a product client over a fixed set of products.
type catalog struct {
	products map[int64]domain.Product
	delays   map[int64]time.Duration
	panics   map[int64]bool

	// txOpen reports whether a storage transaction is open
	txOpen func() bool

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int32
	callsInTx   atomic.Int32
}

func newCatalog(products ...domain.Product) *catalog {
	c := &catalog{
		products: map[int64]domain.Product{},
		delays:   map[int64]time.Duration{},
		panics:   map[int64]bool{},
	}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *catalog) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	c.calls.Add(1)
	if c.txOpen != nil && c.txOpen() {
		c.callsInTx.Add(1)
	}

	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	for {
		seen := c.maxInFlight.Load()
		if current <= seen || c.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}

	if c.panics[productID] {
		panic("catalog is broken")
	}

	if delay := c.delays[productID]; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.Product{}, ctx.Err()
		}
	}

	product, ok := c.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("productID[%d]: %w", productID, domain.ErrProductNotFound)
	}
	return product, nil
}

type userClientMock struct {
	mock.Mock
}

func (m *userClientMock) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.User), args.Error(1)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) SendNotification(ctx context.Context, notification domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

var errBoom = errors.New("boom")
