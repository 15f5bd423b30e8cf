package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const defaultWorkers = 32

var ErrConfirmationFailed = errors.New("order confirmation failed")

// ConfirmationError reports an order that is committed but whose
// confirmation could not be delivered.
type ConfirmationError struct {
	OrderID uuid.UUID
	Err     error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("order[%s] is placed: %s: %v", e.OrderID, ErrConfirmationFailed, e.Err)
}

func (e *ConfirmationError) Unwrap() []error {
	return []error{ErrConfirmationFailed, e.Err}
}

type ConfirmationRenderer interface {
	Confirmation(user domain.User, order domain.Order) (domain.Notification, error)
}

type OrderService struct {
	transactor    port.Transactor
	orders        port.OrderRepository
	enricher      *Enricher
	users         port.UserClient
	notifier      port.Notifier
	confirmations ConfirmationRenderer

	// pool bounds product lookups across all concurrent placements
	pool  *semaphore.Weighted
	clock func() time.Time

	tracer trace.Tracer
}

type Option func(s *OrderService) error

// WithWorkers sets how many product lookups may run at once process-wide.
func WithWorkers(n int) Option {
	return func(s *OrderService) error {
		if n < 1 {
			return fmt.Errorf("workers[%d] must be positive", n)
		}
		s.pool = semaphore.NewWeighted(int64(n))
		return nil
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *OrderService) error {
		if clock == nil {
			return errors.New("clock is nil")
		}
		s.clock = clock
		return nil
	}
}

func NewOrderService(
	transactor port.Transactor,
	orders port.OrderRepository,
	enricher *Enricher,
	users port.UserClient,
	notifier port.Notifier,
	confirmations ConfirmationRenderer,
	opts ...Option,
) (*OrderService, error) {
	switch {
	case transactor == nil:
		return nil, errors.New("transactor is nil")
	case orders == nil:
		return nil, errors.New("orders is nil")
	case enricher == nil:
		return nil, errors.New("enricher is nil")
	case users == nil:
		return nil, errors.New("users is nil")
	case notifier == nil:
		return nil, errors.New("notifier is nil")
	case confirmations == nil:
		return nil, errors.New("confirmations is nil")
	}

	s := &OrderService{
		transactor:    transactor,
		orders:        orders,
		enricher:      enricher,
		users:         users,
		notifier:      notifier,
		confirmations: confirmations,
		pool:          semaphore.NewWeighted(defaultWorkers),
		clock:         defaultClock,
		tracer:        tracer(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// database timestamps keep microseconds
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// PlaceOrder persists an order shell, prices every line concurrently, stores
// the lines that could be priced and confirms the order to the user.
// Lines that fail to enrich are logged and left out of the order.
//
// The shell and the items are committed in separate transactions and no
// transaction is open while products are looked up. A failed item insert
// leaves the shell without items. A failure after the items are committed
// is returned as *ConfirmationError together with the committed order.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (_ domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.Int64("user.id", req.UserID),
		attribute.Int("order.lines", len(req.Lines)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var order domain.Order

	err = s.transactor.WithinTx(ctx, func(orders port.OrderRepository, _ port.OrderItemRepository) error {
		shell, err := orders.SaveOrder(ctx, domain.NewOrder(req.UserID, s.clock()))
		if err != nil {
			return fmt.Errorf("orders.SaveOrder: %w", err)
		}
		order = shell
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("transactor.WithinTx: %w", err)
	}

	results := s.enrichAll(ctx, order, req.Lines)
	enriched := s.collect(ctx, order, results)

	err = s.transactor.WithinTx(ctx, func(_ port.OrderRepository, items port.OrderItemRepository) error {
		saved, err := items.SaveItems(ctx, enriched)
		if err != nil {
			return fmt.Errorf("items.SaveItems: %w", err)
		}
		order.Items = saved
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("transactor.WithinTx: %w", err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.Int("order.items", len(order.Items)),
	)

	if err := s.confirm(ctx, order); err != nil {
		return order, &ConfirmationError{OrderID: order.ID, Err: err}
	}

	return order, nil
}

// enrichAll returns one result per line, in line order. A pool slot is taken
// before a goroutine is started, so a large order waits instead of spawning.
func (s *OrderService) enrichAll(ctx context.Context, order domain.Order, lines []domain.OrderLine) []EnrichResult {
	results := make([]EnrichResult, len(lines))

	var g errgroup.Group

	for lineNo, line := range lines {
		if err := s.pool.Acquire(ctx, 1); err != nil {
			results[lineNo] = EnrichResult{LineNo: lineNo, Line: line, Err: fmt.Errorf("pool.Acquire: %w", err)}
			continue
		}

		g.Go(func() error {
			defer s.pool.Release(1)

			results[lineNo] = s.enricher.Enrich(ctx, order, lineNo, line)
			return nil
		})
	}

	// tasks report failures in their results
	_ = g.Wait()

	return results
}

func (s *OrderService) collect(ctx context.Context, order domain.Order, results []EnrichResult) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(results))

	for _, result := range results {
		if !result.OK() {
			slog.WarnContext(ctx, "order line dropped",
				"orderID", order.ID,
				"lineNo", result.LineNo,
				"productID", result.Line.ProductID,
				"error", result.Err)
			continue
		}
		items = append(items, result.Item)
	}

	if dropped := len(results) - len(items); dropped > 0 {
		slog.InfoContext(ctx, "order enriched partially",
			"orderID", order.ID, "lines", len(results), "dropped", dropped)
	}

	return items
}

func (s *OrderService) confirm(ctx context.Context, order domain.Order) error {
	user, err := s.users.GetUser(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("users.GetUser: %w", err)
	}

	notification, err := s.confirmations.Confirmation(user, order)
	if err != nil {
		return fmt.Errorf("confirmations.Confirmation: %w", err)
	}

	if err := s.notifier.SendNotification(ctx, notification); err != nil {
		return fmt.Errorf("notifier.SendNotification: %w", err)
	}

	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return order, nil
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.ListOrders(ctx, domain.OrderFilter{UserIDs: []int64{userID}})
}

// ListOrders returns every order when the filter is empty.
func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("orders.DeleteOrder: %w", err)
	}

	return nil
}

// UpdateOrderStatus sets any known status, no transition rules apply.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (domain.Order, error) {
	parsed, err := domain.ToOrderStatus(status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ToOrderStatus: %w", err)
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, parsed); err != nil {
		return domain.Order{}, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}
