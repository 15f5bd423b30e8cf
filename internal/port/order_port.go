package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
)

type OrderRepository interface {
	// SaveOrder inserts the order row and returns it with the generated ID. Items are ignored.
	SaveOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

type OrderItemRepository interface {
	// SaveItems inserts all items in a single round-trip and returns them with generated IDs.
	SaveItems(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error)
}

// Transactor runs fn with repositories bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(orders OrderRepository, items OrderItemRepository) error) error
}
