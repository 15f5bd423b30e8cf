package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/order-service/internal/db"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}

	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}, nil
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) SaveOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.UserID <= 0 {
		return o, errors.New("userID is empty")
	}

	status := order.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row, err := r.q.InsertOrder(ctx, db.InsertOrderParams{
		UserID:    order.UserID,
		Status:    string(status),
		CreatedAt: createdAt,
	})
	if err != nil {
		return o, fmt.Errorf("q.InsertOrder: %w", err)
	}

	return domain.Order{
		ID:        row.ID,
		UserID:    order.UserID,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbOrders, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	if len(dbOrders) == 0 {
		return []domain.Order{}, nil
	}

	orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) uuid.UUID {
		return o.ID
	})

	dbOrderItems, err := r.q.GetOrderItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("q.GetOrderItemsByOrderIDs: %w", err)
	}

	itemsByOrder := lo.GroupBy(dbOrderItems, func(item db.OrderItem) uuid.UUID {
		return item.OrderID
	})

	orders := make([]domain.Order, 0, len(dbOrders))
	for _, dbOrder := range dbOrders {
		order, err := mapDBOrderToDomain(dbOrder, itemsByOrder[dbOrder.ID])
		if err != nil {
			return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if orderID == uuid.Nil {
		return errors.New("orderID is empty")
	}
	if status == "" {
		return errors.New("status is empty")
	}

	cmdTag, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:     orderID,
		Status: string(status),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.UpdateOrderStatus: %w", domain.ErrOrderNotFound)
	}

	return nil
}

// DeleteOrder removes the order, items go with it through ON DELETE CASCADE.
func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return errors.New("orderID is empty")
	}

	cmdTag, err := r.q.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("q.DeleteOrder: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("q.DeleteOrder: %w", domain.ErrOrderNotFound)
	}

	return nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(status domain.OrderStatus, _ int) string {
		return string(status)
	})

	var createdAfter, createdBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		UserIds:       nilSliceIfEmpty(filter.UserIDs),
		Statuses:      nilSliceIfEmpty(statuses),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.OrderItem) (domain.Order, error) {
	var o domain.Order

	items, err := mapDBOrderItemsToDomain(dbOrderItems)
	if err != nil {
		return o, fmt.Errorf("mapDBOrderItemsToDomain: %w", err)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	total, err := mapNullMoneyToDomain(dbOrder.TotalAmount, dbOrder.TotalCurrency)
	if err != nil {
		return o, fmt.Errorf("mapNullMoneyToDomain: %w", err)
	}

	return domain.Order{
		ID:        dbOrder.ID,
		UserID:    dbOrder.UserID,
		Status:    status,
		Total:     total,
		Items:     items,
		CreatedAt: dbOrder.CreatedAt,
		UpdatedAt: dbOrder.UpdatedAt,
	}, nil
}

func mapDBOrderItemToDomain(row db.OrderItem) (domain.OrderItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.OrderItem{
		ID:          row.ID,
		OrderID:     row.OrderID,
		LineNo:      int(row.LineNo),
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Quantity:    int(row.Quantity),
		UnitPrice:   domain.Money{Amount: row.UnitPriceAmount, Currency: parsedCurrency},
		LineTotal:   domain.Money{Amount: row.LineTotalAmount, Currency: parsedCurrency},
		CreatedAt:   row.CreatedAt,
	}, nil
}

func mapDBOrderItemsToDomain(rows []db.OrderItem) ([]domain.OrderItem, error) {
	var items []domain.OrderItem

	for _, row := range rows {
		item, err := mapDBOrderItemToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBOrderItemToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapNullMoneyToDomain(amount decimal.NullDecimal, currencyCode *string) (*domain.Money, error) {
	if !amount.Valid || lo.FromPtr(currencyCode) == "" {
		return nil, nil
	}

	parsedCurrency, err := currency.ParseISO(*currencyCode)
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", *currencyCode, err)
	}

	return &domain.Money{Amount: amount.Decimal, Currency: parsedCurrency}, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
