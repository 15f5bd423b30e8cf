package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/order-service/internal/db"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
)

type orderItemRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrderItem(pool *pgxpool.Pool) (port.OrderItemRepository, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}

	return &orderItemRepository{
		q:    db.New(pool),
		dbtx: pool,
	}, nil
}

func NewOrderItemWithTx(tx pgx.Tx) port.OrderItemRepository {
	return &orderItemRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderItemRepository) SaveItems(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if len(items) == 0 {
		return []domain.OrderItem{}, nil
	}

	args := make([]db.InsertOrderItemParams, 0, len(items))
	for idx, item := range items {
		arg, err := mapDomainOrderItemToDB(item)
		if err != nil {
			return nil, fmt.Errorf("mapDomainOrderItemToDB[%d]: %w", idx, err)
		}
		args = append(args, arg)
	}

	return withTx(ctx, r.dbtx, func(q *db.Queries) ([]domain.OrderItem, error) {
		saved := make([]domain.OrderItem, len(items))
		copy(saved, items)

		var errs []error
		q.InsertOrderItem(ctx, args).QueryRow(func(idx int, row db.InsertOrderItemRow, err error) {
			if err != nil {
				errs = append(errs, fmt.Errorf("items[%d]: %w", idx, err))
				return
			}
			saved[idx].ID = row.ID
			saved[idx].CreatedAt = row.CreatedAt
		})

		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("q.InsertOrderItem: %w", err)
		}

		return saved, nil
	})
}

func mapDomainOrderItemToDB(item domain.OrderItem) (db.InsertOrderItemParams, error) {
	var arg db.InsertOrderItemParams

	if item.OrderID == uuid.Nil {
		return arg, errors.New("orderID is empty")
	}
	if item.Quantity < 1 || item.Quantity > math.MaxInt32 {
		return arg, fmt.Errorf("quantity[%d] is out of range", item.Quantity)
	}
	if item.LineNo < 0 || item.LineNo > math.MaxInt32 {
		return arg, fmt.Errorf("lineNo[%d] is out of range", item.LineNo)
	}
	if item.UnitPrice.Currency != item.LineTotal.Currency {
		return arg, fmt.Errorf("currency mismatch: unit price %s, line total %s", item.UnitPrice.Currency, item.LineTotal.Currency)
	}

	return db.InsertOrderItemParams{
		OrderID:         item.OrderID,
		LineNo:          int32(item.LineNo),
		ProductID:       item.ProductID,
		ProductName:     item.ProductName,
		Quantity:        int32(item.Quantity),
		UnitPriceAmount: item.UnitPrice.Amount,
		LineTotalAmount: item.LineTotal.Amount,
		PriceCurrency:   item.UnitPrice.Currency.String(),
	}, nil
}
