package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID     uuid.UUID
	UserID int64
	Status OrderStatus
	// Total is not computed by order placement.
	Total *Money
	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder returns an order shell: no identifier and no items yet.
func NewOrder(userID int64, createdAt time.Time) Order {
	return Order{
		UserID:    userID,
		Status:    OrderStatusPending,
		CreatedAt: createdAt,
	}
}

type OrderItem struct {
	ID      int64
	OrderID uuid.UUID
	// LineNo is the index of the request line the item was built from.
	LineNo      int
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   Money
	LineTotal   Money

	CreatedAt time.Time
}

// NewOrderItem captures a price snapshot of the product for the given order.
func NewOrderItem(orderID uuid.UUID, lineNo int, product Product, quantity int) (OrderItem, error) {
	var item OrderItem

	if orderID == uuid.Nil {
		return item, errors.New("orderID is empty")
	}
	if quantity < 1 {
		return item, fmt.Errorf("quantity[%d] must be positive", quantity)
	}
	if quantity > MaxQuantity {
		return item, fmt.Errorf("quantity[%d] exceeds %d", quantity, MaxQuantity)
	}
	if lineNo < 0 || lineNo >= MaxOrderLines {
		return item, fmt.Errorf("lineNo[%d] is out of range", lineNo)
	}
	if err := product.Validate(); err != nil {
		return item, fmt.Errorf("product.Validate: %w", err)
	}

	return OrderItem{
		OrderID:     orderID,
		LineNo:      lineNo,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		LineTotal:   product.Price.Mul(quantity),
	}, nil
}
