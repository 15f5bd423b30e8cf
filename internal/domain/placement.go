package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MaxOrderLines caps how many lines a single order may request.
	MaxOrderLines = 500
	// MaxQuantity matches the storage width of a quantity.
	MaxQuantity = math.MaxInt32
)

// PlaceOrderRequest is validated at the edge, the orchestrator trusts it.
type PlaceOrderRequest struct {
	UserID int64
	Lines  []OrderLine
}

type OrderLine struct {
	ProductID int64
	Quantity  int
}

func (r PlaceOrderRequest) Validate() error {
	if r.UserID <= 0 {
		return fmt.Errorf("userID[%d] is not valid: %w", r.UserID, ErrInvalidInput)
	}
	if len(r.Lines) == 0 {
		return fmt.Errorf("no items in order: %w", ErrInvalidInput)
	}
	if len(r.Lines) > MaxOrderLines {
		return fmt.Errorf("items[%d] exceed %d lines: %w", len(r.Lines), MaxOrderLines, ErrInvalidInput)
	}

	var errs []error
	for idx, line := range r.Lines {
		if err := line.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", idx, err))
		}
	}

	return errors.Join(errs...)
}

func (l OrderLine) Validate() error {
	if l.ProductID <= 0 {
		return fmt.Errorf("productID[%d] is not valid: %w", l.ProductID, ErrInvalidInput)
	}
	if l.Quantity < 1 {
		return fmt.Errorf("quantity[%d] must be positive: %w", l.Quantity, ErrInvalidInput)
	}
	if l.Quantity > MaxQuantity {
		return fmt.Errorf("quantity[%d] exceeds %d: %w", l.Quantity, MaxQuantity, ErrInvalidInput)
	}
	return nil
}
