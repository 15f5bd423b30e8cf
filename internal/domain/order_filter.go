package domain

import (
	"fmt"
	"time"
)

// OrderFilter has AND semantics across fields, OR semantics within each field slice.
// The zero value matches every order.
type OrderFilter struct {
	UserIDs   []int64
	Statuses  []OrderStatus
	CreatedAt *TimeRange
}

func (f OrderFilter) Validate() error {
	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(string(status)); err != nil {
			return fmt.Errorf("statuses: %w", err)
		}
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	return nil
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return fmt.Errorf("both Before and After are nil: %w", ErrInvalidInput)
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("before is before After: %w", ErrInvalidInput)
		}
	}

	return nil
}
