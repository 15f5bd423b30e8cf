package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

// Mul multiplies the amount by quantity using decimal arithmetic.
func (m Money) Mul(quantity int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		Currency: m.Currency,
	}
}

func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return fmt.Errorf("amount[%s] is negative", m.Amount)
	}
	if m.Currency == (currency.Unit{}) {
		return errors.New("currency is empty")
	}
	return nil
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}
