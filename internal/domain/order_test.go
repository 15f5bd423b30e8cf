package domain_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestNewOrderItem(t *testing.T) {
	orderID := uuid.New()

	widget := domain.Product{
		ID:    101,
		Name:  "Widget",
		Price: domain.NewMoney(decimal.RequireFromString("9.99"), currency.USD),
	}

	tests := []struct {
		name          string
		orderID       uuid.UUID
		product       domain.Product
		quantity      int
		wantLineTotal string
		wantError     string
	}{
		{
			name:          "widget x2: ok",
			orderID:       orderID,
			product:       widget,
			quantity:      2,
			wantLineTotal: "19.98",
		},
		{
			name:    "cents do not drift: ok",
			orderID: orderID,
			product: domain.Product{
				ID:    7,
				Name:  "Dime",
				Price: domain.NewMoney(decimal.RequireFromString("0.10"), currency.EUR),
			},
			quantity:      3,
			wantLineTotal: "0.3",
		},
		{
			name:      "empty order id: fail",
			orderID:   uuid.Nil,
			product:   widget,
			quantity:  1,
			wantError: "orderID is empty",
		},
		{
			name:      "zero quantity: fail",
			orderID:   orderID,
			product:   widget,
			quantity:  0,
			wantError: "quantity[0] must be positive",
		},
		{
			name:      "quantity wider than storage: fail",
			orderID:   orderID,
			product:   widget,
			quantity:  domain.MaxQuantity + 1,
			wantError: "quantity[2147483648] exceeds 2147483647",
		},
		{
			name:          "largest quantity: ok",
			orderID:       orderID,
			product:       widget,
			quantity:      domain.MaxQuantity,
			wantLineTotal: "21453361633.53",
		},
		{
			name:    "product without name: fail",
			orderID: orderID,
			product: domain.Product{
				ID:    1,
				Price: widget.Price,
			},
			quantity:  1,
			wantError: "product.Validate: name is empty",
		},
		{
			name:    "negative price: fail",
			orderID: orderID,
			product: domain.Product{
				ID:    1,
				Name:  "Broken",
				Price: domain.NewMoney(decimal.RequireFromString("-1"), currency.USD),
			},
			quantity:  1,
			wantError: "product.Validate: amount[-1] is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := domain.NewOrderItem(tt.orderID, 4, tt.product, tt.quantity)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.orderID, item.OrderID)
			assert.Equal(t, 4, item.LineNo)
			assert.Equal(t, tt.product.ID, item.ProductID)
			assert.Equal(t, tt.product.Name, item.ProductName)
			assert.Equal(t, tt.quantity, item.Quantity)
			assert.True(t, item.UnitPrice.Amount.Equal(tt.product.Price.Amount))
			assert.True(t, item.LineTotal.Amount.Equal(decimal.RequireFromString(tt.wantLineTotal)),
				"line total %s", item.LineTotal.Amount)
			assert.Equal(t, tt.product.Price.Currency, item.LineTotal.Currency)
		})
	}
}

func TestNewOrderItemLineNo(t *testing.T) {
	product := domain.Product{
		ID:    1,
		Name:  "Widget",
		Price: domain.NewMoney(decimal.RequireFromString("1"), currency.USD),
	}

	_, err := domain.NewOrderItem(uuid.New(), -1, product, 1)
	require.EqualError(t, err, "lineNo[-1] is out of range")

	_, err = domain.NewOrderItem(uuid.New(), domain.MaxOrderLines, product, 1)
	require.EqualError(t, err, "lineNo[500] is out of range")

	item, err := domain.NewOrderItem(uuid.New(), domain.MaxOrderLines-1, product, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxOrderLines-1, item.LineNo)
}

func TestMoneyMul(t *testing.T) {
	for i := 0; i < 100; i++ {
		price := decimal.NewFromFloat(gofakeit.Price(0, 1000)).Round(2)
		quantity := gofakeit.Number(1, 50)

		got := domain.NewMoney(price, currency.USD).Mul(quantity)

		want := decimal.Zero
		for j := 0; j < quantity; j++ {
			want = want.Add(price)
		}

		require.True(t, got.Amount.Equal(want), "price %s x %d = %s, want %s", price, quantity, got.Amount, want)
	}
}

func TestPlaceOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.PlaceOrderRequest
		wantError string
	}{
		{
			name: "valid request: ok",
			req: domain.PlaceOrderRequest{
				UserID: 1,
				Lines:  []domain.OrderLine{{ProductID: 101, Quantity: 2}},
			},
		},
		{
			name:      "no lines: fail",
			req:       domain.PlaceOrderRequest{UserID: 1},
			wantError: "no items in order: invalid input",
		},
		{
			name: "missing user: fail",
			req: domain.PlaceOrderRequest{
				Lines: []domain.OrderLine{{ProductID: 101, Quantity: 2}},
			},
			wantError: "userID[0] is not valid: invalid input",
		},
		{
			name: "bad lines: fail",
			req: domain.PlaceOrderRequest{
				UserID: 1,
				Lines: []domain.OrderLine{
					{ProductID: 101, Quantity: 2},
					{ProductID: 0, Quantity: 1},
					{ProductID: 5, Quantity: -1},
				},
			},
			wantError: "items[1]: productID[0] is not valid: invalid input\n" +
				"items[2]: quantity[-1] must be positive: invalid input",
		},
		{
			name: "quantity overflows storage: fail",
			req: domain.PlaceOrderRequest{
				UserID: 1,
				Lines:  []domain.OrderLine{{ProductID: 101, Quantity: 4294967297}},
			},
			wantError: "items[0]: quantity[4294967297] exceeds 2147483647: invalid input",
		},
		{
			name: "too many lines: fail",
			req: domain.PlaceOrderRequest{
				UserID: 1,
				Lines:  make([]domain.OrderLine, domain.MaxOrderLines+1),
			},
			wantError: "items[501] exceed 500 lines: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOrderFilterValidate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		filter    domain.OrderFilter
		wantError string
	}{
		{
			name:   "empty filter matches all: ok",
			filter: domain.OrderFilter{},
		},
		{
			name: "known statuses: ok",
			filter: domain.OrderFilter{
				Statuses: []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusShipped},
			},
		},
		{
			name: "unknown status: fail",
			filter: domain.OrderFilter{
				Statuses: []domain.OrderStatus{"lost"},
			},
			wantError: "statuses: order status[lost]: invalid input",
		},
		{
			name: "empty time range: fail",
			filter: domain.OrderFilter{
				CreatedAt: &domain.TimeRange{},
			},
			wantError: "createdAt: both Before and After are nil: invalid input",
		},
		{
			name: "inverted time range: fail",
			filter: domain.OrderFilter{
				CreatedAt: &domain.TimeRange{
					Before: lo.ToPtr(now.Add(-time.Hour)),
					After:  lo.ToPtr(now),
				},
			},
			wantError: "createdAt: before is before After: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPrincipalCanAccess(t *testing.T) {
	owner := domain.Principal{UserID: 1}
	admin := domain.Principal{UserID: 2, Roles: []string{"user", domain.RoleAdmin}}

	assert.True(t, owner.CanAccess(1))
	assert.False(t, owner.CanAccess(3))
	assert.True(t, admin.CanAccess(3))
	assert.False(t, owner.IsAdmin())
	assert.True(t, admin.IsAdmin())
}

func TestToOrderStatus(t *testing.T) {
	for _, status := range domain.OrderStatuses() {
		got, err := domain.ToOrderStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, got)
	}

	_, err := domain.ToOrderStatus("PENDING")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
