package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestEnrich(t *testing.T) {
	order := domain.NewOrder(ann.ID, fixedNow)
	order.ID = uuid.New()

	nameless := domain.Product{
		ID:    201,
		Price: domain.NewMoney(decimal.RequireFromString("1"), currency.USD),
	}
	negative := domain.Product{
		ID:    202,
		Name:  "Refund",
		Price: domain.NewMoney(decimal.RequireFromString("-1"), currency.USD),
	}

	tests := []struct {
		name      string
		order     domain.Order
		line      domain.OrderLine
		setup     func(c *catalog)
		wantError string
		wantIs    error
	}{
		{
			name:  "known product: priced",
			order: order,
			line:  domain.OrderLine{ProductID: 101, Quantity: 3},
		},
		{
			name:      "unknown product: failure",
			order:     order,
			line:      domain.OrderLine{ProductID: 999, Quantity: 1},
			wantError: "products.GetProduct[999]: productID[999]: product not found",
			wantIs:    domain.ErrProductNotFound,
		},
		{
			name:      "product without name: failure",
			order:     order,
			line:      domain.OrderLine{ProductID: 201, Quantity: 1},
			wantError: "domain.NewOrderItem: product.Validate: name is empty",
		},
		{
			name:      "negative price: failure",
			order:     order,
			line:      domain.OrderLine{ProductID: 202, Quantity: 1},
			wantError: "domain.NewOrderItem: product.Validate: amount[-1] is negative",
		},
		{
			name:      "order without id: failure",
			order:     domain.NewOrder(ann.ID, fixedNow),
			line:      domain.OrderLine{ProductID: 101, Quantity: 1},
			wantError: "orderID is empty",
		},
		{
			name:  "slow product: timed out",
			order: order,
			line:  domain.OrderLine{ProductID: 101, Quantity: 1},
			setup: func(c *catalog) {
				c.delays[101] = time.Second
			},
			wantIs: context.DeadlineExceeded,
		},
		{
			name:  "panicking lookup: recovered",
			order: order,
			line:  domain.OrderLine{ProductID: 101, Quantity: 1},
			setup: func(c *catalog) {
				c.panics[101] = true
			},
			wantError: "enrich panicked: catalog is broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := newCatalog(widget, nameless, negative)
			if tt.setup != nil {
				tt.setup(products)
			}

			enricher, err := service.NewEnricher(products, 50*time.Millisecond)
			require.NoError(t, err)

			result := enricher.Enrich(t.Context(), tt.order, 4, tt.line)

			assert.Equal(t, 4, result.LineNo)
			assert.Equal(t, tt.line, result.Line)

			if tt.wantError != "" || tt.wantIs != nil {
				require.False(t, result.OK())
				if tt.wantError != "" {
					assert.EqualError(t, result.Err, tt.wantError)
				}
				if tt.wantIs != nil {
					assert.ErrorIs(t, result.Err, tt.wantIs)
				}
				assert.Equal(t, domain.OrderItem{}, result.Item)
				return
			}
			require.True(t, result.OK())

			assert.Equal(t, tt.order.ID, result.Item.OrderID)
			assert.Equal(t, 4, result.Item.LineNo)
			assert.Equal(t, tt.line.ProductID, result.Item.ProductID)
			assert.Equal(t, tt.line.Quantity, result.Item.Quantity)
			assert.True(t, decimal.RequireFromString("29.97").Equal(result.Item.LineTotal.Amount))
			assert.Equal(t, currency.USD, result.Item.LineTotal.Currency)
		})
	}
}

func TestEnrichCancelledContext(t *testing.T) {
	products := newCatalog(widget)
	products.delays[101] = time.Second

	enricher, err := service.NewEnricher(products, 0)
	require.NoError(t, err)

	order := domain.NewOrder(ann.ID, fixedNow)
	order.ID = uuid.New()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	result := enricher.Enrich(ctx, order, 0, domain.OrderLine{ProductID: 101, Quantity: 1})
	require.False(t, result.OK())
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestNewEnricherValidation(t *testing.T) {
	_, err := service.NewEnricher(nil, time.Second)
	require.EqualError(t, err, "products is nil")

	_, err = service.NewEnricher(newCatalog(), -time.Second)
	require.EqualError(t, err, "timeout[-1s] must not be negative")
}
