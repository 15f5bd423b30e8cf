package template_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/template"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestConfirmation(t *testing.T) {
	engine, err := template.NewEngine()
	require.NoError(t, err)

	orderID := uuid.MustParse("6f1c2a52-1b0e-4f1e-9f53-0d9a4c1b2e77")
	createdAt := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	user := domain.User{ID: 1, Email: "ann@example.com", Name: "Ann"}

	widget := domain.Product{
		ID:    101,
		Name:  "Widget",
		Price: domain.NewMoney(decimal.RequireFromString("9.99"), currency.USD),
	}

	item, err := domain.NewOrderItem(orderID, 0, widget, 2)
	require.NoError(t, err)

	tests := []struct {
		name         string
		user         domain.User
		items        []domain.OrderItem
		wantContains []string
	}{
		{
			name:  "order with items",
			user:  user,
			items: []domain.OrderItem{item},
			wantContains: []string{
				"Hello Ann,",
				"- 2 x Widget @ 9.99 USD = 19.98 USD",
				"Status: pending",
			},
		},
		{
			name: "order without items",
			user: user,
			wantContains: []string{
				"None of the requested products could be priced",
			},
		},
		{
			name: "user without name: email greeted",
			user: domain.User{ID: 1, Email: "ann@example.com"},
			wantContains: []string{
				"Hello ann@example.com,",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := domain.NewOrder(1, createdAt)
			order.ID = orderID
			order.Items = tt.items

			notification, err := engine.Confirmation(tt.user, order)
			require.NoError(t, err)

			assert.Equal(t, "ann@example.com", notification.ToEmail)
			assert.Equal(t, "Order 6f1c2a52-1b0e-4f1e-9f53-0d9a4c1b2e77 received", notification.Subject)
			assert.Contains(t, notification.Message, "placed on Fri, 14 Mar 2025 15:09:26 UTC")
			for _, want := range tt.wantContains {
				assert.Contains(t, notification.Message, want)
			}
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := template.NewEngine()
	require.NoError(t, err)

	_, err = engine.Render("missing", nil)
	require.ErrorContains(t, err, "tmpl.ExecuteTemplate[missing]")
}
