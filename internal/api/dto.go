package api

import (
	"time"

	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/samber/lo"
)

type OrderLineRequest struct {
	ProductID int64 `json:"productId" minimum:"1" doc:"Product identifier"`
	Quantity  int   `json:"quantity" minimum:"1" maximum:"2147483647" doc:"Units to order"`
}

type RequestOrderCreate struct {
	Body struct {
		UserID int64              `json:"userId" minimum:"1" doc:"Owner of the order"`
		Items  []OrderLineRequest `json:"items" minItems:"1" maxItems:"500" doc:"Requested lines"`
	}
}

type RequestOrderGet struct {
	OrderID string `path:"orderId" format:"uuid" doc:"Order identifier"`
}

type RequestUserOrders struct {
	UserID int64 `path:"userId" minimum:"1" doc:"Owner of the orders"`
}

type RequestOrderList struct {
	Status        []string  `query:"status" doc:"Filter by status, comma separated"`
	CreatedAfter  time.Time `query:"createdAfter" doc:"Only orders created at or after (RFC 3339)"`
	CreatedBefore time.Time `query:"createdBefore" doc:"Only orders created at or before (RFC 3339)"`
}

type RequestOrderStatus struct {
	OrderID string `path:"orderId" format:"uuid" doc:"Order identifier"`
	Body    struct {
		Status string `json:"status" enum:"pending,placed,shipped,delivered,cancelled" doc:"New status"`
	}
}

type MoneyResponse struct {
	Amount   string `json:"amount" example:"19.98" doc:"Decimal amount"`
	Currency string `json:"currency" example:"USD" doc:"ISO 4217 code"`
}

type OrderItemResponse struct {
	ID          int64         `json:"id"`
	ProductID   int64         `json:"productId"`
	ProductName string        `json:"productName"`
	Quantity    int           `json:"quantity"`
	UnitPrice   MoneyResponse `json:"unitPrice"`
	LineTotal   MoneyResponse `json:"lineTotal"`
}

type OrderResponse struct {
	ID        string              `json:"id" format:"uuid"`
	UserID    int64               `json:"userId"`
	Status    string              `json:"status"`
	Total     *MoneyResponse      `json:"total,omitempty"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type ResponseOrder struct {
	Body OrderResponse
}

type ResponseOrderList struct {
	Body []OrderResponse
}

type HealthResponse struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

func mapDomainMoneyToResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount.String(),
		Currency: m.Currency.String(),
	}
}

func mapDomainOrderToResponse(order domain.Order) OrderResponse {
	var total *MoneyResponse
	if order.Total != nil {
		total = lo.ToPtr(mapDomainMoneyToResponse(*order.Total))
	}

	return OrderResponse{
		ID:     order.ID.String(),
		UserID: order.UserID,
		Status: string(order.Status),
		Total:  total,
		Items: lo.Map(order.Items, func(item domain.OrderItem, _ int) OrderItemResponse {
			return OrderItemResponse{
				ID:          item.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   mapDomainMoneyToResponse(item.UnitPrice),
				LineTotal:   mapDomainMoneyToResponse(item.LineTotal),
			}
		}),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func mapDomainOrdersToResponse(orders []domain.Order) []OrderResponse {
	return lo.Map(orders, func(order domain.Order, _ int) OrderResponse {
		return mapDomainOrderToResponse(order)
	})
}

func mapRequestToPlaceOrder(req *RequestOrderCreate) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{
		UserID: req.Body.UserID,
		Lines: lo.Map(req.Body.Items, func(line OrderLineRequest, _ int) domain.OrderLine {
			return domain.OrderLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
		}),
	}
}

func mapRequestToOrderFilter(req *RequestOrderList) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	for _, s := range req.Status {
		status, err := domain.ToOrderStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if !req.CreatedAfter.IsZero() || !req.CreatedBefore.IsZero() {
		var timeRange domain.TimeRange
		if !req.CreatedAfter.IsZero() {
			timeRange.After = lo.ToPtr(req.CreatedAfter)
		}
		if !req.CreatedBefore.IsZero() {
			timeRange.Before = lo.ToPtr(req.CreatedBefore)
		}
		filter.CreatedAt = &timeRange
	}

	if err := filter.Validate(); err != nil {
		return filter, err
	}

	return filter, nil
}
