package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (domain.Order, error)
}

// OrderResource handles all order endpoints.
type OrderResource struct {
	orders OrderService
	auth   authorizer
}

func NewOrderResource(orders OrderService, authEnabled bool) *OrderResource {
	return &OrderResource{
		orders: orders,
		auth:   authorizer{enabled: authEnabled},
	}
}

func (rs *OrderResource) Register(api huma.API) {
	security := []map[string][]string{{bearerScheme: {}}}

	huma.Register(api, huma.Operation{
		OperationID:   "order-create",
		Summary:       "Place an order",
		Description:   "Creates an order and prices every line. Lines whose product cannot be priced are left out.",
		Method:        http.MethodPost,
		Path:          "/orders",
		DefaultStatus: http.StatusCreated,
		Tags:          []string{"Orders"},
		Security:      security,
	}, rs.Create)

	huma.Register(api, huma.Operation{
		OperationID: "order-get",
		Summary:     "Get order",
		Method:      http.MethodGet,
		Path:        "/orders/{orderId}",
		Tags:        []string{"Orders"},
		Security:    security,
	}, rs.Get)

	huma.Register(api, huma.Operation{
		OperationID: "order-list-by-user",
		Summary:     "List orders of a user",
		Method:      http.MethodGet,
		Path:        "/orders/user/{userId}",
		Tags:        []string{"Orders"},
		Security:    security,
	}, rs.ListByUser)

	huma.Register(api, huma.Operation{
		OperationID: "order-list",
		Summary:     "List orders",
		Description: "Lists all orders, optionally filtered by status and creation time. Admin only.",
		Method:      http.MethodGet,
		Path:        "/orders",
		Tags:        []string{"Orders"},
		Security:    security,
	}, rs.List)

	huma.Register(api, huma.Operation{
		OperationID:   "order-delete",
		Summary:       "Delete order",
		Method:        http.MethodDelete,
		Path:          "/orders/{orderId}",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"Orders"},
		Security:      security,
	}, rs.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "order-update-status",
		Summary:     "Update order status",
		Description: "Sets the order status. Admin only.",
		Method:      http.MethodPatch,
		Path:        "/orders/{orderId}/status",
		Tags:        []string{"Orders"},
		Security:    security,
	}, rs.UpdateStatus)
}

// Create handles POST /orders
func (rs *OrderResource) Create(ctx context.Context, req *RequestOrderCreate) (*ResponseOrder, error) {
	placeReq := mapRequestToPlaceOrder(req)

	if err := placeReq.Validate(); err != nil {
		return nil, SchemaError(ctx, err)
	}

	if err := rs.auth.owner(ctx, placeReq.UserID); err != nil {
		return nil, SchemaError(ctx, err)
	}

	order, err := rs.orders.PlaceOrder(ctx, placeReq)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	return &ResponseOrder{Body: mapDomainOrderToResponse(order)}, nil
}

// Get handles GET /orders/{orderId}
func (rs *OrderResource) Get(ctx context.Context, req *RequestOrderGet) (*ResponseOrder, error) {
	order, err := rs.getOwnedOrder(ctx, req.OrderID)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	return &ResponseOrder{Body: mapDomainOrderToResponse(order)}, nil
}

// ListByUser handles GET /orders/user/{userId}
func (rs *OrderResource) ListByUser(ctx context.Context, req *RequestUserOrders) (*ResponseOrderList, error) {
	if err := rs.auth.owner(ctx, req.UserID); err != nil {
		return nil, SchemaError(ctx, err)
	}

	orders, err := rs.orders.ListOrdersByUser(ctx, req.UserID)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	return &ResponseOrderList{Body: mapDomainOrdersToResponse(orders)}, nil
}

// List handles GET /orders
func (rs *OrderResource) List(ctx context.Context, req *RequestOrderList) (*ResponseOrderList, error) {
	if err := rs.auth.admin(ctx); err != nil {
		return nil, SchemaError(ctx, err)
	}

	filter, err := mapRequestToOrderFilter(req)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	orders, err := rs.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	return &ResponseOrderList{Body: mapDomainOrdersToResponse(orders)}, nil
}

// Delete handles DELETE /orders/{orderId}
func (rs *OrderResource) Delete(ctx context.Context, req *RequestOrderGet) (*struct{}, error) {
	order, err := rs.getOwnedOrder(ctx, req.OrderID)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	if err := rs.orders.DeleteOrder(ctx, order.ID); err != nil {
		return nil, SchemaError(ctx, err)
	}

	return nil, nil
}

// UpdateStatus handles PATCH /orders/{orderId}/status
func (rs *OrderResource) UpdateStatus(ctx context.Context, req *RequestOrderStatus) (*ResponseOrder, error) {
	if err := rs.auth.admin(ctx); err != nil {
		return nil, SchemaError(ctx, err)
	}

	orderID, err := parseOrderID(req.OrderID)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	order, err := rs.orders.UpdateOrderStatus(ctx, orderID, req.Body.Status)
	if err != nil {
		return nil, SchemaError(ctx, err)
	}

	return &ResponseOrder{Body: mapDomainOrderToResponse(order)}, nil
}

func (rs *OrderResource) getOwnedOrder(ctx context.Context, rawID string) (domain.Order, error) {
	orderID, err := parseOrderID(rawID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := rs.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if err := rs.auth.owner(ctx, order.UserID); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func parseOrderID(raw string) (uuid.UUID, error) {
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("orderID[%s]: %w", raw, domain.ErrInvalidInput)
	}
	return orderID, nil
}
