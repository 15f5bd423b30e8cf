package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/service"
)

// SchemaError maps service errors to problem responses.
func SchemaError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var confirmationErr *service.ConfirmationError

	switch {
	case errors.As(err, &confirmationErr):
		slog.ErrorContext(ctx, "order confirmation failed", "orderID", confirmationErr.OrderID, "error", err)
		return huma.Error500InternalServerError(
			fmt.Sprintf("order %s was placed but its confirmation failed", confirmationErr.OrderID))
	case errors.Is(err, domain.ErrUnauthorized):
		return huma.Error401Unauthorized("unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden("forbidden")
	case errors.Is(err, domain.ErrOrderNotFound):
		return huma.Error404NotFound("order not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, context.Canceled):
		slog.WarnContext(ctx, "request cancelled", "error", err)
		return huma.Error500InternalServerError("request cancelled")
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		return huma.Error500InternalServerError("internal server error")
	}
}
