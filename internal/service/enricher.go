package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EnrichResult is the outcome of pricing one request line.
type EnrichResult struct {
	LineNo int
	Line   domain.OrderLine
	Item   domain.OrderItem
	Err    error
}

func (r EnrichResult) OK() bool {
	return r.Err == nil
}

// Enricher turns a request line into a priced order item.
type Enricher struct {
	products port.ProductClient
	timeout  time.Duration
	tracer   trace.Tracer
}

// NewEnricher applies timeout to every product lookup, zero disables it.
func NewEnricher(products port.ProductClient, timeout time.Duration) (*Enricher, error) {
	if products == nil {
		return nil, errors.New("products is nil")
	}
	if timeout < 0 {
		return nil, fmt.Errorf("timeout[%s] must not be negative", timeout)
	}

	return &Enricher{
		products: products,
		timeout:  timeout,
		tracer:   tracer(),
	}, nil
}

// Enrich never panics and never returns an error, failures are carried in the result.
func (e *Enricher) Enrich(ctx context.Context, order domain.Order, lineNo int, line domain.OrderLine) (result EnrichResult) {
	result = EnrichResult{LineNo: lineNo, Line: line}

	ctx, span := e.tracer.Start(ctx, "Enricher.Enrich", trace.WithAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.Int("order.line", lineNo),
		attribute.Int64("product.id", line.ProductID),
	))
	defer func() {
		if r := recover(); r != nil {
			result.Item = domain.OrderItem{}
			result.Err = fmt.Errorf("enrich panicked: %v", r)
		}
		if result.Err != nil {
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Err.Error())
		}
		span.End()
	}()

	if order.ID == uuid.Nil {
		result.Err = errors.New("orderID is empty")
		return result
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	product, err := e.products.GetProduct(ctx, line.ProductID)
	if err != nil {
		result.Err = fmt.Errorf("products.GetProduct[%d]: %w", line.ProductID, err)
		return result
	}
	// the requested id is authoritative
	product.ID = line.ProductID

	item, err := domain.NewOrderItem(order.ID, lineNo, product, line.Quantity)
	if err != nil {
		result.Err = fmt.Errorf("domain.NewOrderItem: %w", err)
		return result
	}

	result.Item = item
	return result
}
