package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nikolayk812/order-service/internal/service"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
