package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResource struct {
	db Pinger
}

func NewHealthResource(db Pinger) *HealthResource {
	return &HealthResource{db: db}
}

func (rs *HealthResource) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "healthz",
		Summary:     "Liveness and database connectivity",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Tags:        []string{"Health"},
	}, rs.Check)
}

func (rs *HealthResource) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	if err := rs.db.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "database ping failed", "error", err)
		return nil, huma.Error503ServiceUnavailable("database is unavailable")
	}

	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	return resp, nil
}
