package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/order-service/internal/port"
)

// NewRouter wires the order and health resources on a chi router.
// A nil verifier disables authentication.
func NewRouter(orders OrderService, db Pinger, verifier port.TokenVerifier) (*chi.Mux, huma.API) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger)
	router.Use(middleware.Recoverer)

	config := huma.DefaultConfig("Order Service", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		bearerScheme: {
			Type:   "http",
			Scheme: "bearer",
		},
	}

	api := humachi.New(router, config)
	api.UseMiddleware(AuthBearerToken(api, verifier))

	NewOrderResource(orders, verifier != nil).Register(api)
	NewHealthResource(db).Register(api)

	return router, api
}

// RequestLogger logs one line per request through slog.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			slog.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestID", middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}
