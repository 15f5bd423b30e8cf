package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nikolayk812/order-service/internal/client"
	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
)

const bearerScheme = "bearer"

type principalKey struct{}

func withPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(domain.Principal)
	return principal, ok
}

// AuthBearerToken verifies the bearer token of every operation that declares
// the bearer security scheme. A nil verifier lets every request through.
func AuthBearerToken(api huma.API, verifier port.TokenVerifier) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if verifier == nil || !requiresBearer(ctx.Operation()) {
			next(ctx)
			return
		}

		token, ok := strings.CutPrefix(ctx.Header("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		principal, err := verifier.Verify(ctx.Context(), token)
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			slog.WarnContext(ctx.Context(), "token rejected", "error", err)
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid bearer token")
			return
		case err != nil:
			slog.ErrorContext(ctx.Context(), "token verification failed", "error", err)
			_ = huma.WriteErr(api, ctx, http.StatusServiceUnavailable, "token verification unavailable")
			return
		}

		newCtx := withPrincipal(ctx.Context(), principal)
		newCtx = client.WithBearerToken(newCtx, token)

		next(huma.WithContext(ctx, newCtx))
	}
}

func requiresBearer(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, requirement := range op.Security {
		if _, ok := requirement[bearerScheme]; ok {
			return true
		}
	}
	return false
}

type authorizer struct {
	enabled bool
}

// owner allows the owner of the orders and admins.
func (a authorizer) owner(ctx context.Context, ownerID int64) error {
	if !a.enabled {
		return nil
	}

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if !principal.CanAccess(ownerID) {
		return fmt.Errorf("user[%d] cannot access orders of user[%d]: %w", principal.UserID, ownerID, domain.ErrForbidden)
	}

	return nil
}

func (a authorizer) admin(ctx context.Context) error {
	if !a.enabled {
		return nil
	}

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if !principal.IsAdmin() {
		return fmt.Errorf("user[%d] is not an admin: %w", principal.UserID, domain.ErrForbidden)
	}

	return nil
}
