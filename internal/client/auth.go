package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
)

type tokenVerifier struct {
	base baseClient
}

// NewTokenVerifier returns a verifier backed by the auth service.
func NewTokenVerifier(baseURL string, opts Options) (port.TokenVerifier, error) {
	base, err := newBaseClient(baseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("newBaseClient: %w", err)
	}

	return &tokenVerifier{base: base}, nil
}

type principalDTO struct {
	UserID int64    `json:"userId"`
	Roles  []string `json:"roles"`
}

func (v *tokenVerifier) Verify(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	var dto principalDTO

	err := v.base.doJSON(ctx, http.MethodGet, "/auth/validate", token, nil, &dto)
	if err != nil {
		switch statusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.Principal{}, fmt.Errorf("doJSON: %w", domain.ErrUnauthorized)
		}
		return domain.Principal{}, fmt.Errorf("doJSON: %w", err)
	}

	if dto.UserID <= 0 {
		return domain.Principal{}, fmt.Errorf("userID[%d] is not valid: %w", dto.UserID, domain.ErrUnauthorized)
	}

	return domain.Principal{
		UserID: dto.UserID,
		Roles:  dto.Roles,
	}, nil
}
