package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
)

type userClient struct {
	base baseClient
}

func NewUser(baseURL string, opts Options) (port.UserClient, error) {
	base, err := newBaseClient(baseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("newBaseClient: %w", err)
	}

	return &userClient{base: base}, nil
}

type userDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *userClient) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var dto userDTO

	path := "/users/" + strconv.FormatInt(userID, 10)

	err := c.base.doJSON(ctx, http.MethodGet, path, BearerToken(ctx), nil, &dto)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return domain.User{}, fmt.Errorf("userID[%d]: %w", userID, domain.ErrUserNotFound)
		}
		return domain.User{}, fmt.Errorf("doJSON: %w", err)
	}

	return domain.User{
		ID:    dto.ID,
		Email: dto.Email,
		Name:  dto.Name,
	}, nil
}
