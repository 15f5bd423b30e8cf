package port

import (
	"context"

	"github.com/nikolayk812/order-service/internal/domain"
)

type ProductClient interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

type UserClient interface {
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

type Notifier interface {
	SendNotification(ctx context.Context, notification domain.Notification) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Principal, error)
}
