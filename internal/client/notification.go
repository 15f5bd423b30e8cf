package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/nikolayk812/order-service/internal/port"
)

type notifier struct {
	base baseClient
}

// NewNotifier sends each notification at most once, opts.MaxRetries is ignored.
func NewNotifier(baseURL string, opts Options) (port.Notifier, error) {
	opts.MaxRetries = 0

	base, err := newBaseClient(baseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("newBaseClient: %w", err)
	}

	return &notifier{base: base}, nil
}

type notificationDTO struct {
	ToEmail string `json:"toEmail"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SendNotification accepts any 2xx, the response body is ignored.
func (n *notifier) SendNotification(ctx context.Context, notification domain.Notification) error {
	if notification.ToEmail == "" {
		return errors.New("toEmail is empty")
	}

	dto := notificationDTO{
		ToEmail: notification.ToEmail,
		Subject: notification.Subject,
		Message: notification.Message,
	}

	if err := n.base.doJSON(ctx, http.MethodPost, "/notifications", BearerToken(ctx), dto, nil); err != nil {
		return fmt.Errorf("doJSON: %w", err)
	}

	return nil
}
