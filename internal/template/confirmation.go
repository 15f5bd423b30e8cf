package template

import (
	"fmt"
	"time"

	"github.com/nikolayk812/order-service/internal/domain"
	"github.com/samber/lo"
)

const (
	confirmationSubject = "confirmation_subject"
	confirmationMessage = "confirmation_message"
)

type confirmationLine struct {
	ProductName string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

type confirmationData struct {
	UserName string
	OrderID  string
	PlacedAt string
	Status   string
	Lines    []confirmationLine
}

func buildConfirmationData(user domain.User, order domain.Order) confirmationData {
	name := user.Name
	if name == "" {
		name = user.Email
	}

	return confirmationData{
		UserName: name,
		OrderID:  order.ID.String(),
		PlacedAt: order.CreatedAt.UTC().Format(time.RFC1123),
		Status:   string(order.Status),
		Lines: lo.Map(order.Items, func(item domain.OrderItem, _ int) confirmationLine {
			return confirmationLine{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice.String(),
				LineTotal:   item.LineTotal.String(),
			}
		}),
	}
}

// Confirmation renders the notification sent to the user once an order is placed.
func (e *Engine) Confirmation(user domain.User, order domain.Order) (domain.Notification, error) {
	data := buildConfirmationData(user, order)

	subject, err := e.Render(confirmationSubject, data)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("e.Render: %w", err)
	}

	message, err := e.Render(confirmationMessage, data)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("e.Render: %w", err)
	}

	return domain.Notification{
		ToEmail: user.Email,
		Subject: subject,
		Message: message,
	}, nil
}
