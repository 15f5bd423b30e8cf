package domain

import (
	"errors"
	"slices"
	"strings"
)

const RoleAdmin = "admin"

// Product is a point-in-time view returned by the product service.
type Product struct {
	ID    int64
	Name  string
	Price Money
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is empty")
	}
	return p.Price.Validate()
}

type User struct {
	ID    int64
	Email string
	Name  string
}

type Notification struct {
	ToEmail string
	Subject string
	Message string
}

// Principal is the identity behind a verified bearer token.
type Principal struct {
	UserID int64
	Roles  []string
}

func (p Principal) IsAdmin() bool {
	return slices.Contains(p.Roles, RoleAdmin)
}

// CanAccess reports whether the principal may act on resources owned by userID.
func (p Principal) CanAccess(userID int64) bool {
	return p.IsAdmin() || p.UserID == userID
}
