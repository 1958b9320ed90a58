package models

import (
	"time"

	"github.com/google/uuid"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

func IsValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusInactive || s == UserStatusBanned
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	// Current wallet binding. Overwritten wholesale on each successful
	// connection; history lives only in wallet_logs.
	WalletMethod  *string   `json:"wallet_method,omitempty"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
	Balance       float64   `json:"balance"`
	Status        string    `json:"status"`
	LastActiveAt  time.Time `json:"last_active_at"`
	CreatedAt     time.Time `json:"created_at"`
}
