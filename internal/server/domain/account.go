package domain

import "time"

// AccountStatus is the lifecycle state of an account. Accounts are never
// physically deleted; suspension and deletion are status flips so sessions
// and audit history keep a valid reference.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

// Valid reports whether s is a known status value.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountDeleted:
		return true
	}
	return false
}

// Account is a registered game or operator identity. Username comparison is
// case-insensitive; the store keeps the lowercase form. PasswordHash is an
// Argon2id PHC string and must never cross an adapter boundary.
type Account struct {
	ID           string
	Username     string
	DisplayName  string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
