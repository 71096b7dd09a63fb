package domain

import "time"

// Op tags a canonical request with the operation it carries.
type Op string

const (
	OpLogin      Op = "login"
	OpLogout     Op = "logout"
	OpRefresh    Op = "refresh"
	OpRegister   Op = "register"
	OpProfile    Op = "profile"
	OpRemoteAuth Op = "remote-auth"
)

// CanonicalRequest is the transport-neutral request both protocol adapters
// produce. It carries typed payload fields only; no XML or JSON framing may
// survive past the adapter boundary.
type CanonicalRequest struct {
	Op            Op
	CorrelationID string
	Origin        SessionOrigin

	// Credential operations.
	Username    string
	Secret      string
	NewSecret   string
	DisplayName string

	// Session operations.
	Token string

	// Remote-auth certificate allocation.
	ProfileID  int64
	ServerData string
}

// CanonicalResponse is the transport-neutral result rendered by each adapter
// into its own wire format.
type CanonicalResponse struct {
	Op            Op
	CorrelationID string

	AccountID   string
	Username    string
	DisplayName string
	Status      AccountStatus

	Token     string
	ExpiresAt time.Time

	Certificate string
	CertExpiry  time.Time
}
