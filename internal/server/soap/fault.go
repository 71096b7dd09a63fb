package soap

import (
	"errors"
	"strings"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
)

// The legacy fault vocabulary is not documented anywhere we can reach, so
// the mapping from the internal error taxonomy to fault codes lives in an
// overridable table. Unknown kinds fail closed to the generic server fault
// rather than leaking internals or crashing the request.

// Failure kinds, the keys of the mapping table.
const (
	KindInvalidCredentials = "invalid-credentials"
	KindAccountSuspended   = "account-suspended"
	KindDuplicateUsername  = "duplicate-username"
	KindWeakSecret         = "weak-secret"
	KindSessionExpired     = "session-expired"
	KindSessionRevoked     = "session-revoked"
	KindSessionNotFound    = "session-not-found"
	KindMalformedEnvelope  = "malformed-envelope"
	KindBadRequest         = "bad-request"
	KindStorage            = "storage"
)

// genericFault is the fail-closed fallback for unmapped kinds.
const genericFault = "soap:Server"

var defaultFaultCodes = map[string]string{
	KindInvalidCredentials: "soap:Client.InvalidCredentials",
	KindAccountSuspended:   "soap:Client.AccountSuspended",
	KindDuplicateUsername:  "soap:Client.DuplicateUsername",
	KindWeakSecret:         "soap:Client.WeakPassword",
	KindSessionExpired:     "soap:Client.SessionExpired",
	KindSessionRevoked:     "soap:Client.SessionExpired",
	KindSessionNotFound:    "soap:Client.SessionExpired",
	KindMalformedEnvelope:  "soap:Client.MalformedRequest",
	KindBadRequest:         "soap:Client.MalformedRequest",
	KindStorage:            "soap:Server",
}

// FaultMapper translates internal failure kinds into the fault codes written
// on the wire.
type FaultMapper struct {
	codes map[string]string
}

// NewFaultMapper builds a mapper from the default table plus overrides,
// typically parsed from configuration by ParseFaultOverrides.
func NewFaultMapper(overrides map[string]string) *FaultMapper {
	codes := make(map[string]string, len(defaultFaultCodes))
	for kind, code := range defaultFaultCodes {
		codes[kind] = code
	}
	for kind, code := range overrides {
		codes[kind] = code
	}
	return &FaultMapper{codes: codes}
}

// Code returns the fault code for a kind, falling back to the generic server
// fault for anything unmapped.
func (m *FaultMapper) Code(kind string) string {
	if code, ok := m.codes[kind]; ok && code != "" {
		return code
	}
	return genericFault
}

// ParseFaultOverrides parses "kind=Code,kind=Code" override pairs from
// configuration. Malformed pairs are skipped.
func ParseFaultOverrides(raw string) map[string]string {
	overrides := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			continue
		}
		overrides[key] = value
	}
	return overrides
}

// FailureKind classifies a service error into a mapping-table kind. Anything
// unrecognized is a storage/internal failure.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, service.ErrAccountSuspended):
		return KindAccountSuspended
	case errors.Is(err, service.ErrDuplicateUsername):
		return KindDuplicateUsername
	case errors.Is(err, service.ErrWeakSecret):
		return KindWeakSecret
	case errors.Is(err, service.ErrSessionExpired):
		return KindSessionExpired
	case errors.Is(err, service.ErrSessionRevoked):
		return KindSessionRevoked
	case errors.Is(err, service.ErrSessionNotFound):
		return KindSessionNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownOperation):
		return KindBadRequest
	case errors.Is(err, ErrMalformedEnvelope):
		return KindMalformedEnvelope
	default:
		return KindStorage
	}
}
