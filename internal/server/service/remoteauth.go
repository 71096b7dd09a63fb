package service

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// DefaultCertTTL matches the 180-second certificate expiry of the legacy
// auth service.
const DefaultCertTTL = 180 * time.Second

// RemoteAuthService mints the short-lived certificates the game client
// presents to dedicated servers. The legacy service handed out entries from
// a static pool; here each certificate is an EdDSA-signed token bound to the
// requesting profile, so servers can verify it offline against our public
// key instead of trusting an unverifiable blob.
type RemoteAuthService struct {
	Key    ed25519.PrivateKey
	Issuer string
	TTL    time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

type certClaims struct {
	ProfileID  int64  `json:"pid"`
	ServerData string `json:"sd,omitempty"`
	jwt.RegisteredClaims
}

// Certificate mints a signed certificate for the profile, returning the
// compact token and its expiry.
func (s *RemoteAuthService) Certificate(ctx context.Context, profileID int64, serverData string) (string, time.Time, error) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultCertTTL
	}
	expiry := now.Add(ttl)

	claims := certClaims{
		ProfileID:  profileID,
		ServerData: serverData,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	cert, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.Key)
	if err != nil {
		return "", time.Time{}, err
	}

	slogx.FromContext(ctx).Debug("remote_auth_certificate_issued",
		"profile_id", profileID,
		"expiry", expiry,
	)
	return cert, expiry, nil
}

// VerifyCertificate checks a certificate's signature and expiry and returns
// the profile id it was minted for. Exposed for tooling and tests.
func (s *RemoteAuthService) VerifyCertificate(cert string) (int64, error) {
	var claims certClaims
	_, err := jwt.ParseWithClaims(cert, &claims, func(t *jwt.Token) (any, error) {
		return s.Key.Public(), nil
	}, jwt.WithValidMethods([]string{"EdDSA"}), jwt.WithIssuer(s.Issuer))
	if err != nil {
		return 0, err
	}
	return claims.ProfileID, nil
}
