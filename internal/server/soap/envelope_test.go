package soap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const loginEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"
               xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
               xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <soap:Body>
    <Login xmlns="http://gamespy.net/AuthService">
      <username>alice</username>
      <password> S3cret!pass </password>
    </Login>
  </soap:Body>
</soap:Envelope>`

func TestParseEnvelope(t *testing.T) {
	op, err := ParseEnvelope([]byte(loginEnvelope))
	require.NoError(t, err)
	require.Equal(t, "Login", op.Name)
	require.Equal(t, "alice", op.Text("username"))
	require.Equal(t, "S3cret!pass", op.Text("password"), "text content is trimmed")
	require.Empty(t, op.Text("missing"))
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not xml":      "this is not xml at all",
		"truncated":    loginEnvelope[:80],
		"empty body":   `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body></soap:Body></soap:Envelope>`,
		"empty string": "",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEnvelope([]byte(body))
			require.ErrorIs(t, err, ErrMalformedEnvelope)
		})
	}
}

func TestWrapEnvelope(t *testing.T) {
	out, err := WrapEnvelope(loginRemoteAuthResponse{
		Result:      "Success",
		Certificate: "cert-blob",
		Expiry:      "2026-03-14T12:03:00Z",
	})
	require.NoError(t, err)

	body := string(out)
	require.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
	require.Contains(t, body, `xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"`)
	require.Contains(t, body, `<LoginRemoteAuthResult>Success</LoginRemoteAuthResult>`)
	require.Contains(t, body, `<certificate>cert-blob</certificate>`)
	require.Contains(t, body, `<expiry>2026-03-14T12:03:00Z</expiry>`)
	require.Contains(t, body, AuthNS)
}

func TestWrapFault(t *testing.T) {
	out, err := WrapFault("soap:Client.InvalidCredentials", "invalid-credentials")
	require.NoError(t, err)

	body := string(out)
	require.Contains(t, body, `<faultcode>soap:Client.InvalidCredentials</faultcode>`)
	require.Contains(t, body, `<faultstring>invalid-credentials</faultstring>`)
}

func TestFaultMapperFailsClosed(t *testing.T) {
	m := NewFaultMapper(nil)
	require.Equal(t, "soap:Client.InvalidCredentials", m.Code(KindInvalidCredentials))
	require.Equal(t, genericFault, m.Code("some-new-kind"))
}

func TestFaultMapperOverrides(t *testing.T) {
	overrides := ParseFaultOverrides("invalid-credentials=soap:Client.LoginDenied, weak-secret = soap:Client.BadPassword,malformed")
	m := NewFaultMapper(overrides)

	require.Equal(t, "soap:Client.LoginDenied", m.Code(KindInvalidCredentials))
	require.Equal(t, "soap:Client.BadPassword", m.Code(KindWeakSecret), "whitespace around pairs is tolerated")
	require.Equal(t, "soap:Client.DuplicateUsername", m.Code(KindDuplicateUsername), "unoverridden kinds keep defaults")
}
