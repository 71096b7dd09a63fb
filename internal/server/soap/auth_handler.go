package soap

import (
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// Endpoint is the path the game client posts auth envelopes to.
const Endpoint = "/AuthService/AuthService.asmx"

// maxEnvelopeBytes bounds request bodies; legitimate envelopes are tiny.
const maxEnvelopeBytes = 64 << 10

// expiryFormat is the timestamp layout of the legacy service.
const expiryFormat = "2006-01-02T15:04:05Z"

// Response payloads, shaped after the legacy service's XML models.

type loginRemoteAuthResponse struct {
	XMLName     xml.Name `xml:"http://gamespy.net/AuthService LoginRemoteAuthResponse"`
	Result      string   `xml:"LoginRemoteAuthResult"`
	Certificate string   `xml:"certificate,omitempty"`
	Expiry      string   `xml:"expiry,omitempty"`
}

type loginResponse struct {
	XMLName xml.Name `xml:"http://gamespy.net/AuthService LoginResponse"`
	Result  string   `xml:"LoginResult"`
	Token   string   `xml:"sessionToken,omitempty"`
	Expiry  string   `xml:"expiry,omitempty"`
}

type logoutResponse struct {
	XMLName xml.Name `xml:"http://gamespy.net/AuthService LogoutResponse"`
	Result  string   `xml:"LogoutResult"`
}

type createAccountResponse struct {
	XMLName   xml.Name `xml:"http://gamespy.net/AuthService CreateAccountResponse"`
	Result    string   `xml:"CreateAccountResult"`
	AccountID string   `xml:"accountId,omitempty"`
}

type getProfileResponse struct {
	XMLName   xml.Name `xml:"http://gamespy.net/AuthService GetProfileResponse"`
	Result    string   `xml:"GetProfileResult"`
	AccountID string   `xml:"accountId,omitempty"`
	Username  string   `xml:"username,omitempty"`
	Nick      string   `xml:"nick,omitempty"`
	Status    string   `xml:"status,omitempty"`
}

// AuthHandler serves POST /AuthService/AuthService.asmx, the legacy SOAP
// surface. It is a thin adapter: parse the envelope, build a canonical
// request, call the service, render the envelope or fault.
type AuthHandler struct {
	Auth   *service.AuthService
	Faults *FaultMapper
	Logger *slog.Logger
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEnvelopeBytes))
	if err != nil {
		h.writeFault(w, log, http.StatusBadRequest, ErrMalformedEnvelope)
		return
	}

	op, err := ParseEnvelope(body)
	if err != nil {
		log.Warn("rejecting malformed envelope", "err", err)
		h.writeFault(w, log, http.StatusBadRequest, err)
		return
	}

	// The client routes by SOAPAction header; fall back to the body
	// element when the header is absent.
	name := soapAction(r)
	if name == "" {
		name = op.Name
	}

	req, err := h.canonicalize(ctx, name, op)
	if err != nil {
		h.writeFault(w, log, http.StatusBadRequest, err)
		return
	}

	// Unknown operations get a bare success result, matching the legacy
	// service; the client treats faults on them as fatal.
	if req.Op == "" {
		log.Debug("unknown soap operation", "op", name)
		out, wrapErr := WrapEnvelope(loginRemoteAuthResponse{Result: "Success"})
		if wrapErr != nil {
			h.writeFault(w, log, http.StatusInternalServerError, wrapErr)
			return
		}
		httpx.WriteXML(w, http.StatusOK, out)
		return
	}

	resp, err := h.Auth.Handle(ctx, req)
	if err != nil {
		kind := FailureKind(err)
		if kind == KindStorage {
			log.Error("soap operation failed", "op", name, "err", err)
		}
		h.writeFault(w, log, http.StatusInternalServerError, err)
		return
	}

	payload := h.render(name, resp)
	out, err := WrapEnvelope(payload)
	if err != nil {
		h.writeFault(w, log, http.StatusInternalServerError, err)
		return
	}
	httpx.WriteXML(w, http.StatusOK, out)
}

// canonicalize maps the operation name and envelope fields to a canonical
// request. An empty Op means the operation is unknown.
func (h *AuthHandler) canonicalize(ctx context.Context, name string, op *Operation) (domain.CanonicalRequest, error) {
	req := domain.CanonicalRequest{
		Origin:        domain.OriginSOAP,
		CorrelationID: slogx.RequestIDFromContext(ctx),
	}

	switch {
	case strings.Contains(name, "LoginRemoteAuth"):
		req.Op = domain.OpRemoteAuth
		req.ServerData = op.Text("ServerData")
		if raw := op.Text("profileId"); raw != "" {
			pid, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return req, ErrMalformedEnvelope
			}
			req.ProfileID = pid
		}

	case strings.Contains(name, "CreateAccount"):
		req.Op = domain.OpRegister
		req.Username = op.Text("username")
		req.Secret = op.Text("password")
		req.DisplayName = op.Text("nick")

	case strings.Contains(name, "Logout"):
		req.Op = domain.OpLogout
		req.Token = op.Text("sessionToken")

	case strings.Contains(name, "Login"):
		req.Op = domain.OpLogin
		req.Username = op.Text("username")
		req.Secret = op.Text("password")

	case strings.Contains(name, "GetProfile"):
		req.Op = domain.OpProfile
		req.Token = op.Text("sessionToken")

	default:
		req.Op = ""
	}

	return req, nil
}

func (h *AuthHandler) render(name string, resp domain.CanonicalResponse) any {
	switch resp.Op {
	case domain.OpRemoteAuth:
		return loginRemoteAuthResponse{
			Result:      "Success",
			Certificate: resp.Certificate,
			Expiry:      resp.CertExpiry.UTC().Format(expiryFormat),
		}
	case domain.OpLogin:
		return loginResponse{
			Result: "Success",
			Token:  resp.Token,
			Expiry: resp.ExpiresAt.UTC().Format(expiryFormat),
		}
	case domain.OpLogout:
		return logoutResponse{Result: "Success"}
	case domain.OpRegister:
		return createAccountResponse{Result: "Success", AccountID: resp.AccountID}
	case domain.OpProfile:
		return getProfileResponse{
			Result:    "Success",
			AccountID: resp.AccountID,
			Username:  resp.Username,
			Nick:      resp.DisplayName,
			Status:    string(resp.Status),
		}
	default:
		// Unknown operation: bare success, matching the legacy service.
		return loginRemoteAuthResponse{Result: "Success"}
	}
}

func (h *AuthHandler) writeFault(w http.ResponseWriter, log *slog.Logger, status int, err error) {
	kind := FailureKind(err)
	code := h.Faults.Code(kind)

	out, wrapErr := WrapFault(code, kind)
	if wrapErr != nil {
		log.Error("failed to serialize fault", "err", wrapErr)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.WriteXML(w, status, out)
}

func soapAction(r *http.Request) string {
	return strings.Trim(r.Header.Get("SOAPAction"), `"`)
}
