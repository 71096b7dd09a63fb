package service

import (
	"context"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
)

// Handle dispatches a canonical request to the matching typed operation.
// Both protocol adapters call through here, which is what guarantees a SOAP
// login and a REST login with the same credentials produce identical
// service-level outcomes.
func (s *AuthService) Handle(ctx context.Context, req domain.CanonicalRequest) (domain.CanonicalResponse, error) {
	resp := domain.CanonicalResponse{Op: req.Op, CorrelationID: req.CorrelationID}

	switch req.Op {
	case domain.OpLogin:
		issued, err := s.Login(ctx, req.Username, req.Secret, req.Origin)
		if err != nil {
			return resp, err
		}
		resp.AccountID = issued.Session.AccountID
		resp.Token = issued.Token
		resp.ExpiresAt = issued.Session.IdleDeadline

	case domain.OpLogout:
		if err := s.Logout(ctx, req.Token); err != nil {
			return resp, err
		}

	case domain.OpRefresh:
		if err := s.Registry.Touch(ctx, req.Token); err != nil {
			return resp, err
		}

	case domain.OpRegister:
		accountID, err := s.Register(ctx, req.Username, req.Secret, req.DisplayName)
		if err != nil {
			return resp, err
		}
		resp.AccountID = accountID
		resp.Username = req.Username

	case domain.OpProfile:
		actx, err := s.Authenticate(ctx, req.Token)
		if err != nil {
			return resp, err
		}
		resp.AccountID = actx.Account.ID
		resp.Username = actx.Account.Username
		resp.DisplayName = actx.Account.DisplayName
		resp.Status = actx.Account.Status
		resp.ExpiresAt = actx.Session.IdleDeadline

	case domain.OpRemoteAuth:
		cert, expiry, err := s.RemoteAuth.Certificate(ctx, req.ProfileID, req.ServerData)
		if err != nil {
			return resp, err
		}
		resp.Certificate = cert
		resp.CertExpiry = expiry

	default:
		return resp, ErrUnknownOperation
	}

	return resp, nil
}
