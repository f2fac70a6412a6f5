package ports

import (
	"context"

	"github.com/bnema/fin/internal/domain"
)

// AuthReply is the outcome of a /user call that reached the server.
type AuthReply struct {
	Success bool
	// Session is set when the reply carried a user.
	Session *domain.Session
	Error   string
}

// UserGateway issues the session-related requests. Callbacks receive an
// error only when no reply was obtained.
type UserGateway interface {
	Current(ctx context.Context, cb func(AuthReply, error))
	Login(ctx context.Context, creds domain.Credentials, cb func(AuthReply, error))
	Register(ctx context.Context, profile domain.Profile, cb func(AuthReply, error))
	Logout(ctx context.Context, cb func(AuthReply, error))
}
