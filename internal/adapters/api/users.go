package api

import (
	"context"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/ports"
)

type UserClient struct {
	c *Client
}

var _ ports.UserGateway = (*UserClient)(nil)

func (u *UserClient) Current(ctx context.Context, cb func(ports.AuthReply, error)) {
	u.c.get(ctx, "current user", "/user/current", nil, authReply("current user", cb))
}

func (u *UserClient) Login(ctx context.Context, creds domain.Credentials, cb func(ports.AuthReply, error)) {
	data := ports.Values{}.
		Add("email", creds.Email).
		Add("password", creds.Password)
	u.c.post(ctx, "login", "/user/login", data, authReply("login", cb))
}

func (u *UserClient) Register(ctx context.Context, profile domain.Profile, cb func(ports.AuthReply, error)) {
	data := ports.Values{}.
		Add("name", profile.Name).
		Add("email", profile.Email).
		Add("password", profile.Password)
	u.c.post(ctx, "register", "/user/register", data, authReply("register", cb))
}

func (u *UserClient) Logout(ctx context.Context, cb func(ports.AuthReply, error)) {
	u.c.post(ctx, "logout", "/user/logout", nil, authReply("logout", cb))
}

func authReply(op string, cb func(ports.AuthReply, error)) func(Envelope, error) {
	return func(env Envelope, err error) {
		if err != nil {
			cb(ports.AuthReply{}, err)
			return
		}
		reply := ports.AuthReply{Success: env.Success, Error: env.Error}
		if env.User.Exists() {
			session, err := env.Session(op)
			if err != nil && domain.IsKind(err, domain.ErrorKindTransport) {
				cb(ports.AuthReply{}, err)
				return
			}
			if err == nil {
				reply.Session = &session
			}
		}
		cb(reply, nil)
	}
}

// Session decodes the envelope's user member.
func (e Envelope) Session(op string) (domain.Session, error) {
	session, err := decodeInto[domain.Session](e.User, op)
	if err != nil {
		return domain.Session{}, err
	}
	if session.ID.IsZero() && session.Email == "" && session.Name == "" {
		return domain.Session{}, domain.NewSemanticError(op, "response carries no user")
	}
	return session, nil
}
