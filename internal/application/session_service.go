package application

import (
	"context"
	"fmt"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/ports"
	"github.com/sirupsen/logrus"
)

// SessionNotifier learns about every change of the signed-in identity.
// A nil session means signed out.
type SessionNotifier interface {
	SessionChanged(session *domain.Session)
}

// SessionService runs the /user calls and keeps the cache in step with
// their replies. Every callback fires after the cache was updated.
type SessionService struct {
	cache    *SessionCache
	users    ports.UserGateway
	notifier SessionNotifier
	log      logrus.FieldLogger
}

type SessionCallback func(ports.AuthReply, error)

func NewSessionService(cache *SessionCache, users ports.UserGateway, logger logrus.FieldLogger) *SessionService {
	return &SessionService{
		cache: cache,
		users: users,
		log:   logging.Component(logger, "session"),
	}
}

func (s *SessionService) SetNotifier(n SessionNotifier) {
	s.notifier = n
}

func (s *SessionService) Cache() *SessionCache {
	return s.cache
}

func (s *SessionService) Current(ctx context.Context) (domain.Session, bool) {
	return s.cache.Current(ctx)
}

// FetchCurrent asks the server who is signed in. A reply without the
// success flag clears the cache; a transport failure or a success reply
// without a user leaves it alone.
func (s *SessionService) FetchCurrent(ctx context.Context, cb SessionCallback) {
	s.users.Current(ctx, func(reply ports.AuthReply, err error) {
		if err != nil {
			s.log.WithError(err).Warn("current session not fetched")
			s.forward(cb, reply, err)
			return
		}

		switch {
		case !reply.Success:
			err = s.signedOut(ctx)
		case reply.Session == nil:
			err = missingUser("current user")
		default:
			err = s.signedIn(ctx, *reply.Session)
		}
		s.forward(cb, reply, err)
	})
}

func (s *SessionService) Login(ctx context.Context, creds domain.Credentials, cb SessionCallback) {
	if err := creds.Validate(); err != nil {
		s.forward(cb, ports.AuthReply{}, err)
		return
	}

	s.users.Login(ctx, creds, func(reply ports.AuthReply, err error) {
		if err == nil && reply.Success {
			err = s.start(ctx, "login", reply)
		}
		s.forward(cb, reply, err)
	})
}

func (s *SessionService) Register(ctx context.Context, profile domain.Profile, cb SessionCallback) {
	if err := profile.Validate(); err != nil {
		s.forward(cb, ports.AuthReply{}, err)
		return
	}

	s.users.Register(ctx, profile, func(reply ports.AuthReply, err error) {
		if err == nil && reply.Success {
			err = s.start(ctx, "register", reply)
		}
		s.forward(cb, reply, err)
	})
}

func (s *SessionService) Logout(ctx context.Context, cb SessionCallback) {
	s.users.Logout(ctx, func(reply ports.AuthReply, err error) {
		if err == nil && reply.Success {
			err = s.signedOut(ctx)
		}
		s.forward(cb, reply, err)
	})
}

func (s *SessionService) start(ctx context.Context, op string, reply ports.AuthReply) error {
	if reply.Session == nil {
		return missingUser(op)
	}
	return s.signedIn(ctx, *reply.Session)
}

func missingUser(op string) error {
	return domain.NewSemanticError(op, "response carries no user")
}

func (s *SessionService) signedIn(ctx context.Context, session domain.Session) error {
	if err := s.cache.SetCurrent(ctx, session); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}
	s.log.WithField("user_id", session.ID.String()).Info("session started")
	if s.notifier != nil {
		s.notifier.SessionChanged(&session)
	}
	return nil
}

func (s *SessionService) signedOut(ctx context.Context) error {
	_, had := s.cache.Current(ctx)
	if err := s.cache.UnsetCurrent(ctx); err != nil {
		return fmt.Errorf("clear cached session: %w", err)
	}
	if had {
		s.log.Info("session ended")
	}
	if s.notifier != nil {
		s.notifier.SessionChanged(nil)
	}
	return nil
}

func (s *SessionService) forward(cb SessionCallback, reply ports.AuthReply, err error) {
	if cb != nil {
		cb(reply, err)
	}
}

// ReplyErr turns a reply without the success flag into a semantic error so
// callers can treat every failure the same way.
func ReplyErr(op string, reply ports.AuthReply, err error) error {
	if err != nil {
		return err
	}
	if !reply.Success {
		return domain.NewSemanticError(op, reply.Error)
	}
	return nil
}
