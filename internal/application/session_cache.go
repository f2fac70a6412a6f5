package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/ports"
	"github.com/sirupsen/logrus"
)

const DefaultSessionKey = "session/current"

// SessionCache holds at most one session, serialized as JSON under a
// single store key.
type SessionCache struct {
	store ports.KeyValueStore
	key   string
	log   logrus.FieldLogger
}

func NewSessionCache(store ports.KeyValueStore, key string, logger logrus.FieldLogger) *SessionCache {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionCache{store: store, key: key, log: logging.Component(logger, "session")}
}

func (c *SessionCache) SetCurrent(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.store.Put(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (c *SessionCache) UnsetCurrent(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current reports the cached session. A missing, unreadable or corrupt
// entry all read as "no session"; only the last two are logged.
func (c *SessionCache) Current(ctx context.Context) (domain.Session, bool) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			c.log.WithError(err).Warn("session not readable")
		}
		return domain.Session{}, false
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		c.log.WithError(err).Error("cached session is corrupt")
		return domain.Session{}, false
	}
	return session, true
}
