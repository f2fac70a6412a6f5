package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/bnema/fin/internal/domain"
	"github.com/bnema/fin/internal/logging"
	"github.com/bnema/fin/internal/ports"
	"github.com/sirupsen/logrus"
)

const DefaultCookieKey = "session/cookies"

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar keeps the API origin's cookies in a key-value store so
// separate CLI runs share one server session.
type PersistentJar struct {
	inner  *cookiejar.Jar
	store  ports.KeyValueStore
	key    string
	origin *url.URL
	log    logrus.FieldLogger
	mu     sync.Mutex
}

var _ http.CookieJar = (*PersistentJar)(nil)

func NewPersistentJar(ctx context.Context, store ports.KeyValueStore, key string, baseURL string, logger logrus.FieldLogger) (*PersistentJar, error) {
	if key == "" {
		key = DefaultCookieKey
	}
	origin, err := url.Parse(baseURL)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("%w %q", ErrMalformedURL, baseURL)
	}
	origin = &url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"}

	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	jar := &PersistentJar{
		inner:  inner,
		store:  store,
		key:    key,
		origin: origin,
		log:    logging.Component(logger, "cookies"),
	}
	if err := jar.load(ctx); err != nil {
		return nil, err
	}
	return jar, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if u.Host != j.origin.Host {
		return
	}
	if err := j.save(context.Background()); err != nil {
		j.log.WithError(err).Warn("cookies not persisted")
	}
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

func (j *PersistentJar) load(ctx context.Context) error {
	raw, err := j.store.Get(ctx, j.key)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("load cookies: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		j.log.WithError(err).Warn("discarding unreadable cookies")
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	j.inner.SetCookies(j.origin, cookies)
	return nil
}

func (j *PersistentJar) save(ctx context.Context) error {
	current := j.inner.Cookies(j.origin)
	if len(current) == 0 {
		return j.store.Delete(ctx, j.key)
	}

	stored := make([]storedCookie, 0, len(current))
	for _, c := range current {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	return j.store.Put(ctx, j.key, string(data))
}
