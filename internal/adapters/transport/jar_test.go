package transport

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/bnema/fin/internal/adapters/storage/memory"
	"github.com/bnema/fin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentJarSurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	origin, err := url.Parse("http://api.local:8000/user/login")
	require.NoError(t, err)

	jar, err := NewPersistentJar(ctx, store, "", "http://api.local:8000", nil)
	require.NoError(t, err)
	jar.SetCookies(origin, []*http.Cookie{{Name: "sid", Value: "abc", Path: "/"}})

	raw, err := store.Get(ctx, DefaultCookieKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"sid","value":"abc"}]`, raw)

	restarted, err := NewPersistentJar(ctx, store, "", "http://api.local:8000", nil)
	require.NoError(t, err)
	cookies := restarted.Cookies(origin)
	require.Len(t, cookies, 1)
	assert.Equal(t, "abc", cookies[0].Value)
}

func TestPersistentJarDropsStoredCookiesWhenServerExpiresThem(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	origin, err := url.Parse("http://api.local:8000/")
	require.NoError(t, err)

	jar, err := NewPersistentJar(ctx, store, "", "http://api.local:8000", nil)
	require.NoError(t, err)
	jar.SetCookies(origin, []*http.Cookie{{Name: "sid", Value: "abc", Path: "/"}})
	jar.SetCookies(origin, []*http.Cookie{{Name: "sid", Value: "", Path: "/", MaxAge: -1}})

	_, err = store.Get(ctx, DefaultCookieKey)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestPersistentJarIgnoresCorruptValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Put(ctx, DefaultCookieKey, "not json"))

	jar, err := NewPersistentJar(ctx, store, "", "http://api.local:8000", nil)
	require.NoError(t, err)

	origin, _ := url.Parse("http://api.local:8000/")
	assert.Empty(t, jar.Cookies(origin))
}

func TestNewPersistentJarRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewPersistentJar(context.Background(), memory.NewStore(), "", "localhost", nil)
	require.ErrorIs(t, err, ErrMalformedURL)
}
