package systems

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/automoto/flaparena/server/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) (*core.Server, string) {
	t.Helper()
	s, err := core.NewServer(core.Options{Accounts: []core.AccountConfig{
		{Username: "alice", Password: "pw"},
	}})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Registry().Stop()
	})
	return s, strings.TrimPrefix(ts.URL, "http://")
}

func TestResolveLoginPrefersFlagToken(t *testing.T) {
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(&SavedSession{Host: "h:1", Username: "alice", AccessToken: "old"}))

	got := ResolveLogin(context.Background(), store, Credentials{Host: "h:1", Token: "given"})
	assert.Equal(t, Login{Token: "given", Username: "alice", Source: "flag"}, got)
}

func TestResolveLoginSavesRefreshCookie(t *testing.T) {
	s, host := newAuthServer(t)
	store := &MemoryTokenStore{}

	got := ResolveLogin(context.Background(), store, Credentials{Host: host, Username: "alice", Password: "pw"})
	require.Equal(t, "login", got.Source)
	require.NotEmpty(t, got.Token)
	_, ok := s.Registry().Validate(got.Token)
	assert.True(t, ok)

	saved, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, got.Token, saved.AccessToken)
	assert.NotEmpty(t, saved.RefreshToken)
}

func TestResolveLoginRefreshesInLaterRun(t *testing.T) {
	s, host := newAuthServer(t)
	store := &MemoryTokenStore{}
	first := ResolveLogin(context.Background(), store, Credentials{Host: host, Username: "alice", Password: "pw"})
	require.Equal(t, "login", first.Source)

	// A later run without credentials renews through the saved cookie.
	second := ResolveLogin(context.Background(), store, Credentials{Host: host})
	require.Equal(t, "refresh", second.Source)
	assert.Equal(t, "alice", second.Username)
	assert.NotEqual(t, first.Token, second.Token)
	_, ok := s.Registry().Validate(second.Token)
	assert.True(t, ok)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, second.Token, saved.AccessToken)
}

func TestResolveLoginFallsBackToSavedToken(t *testing.T) {
	_, host := newAuthServer(t)
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(&SavedSession{
		Host:         host,
		Username:     "alice",
		AccessToken:  "stale",
		RefreshToken: "bogus",
	}))

	got := ResolveLogin(context.Background(), store, Credentials{Host: host})
	assert.Equal(t, Login{Token: "stale", Username: "alice", Source: "saved"}, got)
}

func TestResolveLoginOffline(t *testing.T) {
	_, host := newAuthServer(t)
	store := &MemoryTokenStore{}
	require.NoError(t, store.Save(&SavedSession{Host: "elsewhere:1", AccessToken: "x"}))

	got := ResolveLogin(context.Background(), store, Credentials{Host: host, Username: "alice", Password: "wrong"})
	assert.Equal(t, Login{Username: "alice", Source: "offline"}, got)
}
