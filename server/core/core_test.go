package core

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/automoto/flaparena/shared/messages"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := NewServer(Options{Accounts: []AccountConfig{
		{Username: "alice", Password: "pw1"},
		{Username: "bob", Password: "pw2"},
	}})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.registry.Stop()
	})
	return s, ts
}

func postLogin(t *testing.T, base, user, pass string) (*http.Response, messages.APIResponse) {
	t.Helper()
	body, _ := json.Marshal(messages.LoginRequest{Username: user, Password: pass})
	resp, err := http.Post(base+"/api/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out messages.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func dialLobby(t *testing.T, ts *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := messages.LobbyURL(strings.TrimPrefix(ts.URL, "http://"), token)
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

// readUntil returns the first envelope of type typ, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) messages.Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		env, err := messages.DecodeEnvelope(data)
		require.NoError(t, err)
		if env.Type == typ {
			return env
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, action string) {
	t.Helper()
	b, err := messages.EncodeAction(action, time.Now())
	require.NoError(t, err)
	require.NoError(t, conn.Write(context.Background(), websocket.MessageText, b))
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(time.Minute, time.Hour)
	defer r.Stop()
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	acct := Account{UserID: "1", Username: "alice"}
	access, refresh := r.Issue(acct)
	assert.NotEqual(t, access, refresh)

	got, ok := r.Validate(access)
	require.True(t, ok)
	assert.Equal(t, acct, got)

	now = now.Add(2 * time.Minute)
	_, ok = r.Validate(access)
	assert.False(t, ok, "access token expired")

	_, fresh, ok := r.Refresh(refresh)
	require.True(t, ok)
	_, ok = r.Validate(fresh)
	assert.True(t, ok)

	assert.Equal(t, 1, r.Sweep())
	now = now.Add(2 * time.Hour)
	_, _, ok = r.Refresh(refresh)
	assert.False(t, ok)
	assert.Equal(t, 2, r.Sweep())

	r.Stop()
}

func TestAccounts(t *testing.T) {
	list, err := ParseAccounts(" alice:pw1, bob:pw2 ,")
	require.NoError(t, err)
	a, err := NewAccounts(list)
	require.NoError(t, err)

	acct, ok := a.Authenticate("bob", "pw2")
	require.True(t, ok)
	assert.Equal(t, Account{UserID: "2", Username: "bob"}, acct)

	_, ok = a.Authenticate("bob", "pw1")
	assert.False(t, ok)
	_, ok = a.Authenticate("carol", "")
	assert.False(t, ok)

	_, err = ParseAccounts("nopassword")
	assert.Error(t, err)
	_, err = NewAccounts([]AccountConfig{{Username: "a"}, {Username: "a"}})
	assert.Error(t, err)
}

func TestLoadAccountsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - username: alice\n    password: pw\n"), 0o600))

	list, err := LoadAccounts(path)
	require.NoError(t, err)
	assert.Equal(t, []AccountConfig{{Username: "alice", Password: "pw"}}, list)
}

func TestLoginAndRefresh(t *testing.T) {
	_, ts := newTestServer(t)

	resp, out := postLogin(t, ts.URL, "alice", "pw1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, out.Success)
	require.NotNil(t, out.Data)
	assert.NotEmpty(t, out.Data.AccessToken)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == refreshCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/refresh/token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: cookie.Value})
	rresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rresp.Body.Close()
	var refreshed messages.APIResponse
	require.NoError(t, json.NewDecoder(rresp.Body).Decode(&refreshed))
	require.True(t, refreshed.Success)
	assert.NotEqual(t, out.Data.AccessToken, refreshed.Data.AccessToken)
}

func TestLoginFailures(t *testing.T) {
	_, ts := newTestServer(t)

	resp, out := postLogin(t, ts.URL, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Message)

	bad, err := http.Post(ts.URL+"/api/login", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	noCookie, err := http.Post(ts.URL+"/refresh/token", "application/json", nil)
	require.NoError(t, err)
	noCookie.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, noCookie.StatusCode)
}

func TestLobbySocketRejectsUnknownToken(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, messages.LobbyURL(strings.TrimPrefix(ts.URL, "http://"), "nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLobbyHubFlow(t *testing.T) {
	s, ts := newTestServer(t)
	_, a := postLogin(t, ts.URL, "alice", "pw1")
	_, b := postLogin(t, ts.URL, "bob", "pw2")

	alice := dialLobby(t, ts, a.Data.AccessToken)
	env := readUntil(t, alice, messages.TypeLobbyState)
	roster, err := messages.DecodeRoster(env)
	require.NoError(t, err)
	assert.Equal(t, []messages.LobbyUser{{UserID: "1", Username: "alice", Connected: true}}, roster)

	bob := dialLobby(t, ts, b.Data.AccessToken)
	readUntil(t, bob, messages.TypeLobbyState)
	require.Eventually(t, func() bool { return s.Hub().Clients() == 2 }, 5*time.Second, 10*time.Millisecond)

	send(t, alice, messages.ActionReady)
	for _, conn := range []*websocket.Conn{alice, bob} {
		id, err := messages.DecodePlayerReady(readUntil(t, conn, messages.TypePlayerReady))
		require.NoError(t, err)
		assert.Equal(t, messages.UserID("1"), id)
	}

	send(t, alice, messages.ActionReady)
	readUntil(t, alice, messages.TypePlayerAlreadyReady)

	send(t, bob, messages.ActionInfo)
	roster, err = messages.DecodeRoster(readUntil(t, bob, messages.TypeLobbyState))
	require.NoError(t, err)
	assert.Equal(t, []messages.LobbyUser{
		{UserID: "1", Username: "alice", Connected: true, Ready: true},
		{UserID: "2", Username: "bob", Connected: true},
	}, roster)

	require.NoError(t, alice.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool {
		r := s.Hub().Roster()
		return len(r) == 2 && !r[0].Connected && !r[0].Ready
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var out healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out.Status)
}

func TestSlowClientDropUpdatesRoster(t *testing.T) {
	h := NewHub()
	alice := newClient(Account{UserID: "1", Username: "alice"}, nil)
	bob := newClient(Account{UserID: "2", Username: "bob"}, nil)
	h.join(alice)
	h.join(bob)
	h.handle(alice, messages.Action{Action: messages.ActionReady})

	// Nobody drains alice, so her buffer overflows.
	for i := 0; i < sendBuffer+5; i++ {
		h.handle(alice, messages.Action{Action: messages.ActionInfo})
	}

	assert.Equal(t, 1, h.Clients())
	assert.Equal(t, []messages.LobbyUser{
		{UserID: "1", Username: "alice", Connected: false, Ready: false},
		{UserID: "2", Username: "bob", Connected: true},
	}, h.Roster())

	var last messages.Envelope
	for len(bob.send) > 0 {
		env, err := messages.DecodeEnvelope(<-bob.send)
		require.NoError(t, err)
		last = env
	}
	require.Equal(t, messages.TypeLobbyState, last.Type, "bob hears about the drop")
	roster, err := messages.DecodeRoster(last)
	require.NoError(t, err)
	assert.False(t, roster[0].Connected)

	h.leave(alice)
	assert.Equal(t, 1, h.Clients())
	assert.False(t, h.Roster()[0].Connected)
}
