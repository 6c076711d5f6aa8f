package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/automoto/flaparena/shared/messages"
)

// ErrUnauthenticated means the lobby server refused the credentials or the
// refresh cookie. Callers treat it as recoverable.
var ErrUnauthenticated = errors.New("unauthenticated")

// RefreshCookieName is the cookie the lobby server sets on login and reads
// on refresh.
const RefreshCookieName = "refresh_token"

// AuthClient talks to the lobby server's HTTP login endpoints. The refresh
// cookie set by login is kept in an in-memory jar; RefreshCookie and
// SetRefreshCookie move it in and out of persistent storage.
type AuthClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewAuthClient(baseURL string) (*AuthClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &AuthClient{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// Login posts credentials to /api/login and returns the access token.
func (a *AuthClient) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(messages.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode login: %w", err)
	}
	token, err := a.post(ctx, "/api/login", body)
	if err != nil {
		return "", fmt.Errorf("login %s: %w", username, err)
	}
	log.Printf("[auth] logged in as %s", username)
	return token, nil
}

// Refresh exchanges the refresh cookie for a new access token.
func (a *AuthClient) Refresh(ctx context.Context) (string, error) {
	token, err := a.post(ctx, "/refresh/token", nil)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	log.Printf("[auth] access token refreshed")
	return token, nil
}

// RefreshCookie returns the refresh cookie value held for the server, or ""
// before a successful login.
func (a *AuthClient) RefreshCookie() string {
	u, err := url.Parse(a.baseURL + "/refresh/token")
	if err != nil {
		return ""
	}
	for _, c := range a.http.Jar.Cookies(u) {
		if c.Name == RefreshCookieName {
			return c.Value
		}
	}
	return ""
}

// SetRefreshCookie loads a previously saved refresh cookie into the jar.
func (a *AuthClient) SetRefreshCookie(value string) error {
	u, err := url.Parse(a.baseURL + "/")
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	a.http.Jar.SetCookies(u, []*http.Cookie{{
		Name:  RefreshCookieName,
		Value: value,
		Path:  "/",
	}})
	return nil
}

func (a *AuthClient) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthClient) post(ctx context.Context, path string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out messages.APIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: status %d", ErrUnauthenticated, resp.StatusCode)
		}
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !out.Success || out.Data == nil || out.Data.AccessToken == "" {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
	}

	a.mu.Lock()
	a.token = out.Data.AccessToken
	a.mu.Unlock()
	return out.Data.AccessToken, nil
}
