package systems

import (
	"context"
	"errors"
	"log"

	"github.com/automoto/flaparena/network"
)

// Credentials are the login inputs given on the command line.
type Credentials struct {
	Host     string
	Username string
	Password string
	Token    string
}

// Login is the outcome of ResolveLogin. An empty Token means offline.
type Login struct {
	Token    string
	Username string
	Source   string // "flag", "login", "refresh", "saved" or "offline"
}

// ResolveLogin finds an access token for creds.Host, in order: the token
// flag, a fresh login, the saved refresh cookie, the saved access token.
// Successful logins and refreshes are written back to store. Failures are
// logged and fall through to the next source; the result is never an error.
func ResolveLogin(ctx context.Context, store TokenStore, creds Credentials) Login {
	saved, err := store.Load()
	if err != nil {
		log.Printf("Warning: Could not load saved session: %v", err)
	}
	if saved != nil && saved.Host != creds.Host {
		saved = nil
	}

	username := creds.Username
	if username == "" && saved != nil {
		username = saved.Username
	}

	if creds.Token != "" {
		return Login{Token: creds.Token, Username: username, Source: "flag"}
	}

	auth, err := network.NewAuthClient("http://" + creds.Host)
	if err != nil {
		log.Printf("[auth] %v", err)
		return Login{Username: username, Source: "offline"}
	}

	if creds.Username != "" && creds.Password != "" {
		token, err := auth.Login(ctx, creds.Username, creds.Password)
		if err == nil {
			saveSession(store, &SavedSession{
				Host:         creds.Host,
				Username:     creds.Username,
				AccessToken:  token,
				RefreshToken: auth.RefreshCookie(),
			})
			return Login{Token: token, Username: creds.Username, Source: "login"}
		}
		logAuthFailure("login", err)
	}

	if saved == nil {
		log.Printf("[auth] no saved session for %s, running offline", creds.Host)
		return Login{Username: username, Source: "offline"}
	}

	if saved.RefreshToken != "" {
		if err := auth.SetRefreshCookie(saved.RefreshToken); err != nil {
			log.Printf("[auth] %v", err)
		} else if token, err := auth.Refresh(ctx); err == nil {
			updated := *saved
			updated.AccessToken = token
			saveSession(store, &updated)
			return Login{Token: token, Username: username, Source: "refresh"}
		} else {
			logAuthFailure("refresh", err)
		}
	}

	if saved.AccessToken != "" {
		return Login{Token: saved.AccessToken, Username: username, Source: "saved"}
	}
	log.Printf("[auth] no usable token for %s, running offline", creds.Host)
	return Login{Username: username, Source: "offline"}
}

func saveSession(store TokenStore, s *SavedSession) {
	if err := store.Save(s); err != nil {
		log.Printf("Warning: Could not save session: %v", err)
	}
}

func logAuthFailure(step string, err error) {
	if errors.Is(err, network.ErrUnauthenticated) {
		log.Printf("[auth] %s refused: %v", step, err)
		return
	}
	log.Printf("[auth] %s: %v", step, err)
}
