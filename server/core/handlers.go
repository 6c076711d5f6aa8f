package core

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/automoto/flaparena/shared/messages"
	"github.com/coder/websocket"
)

const (
	maxRequestBody    = 1 << 16 // 64 KB
	refreshCookieName = "refresh_token"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[lobbyd] encode response: %v", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messages.APIResponse{Success: false, Message: msg})
}

func Login(accounts *Accounts, reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req messages.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid request.")
			return
		}

		acct, ok := accounts.Authenticate(req.Username, req.Password)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "Invalid username or password.")
			return
		}

		access, refresh := reg.Issue(acct)
		http.SetCookie(w, &http.Cookie{
			Name:     refreshCookieName,
			Value:    refresh,
			Path:     "/",
			Expires:  time.Now().Add(reg.refreshTTL),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
		log.Printf("[lobbyd] login %s (id=%s)", acct.Username, acct.UserID)
		writeJSON(w, http.StatusOK, messages.APIResponse{
			Success: true,
			Data:    &messages.TokenData{AccessToken: access},
		})
	}
}

func RefreshToken(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			writeFailure(w, http.StatusUnauthorized, "Missing refresh token.")
			return
		}
		acct, access, ok := reg.Refresh(cookie.Value)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "Invalid or expired refresh token.")
			return
		}
		log.Printf("[lobbyd] refreshed token for %s", acct.Username)
		writeJSON(w, http.StatusOK, messages.APIResponse{
			Success: true,
			Data:    &messages.TokenData{AccessToken: access},
		})
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
}

func Health(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Clients: hub.Clients()})
	}
}

// LobbySocket upgrades /ws/{token} to a lobby connection.
func LobbySocket(reg *Registry, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, ok := reg.Validate(r.PathValue("token"))
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "Error validating token.")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			log.Printf("[lobbyd] upgrade error: %v", err)
			return
		}
		defer conn.CloseNow()

		c := newClient(acct, conn)
		hub.join(c)
		defer hub.leave(c)

		ctx := r.Context()
		go c.writePump(ctx)
		c.readPump(ctx, hub)
	}
}
