// Package messages defines the JSON wire protocol spoken between lobby
// clients and the lobby server. It must stay free of ebiten and donburi so the
// dedicated server binary stays headless.
package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Outbound actions (client -> server).
const (
	ActionReady = "ready"
	ActionInfo  = "info"
)

// Inbound envelope types (server -> client).
const (
	TypeGameState          = "gameState"
	TypeLobbyState         = "lobbyState"
	TypePlayerReady        = "playerReady"
	TypePlayerAlreadyReady = "playerAlreadyReady"
)

// Action is the outbound envelope.
type Action struct {
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Envelope is the inbound wrapper for every server message. Data is decoded
// lazily once the type is known.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// IsSnapshot reports whether the envelope carries a full roster.
func (e Envelope) IsSnapshot() bool {
	return e.Type == TypeGameState || e.Type == TypeLobbyState
}

// Known reports whether the envelope type is part of the protocol.
func (e Envelope) Known() bool {
	switch e.Type {
	case TypeGameState, TypeLobbyState, TypePlayerReady, TypePlayerAlreadyReady:
		return true
	}
	return false
}

// UserID identifies a lobby participant. On the wire it may be a JSON string
// or a JSON number; both decode to the same textual id.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("userID: missing value")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("userID: %w", err)
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("userID: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = UserID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = UserID(n.String())
	return nil
}

// LobbyUser is one roster entry as sent in snapshot payloads.
type LobbyUser struct {
	UserID    UserID `json:"userID"`
	Username  string `json:"username"`
	Connected bool   `json:"connected"`
	Ready     bool   `json:"ready"`
}

// PlayerReady is the payload of a playerReady envelope.
type PlayerReady struct {
	UserID UserID `json:"userID"`
}

// LobbyURL builds the websocket target for a lobby host and bearer token.
func LobbyURL(host, token string) string {
	u := url.URL{
		Scheme:  "ws",
		Host:    host,
		Path:    "/ws/" + token,
		RawPath: "/ws/" + url.PathEscape(token),
	}
	return u.String()
}
