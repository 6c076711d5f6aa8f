package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/automoto/flaparena/components"
	"github.com/automoto/flaparena/shared/messages"
)

var ErrUnknownUser = errors.New("unknown lobby user")

// ApplyEnvelope folds one server envelope into the roster. Decode failures
// are returned and leave the roster untouched.
func ApplyEnvelope(lobby *components.LobbyData, env messages.Envelope) error {
	switch env.Type {
	case messages.TypeGameState, messages.TypeLobbyState:
		users, err := messages.DecodeRoster(env)
		if err != nil {
			return err
		}
		ApplySnapshot(lobby, users)
	case messages.TypePlayerReady:
		id, err := messages.DecodePlayerReady(env)
		if err != nil {
			return err
		}
		if err := MarkReady(lobby, id); err != nil {
			log.Printf("[lobby] playerReady: %v", err)
		}
	case messages.TypePlayerAlreadyReady:
		log.Printf("[lobby] player already ready")
	default:
		return fmt.Errorf("%w %q", messages.ErrUnknownType, env.Type)
	}
	return nil
}

// ApplySnapshot replaces the roster with users. A repeated id keeps its first
// position and takes the values of its last occurrence.
func ApplySnapshot(lobby *components.LobbyData, users []messages.LobbyUser) {
	next := make(map[messages.UserID]*components.LobbyUser, len(users))
	order := make([]messages.UserID, 0, len(users))
	for _, u := range users {
		if _, seen := next[u.UserID]; !seen {
			order = append(order, u.UserID)
		}
		next[u.UserID] = &components.LobbyUser{
			ID:        u.UserID,
			Username:  u.Username,
			Connected: u.Connected,
			Ready:     u.Ready,
		}
	}
	lobby.Users = next
	lobby.Order = order
	lobby.Version++
}

// MarkReady sets one user's ready flag in place.
func MarkReady(lobby *components.LobbyData, id messages.UserID) error {
	u, ok := lobby.Users[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownUser, id)
	}
	if !u.Ready {
		u.Ready = true
		lobby.Version++
	}
	return nil
}

// MarkLocalReady is the optimistic update applied when the local player asks
// to be ready. The next snapshot overrides it.
func MarkLocalReady(lobby *components.LobbyData) bool {
	u := LocalUser(lobby)
	if u == nil {
		return false
	}
	if !u.Ready {
		u.Ready = true
		lobby.Version++
	}
	return true
}

// LocalUser resolves the local player by id, then by username.
func LocalUser(lobby *components.LobbyData) *components.LobbyUser {
	if lobby.LocalUserID != "" {
		if u, ok := lobby.Users[lobby.LocalUserID]; ok {
			return u
		}
	}
	if lobby.LocalUsername == "" {
		return nil
	}
	for _, id := range lobby.Order {
		if u := lobby.Users[id]; u != nil && u.Username == lobby.LocalUsername {
			return u
		}
	}
	return nil
}

// Users returns the roster in display order.
func Users(lobby *components.LobbyData) []components.LobbyUser {
	out := make([]components.LobbyUser, 0, len(lobby.Order))
	for _, id := range lobby.Order {
		if u, ok := lobby.Users[id]; ok {
			out = append(out, *u)
		}
	}
	return out
}

// AllReady reports whether the roster is non-empty and every connected user is
// ready.
func AllReady(lobby *components.LobbyData) bool {
	n := 0
	for _, u := range lobby.Users {
		if !u.Connected {
			continue
		}
		if !u.Ready {
			return false
		}
		n++
	}
	return n > 0
}
