package components

import (
	"github.com/automoto/flaparena/shared/messages"
	"github.com/yohamta/donburi"
)

type LobbyUser struct {
	ID        messages.UserID
	Username  string
	Connected bool
	Ready     bool
}

// LobbyData is the locally held roster. Order keeps the ids in the order the
// server last listed them.
type LobbyData struct {
	Users map[messages.UserID]*LobbyUser
	Order []messages.UserID

	LocalUserID   messages.UserID
	LocalUsername string

	// Version increments on every roster change so views can skip redraws.
	Version uint64
}

var Lobby = donburi.NewComponentType[LobbyData]()
