package factory

import (
	"github.com/automoto/flaparena/archetypes"
	"github.com/automoto/flaparena/components"
	"github.com/automoto/flaparena/shared/messages"
	"github.com/yohamta/donburi"
)

func CreateLobby(w donburi.World, localID messages.UserID, localUsername string) *donburi.Entry {
	lobby := archetypes.Lobby.Spawn(w)
	components.Lobby.SetValue(lobby, components.LobbyData{
		Users:         map[messages.UserID]*components.LobbyUser{},
		LocalUserID:   localID,
		LocalUsername: localUsername,
	})
	return lobby
}
