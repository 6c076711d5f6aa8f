package main

import (
	"context"
	"log"
	"time"

	"github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/network"
	"github.com/automoto/flaparena/systems"
)

const appName = "flaparena"

// bootstrap resolves an access token and builds the lobby session for it.
// Without a token the client runs offline and the returned session is nil.
func bootstrap(o options) (*network.Session, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	login := systems.ResolveLogin(ctx, systems.OpenTokenStore(appName), systems.Credentials{
		Host:     config.Lobby.Host,
		Username: o.username,
		Password: o.password,
		Token:    o.token,
	})
	if login.Token == "" {
		return nil, login.Username
	}
	if login.Username == "" {
		log.Printf("[auth] no username known for this token; ready is only shown once the server confirms it")
	}
	log.Printf("[auth] using %s token for %s", login.Source, config.Lobby.Host)

	session := network.NewSession(network.SessionConfig{
		Host:        config.Lobby.Host,
		Token:       login.Token,
		ReadyOnOpen: config.Lobby.ReadyOnOpen,
		InboxSize:   config.Lobby.InboxSize,
	})
	return session, login.Username
}
