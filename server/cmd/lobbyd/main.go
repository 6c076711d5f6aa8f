package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/flaparena/server/core"
)

func main() {
	addr := flag.String("addr", ":8000", "HTTP listen address")
	accountsFile := flag.String("accounts", "", "YAML accounts file (overrides -users)")
	users := flag.String("users", "player1:password,player2:password", "Comma separated name:password pairs")
	accessTTL := flag.Duration("access-ttl", 72*time.Hour, "Access token lifetime")
	refreshTTL := flag.Duration("refresh-ttl", 180*24*time.Hour, "Refresh token lifetime")
	flag.Parse()

	var (
		accounts []core.AccountConfig
		err      error
	)
	if *accountsFile != "" {
		accounts, err = core.LoadAccounts(*accountsFile)
	} else {
		accounts, err = core.ParseAccounts(*users)
	}
	if err != nil {
		log.Fatalf("[lobbyd] %v", err)
	}

	server, err := core.NewServer(core.Options{
		Accounts:   accounts,
		AccessTTL:  *accessTTL,
		RefreshTTL: *refreshTTL,
	})
	if err != nil {
		log.Fatalf("[lobbyd] %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[lobbyd] shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("[lobbyd] shutdown: %v", err)
		}
	}()

	if err := server.ListenAndServe(*addr); err != nil {
		log.Fatalf("[lobbyd] fatal: %v", err)
	}
}
