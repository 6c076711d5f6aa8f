package core

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"sync"
	"time"
)

type tokenRecord struct {
	Account
	Expires time.Time
}

// Registry is an in-memory store of issued access and refresh tokens with
// TTL-based expiry.
type Registry struct {
	mu         sync.RWMutex
	access     map[string]*tokenRecord
	refresh    map[string]*tokenRecord
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRegistry(accessTTL, refreshTTL time.Duration) *Registry {
	r := &Registry{
		access:     make(map[string]*tokenRecord),
		refresh:    make(map[string]*tokenRecord),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Issue creates a fresh access token and refresh token for acct.
func (r *Registry) Issue(acct Account) (access, refresh string) {
	access, refresh = newToken(), newToken()
	now := r.now()

	r.mu.Lock()
	r.access[access] = &tokenRecord{Account: acct, Expires: now.Add(r.accessTTL)}
	r.refresh[refresh] = &tokenRecord{Account: acct, Expires: now.Add(r.refreshTTL)}
	r.mu.Unlock()

	return access, refresh
}

// Validate resolves an access token to its account.
func (r *Registry) Validate(access string) (Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.access[access]
	if !ok || !r.now().Before(rec.Expires) {
		return Account{}, false
	}
	return rec.Account, true
}

// Refresh issues a new access token for a live refresh token.
func (r *Registry) Refresh(refresh string) (Account, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	rec, ok := r.refresh[refresh]
	if !ok || !now.Before(rec.Expires) {
		return Account{}, "", false
	}
	access := newToken()
	r.access[access] = &tokenRecord{Account: rec.Account, Expires: now.Add(r.accessTTL)}
	return rec.Account, access, true
}

// Sweep drops expired tokens and reports how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for _, m := range []map[string]*tokenRecord{r.access, r.refresh} {
		for tok, rec := range m {
			if !now.Before(rec.Expires) {
				delete(m, tok)
				n++
			}
		}
	}
	return n
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("[lobbyd] expired %d tokens", n)
			}
		}
	}
}

func newToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
