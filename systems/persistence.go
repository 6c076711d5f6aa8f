package systems

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/quasilyte/gdata"
)

const sessionItem = "session"

// SavedSession is the login state kept between runs.
type SavedSession struct {
	Host        string `json:"host"`
	Username    string `json:"username"`
	UserID      string `json:"userID,omitempty"`
	AccessToken string `json:"accessToken"`

	// RefreshToken is the server's refresh cookie, kept so a later run can
	// renew the access token without credentials.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// TokenStore persists the saved session. Load returns (nil, nil) when nothing
// was stored yet.
type TokenStore interface {
	Load() (*SavedSession, error)
	Save(s *SavedSession) error
	Clear() error
}

// GdataTokenStore keeps the session in the per-user gdata directory.
type GdataTokenStore struct {
	m *gdata.Manager
}

func NewGdataTokenStore(appName string) (*GdataTokenStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return &GdataTokenStore{m: m}, nil
}

func (s *GdataTokenStore) Load() (*SavedSession, error) {
	data, err := s.m.LoadItem(sessionItem)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var saved SavedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("Warning: Could not parse saved session: %v", err)
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &saved, nil
}

func (s *GdataTokenStore) Save(saved *SavedSession) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.m.SaveItem(sessionItem, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *GdataTokenStore) Clear() error {
	if err := s.m.SaveItem(sessionItem, nil); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MemoryTokenStore is used when gdata is unavailable and in tests.
type MemoryTokenStore struct {
	mu    sync.Mutex
	saved *SavedSession
}

func (s *MemoryTokenStore) Load() (*SavedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return nil, nil
	}
	cp := *s.saved
	return &cp, nil
}

func (s *MemoryTokenStore) Save(saved *SavedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *saved
	s.saved = &cp
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = nil
	return nil
}

// OpenTokenStore prefers gdata and falls back to memory.
func OpenTokenStore(appName string) TokenStore {
	s, err := NewGdataTokenStore(appName)
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return &MemoryTokenStore{}
	}
	return s
}
