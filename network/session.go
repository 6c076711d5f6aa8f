package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/flaparena/shared/messages"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type SessionState int

const (
	StateConnecting SessionState = iota
	StateOpen
	StateClosed
	StateErrored
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	}
	return fmt.Sprintf("SessionState(%d)", int(s))
}

func (s SessionState) Terminal() bool {
	return s == StateClosed || s == StateErrored
}

var (
	ErrNotOpen       = errors.New("lobby session not open")
	ErrSessionClosed = errors.New("lobby session closed")
)

type SessionConfig struct {
	Host  string
	Token string

	// ReadyOnOpen sends a ready action as soon as the connection opens.
	ReadyOnOpen bool
	InboxSize   int

	// Dial options passed to websocket.Dial, mainly for tests.
	DialOptions *websocket.DialOptions
}

// Session owns one lobby websocket. The read goroutine only decodes frames
// and hands envelopes to Inbox; the owner applies them on its own goroutine.
// All shared fields are protected by mu.
type Session struct {
	id  string
	cfg SessionConfig
	now func() time.Time

	mu        sync.Mutex
	state     SessionState
	lastError error
	conn      *websocket.Conn
	dialing   bool
	reading   bool

	ctx    context.Context
	cancel context.CancelFunc

	inbox     chan messages.Envelope
	inboxOnce sync.Once
	done      chan struct{}
	doneOnce  sync.Once
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		now:    time.Now,
		state:  StateConnecting,
		ctx:    ctx,
		cancel: cancel,
		inbox:  make(chan messages.Envelope, cfg.InboxSize),
		done:   make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) URL() string {
	return messages.LobbyURL(s.cfg.Host, s.cfg.Token)
}

// Connect dials the lobby. Closing the session while the dial is in flight
// cancels it. A failed dial leaves the session Errored; there is no retry.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.dialing || s.state == StateOpen {
		s.mu.Unlock()
		return fmt.Errorf("lobby session %s: connect called twice", s.id)
	}
	s.dialing = true
	s.mu.Unlock()

	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	log.Printf("[session %s] connecting to %s", s.short(), s.cfg.Host)
	conn, _, err := websocket.Dial(dialCtx, s.URL(), s.cfg.DialOptions)

	s.mu.Lock()
	s.dialing = false
	if s.state.Terminal() {
		s.mu.Unlock()
		if conn != nil {
			_ = conn.CloseNow()
		}
		return ErrSessionClosed
	}
	if err != nil {
		s.state = StateErrored
		s.lastError = err
		s.mu.Unlock()
		log.Printf("[session %s] connection failed: %v", s.short(), err)
		s.terminate()
		return fmt.Errorf("dial lobby: %w", err)
	}
	s.state = StateOpen
	s.conn = conn
	s.reading = true
	s.mu.Unlock()

	log.Printf("[session %s] connected", s.short())
	go s.readLoop(conn)

	if s.cfg.ReadyOnOpen {
		if err := s.SendReady(); err != nil {
			log.Printf("[session %s] initial ready failed: %v", s.short(), err)
		}
	}
	return nil
}

func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.closeInbox()
	for {
		typ, data, err := conn.Read(s.ctx)
		if err != nil {
			s.finish(err)
			return
		}
		if typ != websocket.MessageText {
			log.Printf("[session %s] skipping binary frame (%d bytes)", s.short(), len(data))
			continue
		}
		env, err := messages.DecodeEnvelope(data)
		if err != nil {
			log.Printf("[session %s] skipping frame: %v", s.short(), err)
			continue
		}
		select {
		case s.inbox <- env:
		case <-s.ctx.Done():
			return
		}
	}
}

// finish records why the connection ended. A normal close code means Closed,
// anything else Errored.
func (s *Session) finish(err error) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		s.state = StateClosed
		log.Printf("[session %s] closed by server", s.short())
	default:
		s.state = StateErrored
		s.lastError = err
		log.Printf("[session %s] connection lost: %v", s.short(), err)
	}
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}
	s.terminate()
}

// Close ends the session. It never fails and may be called any number of
// times, from any goroutine, in any state.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosed
	conn := s.conn
	s.conn = nil
	reading := s.reading
	s.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}
	if !reading {
		s.closeInbox()
	}
	s.terminate()
	log.Printf("[session %s] closed", s.short())
	return nil
}

func (s *Session) terminate() {
	s.cancel()
	s.mu.Lock()
	reading := s.reading
	s.mu.Unlock()
	if !reading {
		s.closeInbox()
	}
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Session) closeInbox() {
	s.inboxOnce.Do(func() { close(s.inbox) })
}

// Send writes one outbound action stamped with the current time.
func (s *Session) Send(action string) error {
	s.mu.Lock()
	state, conn := s.state, s.conn
	s.mu.Unlock()

	if state.Terminal() {
		return ErrSessionClosed
	}
	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}

	payload, err := messages.EncodeAction(action, s.now())
	if err != nil {
		return err
	}
	if err := conn.Write(s.ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("send %s: %w", action, err)
	}
	return nil
}

func (s *Session) SendReady() error { return s.Send(messages.ActionReady) }

func (s *Session) SendInfo() error { return s.Send(messages.ActionInfo) }

// Inbox delivers decoded envelopes in arrival order. It is closed once the
// session can deliver nothing more.
func (s *Session) Inbox() <-chan messages.Envelope { return s.inbox }

// Drain returns every envelope already waiting, without blocking.
func (s *Session) Drain() []messages.Envelope {
	var out []messages.Envelope
	for {
		select {
		case env, ok := <-s.inbox:
			if !ok {
				return out
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Done is closed when the session reaches Closed or Errored.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) short() string {
	if len(s.id) > 8 {
		return s.id[:8]
	}
	return s.id
}
