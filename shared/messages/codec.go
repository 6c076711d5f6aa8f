package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyFrame  = errors.New("empty frame")
	ErrUnknownType = errors.New("unknown envelope type")
)

// EncodeAction serialises an outbound action stamped with t.
func EncodeAction(action string, t time.Time) ([]byte, error) {
	if action == "" {
		return nil, fmt.Errorf("encode action: empty action")
	}
	return json.Marshal(Action{Action: action, Timestamp: t.UnixMilli()})
}

// DecodeAction parses an outbound action frame (server side).
func DecodeAction(b []byte) (Action, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Action{}, ErrEmptyFrame
	}
	var a Action
	if err := json.Unmarshal(b, &a); err != nil {
		return Action{}, fmt.Errorf("decode action: %w", err)
	}
	if a.Action == "" {
		return Action{}, fmt.Errorf("decode action: missing action field")
	}
	return a, nil
}

// EncodeEnvelope wraps payload in a typed envelope (server side).
func EncodeEnvelope(typ string, payload any) ([]byte, error) {
	if typ == "" {
		return nil, fmt.Errorf("encode envelope: empty type")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Data: data})
}

// DecodeEnvelope parses one inbound frame. Unknown types are returned together
// with ErrUnknownType so callers can log them.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type field")
	}
	if !e.Known() {
		return e, fmt.Errorf("%w %q", ErrUnknownType, e.Type)
	}
	return e, nil
}

// DecodeRoster parses the payload of a snapshot envelope.
func DecodeRoster(e Envelope) ([]LobbyUser, error) {
	if !e.IsSnapshot() {
		return nil, fmt.Errorf("decode roster: envelope type %q is not a snapshot", e.Type)
	}
	var users []LobbyUser
	if err := json.Unmarshal(e.Data, &users); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if users == nil {
		users = []LobbyUser{}
	}
	return users, nil
}

// DecodePlayerReady extracts the user id of a playerReady envelope. The
// payload may be {"userID": id} or a bare id.
func DecodePlayerReady(e Envelope) (UserID, error) {
	data := bytes.TrimSpace(e.Data)
	if len(data) == 0 {
		return "", fmt.Errorf("decode %s: empty payload", e.Type)
	}
	if data[0] == '{' {
		var p PlayerReady
		if err := json.Unmarshal(data, &p); err != nil {
			return "", fmt.Errorf("decode %s: %w", e.Type, err)
		}
		if p.UserID == "" {
			return "", fmt.Errorf("decode %s: missing userID", e.Type)
		}
		return p.UserID, nil
	}
	var id UserID
	if err := json.Unmarshal(data, &id); err != nil {
		return "", fmt.Errorf("decode %s: %w", e.Type, err)
	}
	return id, nil
}
