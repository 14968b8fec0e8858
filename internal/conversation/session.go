// Package conversation collects product records field by field over a chat.
// The Machine is a pure transition function over an explicit Session; the
// Driver keeps sessions between turns and serializes turns per chat.
package conversation

import (
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// State is the coarse position of a chat session.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingAuthCode State = "awaiting_auth_code"
	StateCollecting       State = "collecting"
)

// Session is the per-chat conversation state.
type Session struct {
	ChatID        string
	State         State
	Authenticated bool
	StaffCode     string
	StaffName     string
	StepIndex     int
	Bank          string
	Fields        map[models.FieldKey]string
}

// NewSession returns a fresh, unauthenticated session.
func NewSession(chatID string) Session {
	return Session{ChatID: chatID, State: StateIdle}
}

// Clone returns a copy that shares no mutable state with s.
func (s Session) Clone() Session {
	if s.Fields != nil {
		fields := make(map[models.FieldKey]string, len(s.Fields))
		for k, v := range s.Fields {
			fields[k] = v
		}
		s.Fields = fields
	}
	return s
}

// reset returns to Idle and discards collected fields. Authentication is
// kept.
func (s Session) reset() Session {
	s.State = StateIdle
	s.StepIndex = 0
	s.Bank = ""
	s.Fields = nil
	return s
}

// Attachment is a file sent with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Inbound is one message delivered by the chat transport. Command is set
// when the transport recognised a command; otherwise commands are parsed
// from Text.
type Inbound struct {
	ChatID     string
	Text       string
	Command    string
	Attachment *Attachment
}

// Reply is one outbound message. Options are suggested answers.
type Reply struct {
	ChatID  string
	Text    string
	Options []string
}

// RecordFromSession assembles the collected fields into a record with chat
// provenance. The bound staff code is recorded as the field staff.
func RecordFromSession(s Session) models.Record {
	rec := models.NewRecord(models.FromChat(s.ChatID))
	for k, v := range s.Fields {
		rec.Set(k, v)
	}
	if s.StaffCode != "" {
		rec.Set(models.FieldFieldStaff, s.StaffCode)
	}
	return rec
}
