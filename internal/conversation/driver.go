package conversation

import (
	"context"
	"sync"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
)

// SessionStore keeps sessions between turns.
type SessionStore interface {
	Load(ctx context.Context, chatID string) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, chatID string) error
}

// MemorySessionStore is an in-process SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session)}
}

// Load returns a copy of the stored session.
func (m *MemorySessionStore) Load(_ context.Context, chatID string) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s.Clone(), ok, nil
}

// Save stores a copy of s.
func (m *MemorySessionStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ChatID] = s.Clone()
	return nil
}

// Delete forgets a chat.
func (m *MemorySessionStore) Delete(_ context.Context, chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Driver runs the Machine for inbound messages. Turns of one chat are
// serialized; different chats proceed in parallel.
type Driver struct {
	machine *Machine
	store   SessionStore
	logger  logging.Logger

	mu    sync.Mutex
	locks map[string]*chatLock
}

// chatLock serializes one chat. refs counts the dispatches holding or
// waiting for it; the entry is dropped when refs reaches zero.
type chatLock struct {
	sync.Mutex
	refs int
}

// NewDriver creates a Driver. A nil store uses a MemorySessionStore.
func NewDriver(machine *Machine, store SessionStore, logger logging.Logger) *Driver {
	if store == nil {
		store = NewMemorySessionStore()
	}
	return &Driver{
		machine: machine,
		store:   store,
		logger:  logging.OrDefault(logger),
		locks:   make(map[string]*chatLock),
	}
}

func (d *Driver) acquire(chatID string) *chatLock {
	d.mu.Lock()
	l, ok := d.locks[chatID]
	if !ok {
		l = &chatLock{}
		d.locks[chatID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.Lock()
	return l
}

func (d *Driver) release(chatID string, l *chatLock) {
	l.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(d.locks, chatID)
	}
}

// ActiveChats returns the number of chats with a dispatch in progress.
func (d *Driver) ActiveChats() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.locks)
}

// Dispatch handles one inbound message and returns the replies to send.
func (d *Driver) Dispatch(ctx context.Context, in Inbound) ([]Reply, error) {
	l := d.acquire(in.ChatID)
	defer d.release(in.ChatID, l)

	s, ok, err := d.store.Load(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s = NewSession(in.ChatID)
	}

	next, replies := d.machine.Handle(ctx, s, in)
	if err := d.store.Save(ctx, next); err != nil {
		d.logger.WithError(err).Error("Failed to save session",
			logging.F(logging.FieldChatID, in.ChatID))
		return replies, err
	}
	return replies, nil
}

// Session returns the stored session of a chat.
func (d *Driver) Session(ctx context.Context, chatID string) (Session, bool, error) {
	return d.store.Load(ctx, chatID)
}
