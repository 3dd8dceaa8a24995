package daily

import (
	"sync"

	"github.com/example/vocabday/internal/storage"
)

// Manager hands out one Session per chat, all sharing a key/value backend
type Manager struct {
	kv  storage.KeyValue
	cfg Config

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates a manager whose sessions store their state in kv
func NewManager(kv storage.KeyValue, cfg Config) *Manager {
	return &Manager{
		kv:       kv,
		cfg:      cfg,
		sessions: make(map[int64]*Session),
	}
}

// For returns the session of chatID, creating it on first use
func (m *Manager) For(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s
	}
	cfg := m.cfg
	if cfg.Logger != nil {
		cfg.Logger = cfg.Logger.With("chat_id", chatID)
	}
	s := NewSession(storage.NewKVStore(m.kv, storage.UserNamespace(chatID)), cfg)
	m.sessions[chatID] = s
	return s
}
