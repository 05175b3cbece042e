package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain"
	domsearch "github.com/Arshu45/Backend-Retail-GenAI-Cyb-v1/internal/domain/search"
)

// Turn is one recorded exchange in a conversation.
type Turn struct {
	Query    string              `json:"query"`
	Products []domsearch.Product `json:"products"`
}

// session is the in-memory state for one conversation. seen tracks product
// IDs already surfaced so repeated searches don't show duplicates.
type session struct {
	turns []Turn
	seen  map[string]struct{}
}

// Manager owns ephemeral conversation sessions: a bounded history window per
// session and cross-turn product deduplication by id. State is in-process
// only; sessions vanish on restart.
type Manager struct {
	mu       sync.RWMutex
	window   int
	sessions map[string]*session
}

// NewManager creates a session manager. window bounds the retained turns per
// session; values <= 0 fall back to 5.
func NewManager(window int) *Manager {
	if window <= 0 {
		window = 5
	}
	return &Manager{
		window:   window,
		sessions: make(map[string]*session),
	}
}

// Create registers a new session and returns its id.
func (m *Manager) Create() string {
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &session{seen: make(map[string]struct{})}
	return id
}

// List returns all active session ids, sorted for stable output.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// History returns the retained turns for a session, oldest first.
func (m *Manager) History(id string) ([]Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out, nil
}

// Record appends a turn to a session and returns the products not yet shown
// in this session, in input order. Sessions are created implicitly on first
// record so callers may use their own ids.
func (m *Manager) Record(id, query string, products []domsearch.Product) []domsearch.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = &session{seen: make(map[string]struct{})}
		m.sessions[id] = s
	}

	fresh := make([]domsearch.Product, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, dup := s.seen[p.ID]; dup {
			continue
		}
		s.seen[p.ID] = struct{}{}
		fresh = append(fresh, p)
	}

	s.turns = append(s.turns, Turn{Query: query, Products: fresh})
	if len(s.turns) > m.window {
		s.turns = s.turns[len(s.turns)-m.window:]
	}

	return fresh
}

// Reset removes a session entirely.
func (m *Manager) Reset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}
