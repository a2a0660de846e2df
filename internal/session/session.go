// Package session holds per-visitor state. Catalog filters, the cart,
// the order flow, the current view and the chat log are all session-local;
// nothing is shared across sessions and nothing survives the process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"autopart/internal/cart"
	"autopart/internal/catalog"
	"autopart/internal/order"
	"autopart/models"
)

const chatGreeting = "Hello! I am your AutoPart AI assistant. How can I help you today?"

// Session is one visitor's state. Callers must hold Lock while reading or
// writing the mutable fields; the order flow carries its own lock so a
// settlement in progress does not block the rest of the session.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	Criteria models.FilterCriteria
	Cart     *cart.Ledger
	Flow     *order.Flow
	View     models.View
	Chat     []models.ChatMessage
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Registry tracks live sessions by ID.
type Registry struct {
	mu              sync.RWMutex
	sessions        map[string]*Session
	settlementDelay time.Duration
}

func NewRegistry(settlementDelay time.Duration) *Registry {
	return &Registry{
		sessions:        make(map[string]*Session),
		settlementDelay: settlementDelay,
	}
}

// Create starts a fresh session: unconstrained filters, empty cart, idle
// order flow, catalog view, and the assistant's greeting in the chat log.
func (r *Registry) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Criteria:  catalog.NewFilterCriteria(),
		Cart:      cart.NewLedger(),
		Flow:      order.NewFlow(r.settlementDelay),
		View:      models.CatalogView{},
		Chat: []models.ChatMessage{
			{Role: models.ChatRoleModel, Text: chatGreeting, Timestamp: time.Now().UTC()},
		},
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for the ID, if it exists.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
