package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"homestyling/internal/model"
)

// Session is the per-visitor state owned by this service: the wizard's form
// answers and the chat widget transcript. It lives only in memory; a process
// restart loses it, the same way a page reload lost it in the storefront.
type Session struct {
	mu sync.Mutex

	ID      string
	Step    int
	Answers model.OnboardingAnswers

	// Submission bookkeeping. submitInFlight blocks double-triggering while a
	// request is on the wire; lastError keeps the terminal step's message.
	submitInFlight bool
	lastError      string
	portfolioID    string

	// Chat widget state.
	transcript   []model.ChatTurn
	chatInFlight bool

	lastAccess time.Time
}

// SessionStore holds live sessions keyed by id and evicts idle ones.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store that evicts sessions idle longer than ttl,
// sweeping every cleanupInterval.
func NewSessionStore(ttl, cleanupInterval time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.sweep(cleanupInterval)
	return s
}

// Create makes a new empty session at step 1.
func (s *SessionStore) Create() *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		Step:       1,
		Answers:    model.OnboardingAnswers{Pyung: model.PyungDefault},
		lastAccess: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session for id, or nil.
func (s *SessionStore) Get(id string) *Session {
	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()

	if sess != nil {
		sess.mu.Lock()
		sess.lastAccess = time.Now()
		sess.mu.Unlock()
	}
	return sess
}

// Close stops the background sweeper.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.ttl)
			s.mu.Lock()
			for id, sess := range s.sessions {
				sess.mu.Lock()
				idle := sess.lastAccess.Before(cutoff)
				sess.mu.Unlock()
				if idle {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
