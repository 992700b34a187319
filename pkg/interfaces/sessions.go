package interfaces

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yair/events-widget/pkg/discovery"
	"github.com/yair/events-widget/pkg/domain"
	"github.com/yair/events-widget/pkg/presentation"
)

type SessionConfig struct {
	IdleTTL     time.Duration
	MaxSessions int
	Defaults    presentation.Defaults
}

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// SessionManager keeps one controller per page load. Idle sessions are
// swept whenever a new one opens; when full, the least recently used
// session makes room.
type SessionManager struct {
	config     SessionConfig
	normalizer *discovery.Normalizer
	metrics    *Metrics
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(config SessionConfig, normalizer *discovery.Normalizer, metrics *Metrics) *SessionManager {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 30 * time.Minute
	}
	if config.MaxSessions <= 0 {
		config.MaxSessions = 1000
	}
	return &SessionManager{
		config:     config,
		normalizer: normalizer,
		metrics:    metrics,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}

// Open creates a session with an empty store and returns its id.
func (m *SessionManager) Open() (string, *Controller) {
	id := uuid.NewString()
	c := NewController(id, discovery.NewStore(m.normalizer), m.config.Defaults, m.metrics)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)
	if len(m.sessions) >= m.config.MaxSessions {
		m.evictOldestLocked()
	}
	m.sessions[id] = &session{controller: c, lastSeen: now}
	m.metrics.observeSessionOpened(len(m.sessions))

	return id, c
}

// Get returns the session's controller and marks it as used.
func (m *SessionManager) Get(id string) (*Controller, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	now := m.now()
	if now.Sub(s.lastSeen) > m.config.IdleTTL {
		delete(m.sessions, id)
		m.metrics.observeEviction("expired", 1, len(m.sessions))
		return nil, domain.ErrSessionNotFound
	}
	s.lastSeen = now
	return s.controller, nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *SessionManager) sweepLocked(now time.Time) {
	expired := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.config.IdleTTL {
			delete(m.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		m.metrics.observeEviction("expired", expired, len(m.sessions))
	}
}

func (m *SessionManager) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range m.sessions {
		if oldestID == "" || s.lastSeen.Before(oldest) {
			oldestID, oldest = id, s.lastSeen
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
		m.metrics.observeEviction("capacity", 1, len(m.sessions))
	}
}
