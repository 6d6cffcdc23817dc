package picking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-picking-service/internal/apperror"
	"github.com/fekuna/omnipos-picking-service/internal/model"
	"github.com/fekuna/omnipos-picking-service/internal/pkg/logger"
)

const DefaultSessionTTL = 30 * time.Minute

// SessionStore keeps open sessions in memory. Sessions idle for longer than
// the TTL are dropped by Sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   logger.ZapLogger
}

func NewSessionStore(ttl time.Duration, log logger.ZapLogger) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   log,
	}
}

func (st *SessionStore) Open(shopID string, order *model.Order) *Session {
	s := NewSession(uuid.NewString(), shopID, order, st.now())

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Info("picking session opened",
		zap.String("session", s.ID),
		zap.String("shop", shopID),
		zap.String("order", order.ID),
		zap.Int("lines", len(order.LineItems)),
	)
	return s
}

// Get returns the session if it exists and belongs to shopID.
func (st *SessionStore) Get(shopID, id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok || s.ShopID != shopID {
		return nil, apperror.NotFound("session", id)
	}
	s.touch(st.now())
	return s, nil
}

func (st *SessionStore) Close(shopID, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok || s.ShopID != shopID {
		return apperror.NotFound("session", id)
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// DefaultSweepInterval is used by Run when given a non-positive interval.
const DefaultSweepInterval = time.Minute

// Run sweeps on every tick until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired picking sessions", zap.Int("removed", n))
			}
		}
	}
}
