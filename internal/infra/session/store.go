// Package session keeps CSV agent sessions in memory with sliding expiry.
package session

import (
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Store is a TTL-bounded session store. Every Put restarts the session's TTL.
type Store struct {
	c *gocache.Cache
}

// NewStore creates a Store whose sessions expire ttl after their last write.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	c := gocache.New(ttl, ttl/2)
	c.OnEvicted(func(id string, _ any) {
		logger.Debug("agent session evicted", zap.String("session_id", id))
	})
	return &Store{c: c}
}

// Put stores s under s.ID.
func (s *Store) Put(sess *domain.AgentSession) {
	s.c.SetDefault(sess.ID, sess)
}

// Get returns the session with id.
func (s *Store) Get(id string) (*domain.AgentSession, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*domain.AgentSession)
	return sess, ok
}

// Delete removes the session with id.
func (s *Store) Delete(id string) {
	s.c.Delete(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.c.ItemCount()
}
