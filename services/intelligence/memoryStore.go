package ai

import (
	"context"
	"time"

	"medivoice/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryContextStore is an in-process ContextStore bounded by size and TTL.
// It is used when no Redis is configured and in tests.
type MemoryContextStore struct {
	cache *expirable.LRU[string, models.SessionSnapshot]
}

func NewMemoryContextStore(size int, ttl time.Duration) *MemoryContextStore {
	if size <= 0 {
		size = 1024
	}
	return &MemoryContextStore{cache: expirable.NewLRU[string, models.SessionSnapshot](size, nil, ttl)}
}

func (s *MemoryContextStore) Get(_ context.Context, sessionID string) (*models.SessionSnapshot, error) {
	snap, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	snap.Context.Notes = append([]string(nil), snap.Context.Notes...)
	snap.History = append([]models.ChatMessage(nil), snap.History...)
	return &snap, nil
}

func (s *MemoryContextStore) Set(_ context.Context, snap *models.SessionSnapshot) error {
	stored := *snap
	stored.Context.Notes = append([]string(nil), snap.Context.Notes...)
	stored.History = append([]models.ChatMessage(nil), snap.History...)
	s.cache.Add(snap.SessionID, stored)
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, sessionID string) error {
	s.cache.Remove(sessionID)
	return nil
}

// Len reports how many live sessions are held.
func (s *MemoryContextStore) Len() int {
	return s.cache.Len()
}
