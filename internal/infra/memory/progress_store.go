package memory

import (
	"context"
	"slices"
	"sync"

	"progress-dashboard/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressStore.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[string]domain.TutorialProgress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		progress: make(map[string]domain.TutorialProgress),
	}
}

func (s *ProgressStore) Load(_ context.Context, userID string) (domain.TutorialProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[userID]
	if !ok {
		return domain.TutorialProgress{}, domain.ErrProgressNotFound
	}
	p.CompletedSteps = slices.Clone(p.CompletedSteps)
	return p, nil
}

func (s *ProgressStore) Save(_ context.Context, p domain.TutorialProgress) error {
	p.CompletedSteps = slices.Clone(p.CompletedSteps)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[p.UserID] = p
	return nil
}
