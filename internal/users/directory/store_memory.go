// Copyright (c) 2026 Libris. All rights reserved.

package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/mavlib/libris/internal/platform/apperr"
	"github.com/mavlib/libris/pkg/slice"
)

// MemoryRepository is an in-memory [Repository]. It backs tests and the
// search engine fixtures; production wiring uses [PostgresRepository].
type MemoryRepository struct {
	mu      sync.RWMutex
	actors  []Actor
	history map[string][]*ArchivedLoan
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		history: make(map[string][]*ArchivedLoan),
	}
}

// SeedActors replaces the member set. Intended for test setup.
func (repository *MemoryRepository) SeedActors(actors ...Actor) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.actors = append([]Actor(nil), actors...)
}

// ListActors returns a page of members plus the total count.
func (repository *MemoryRepository) ListActors(_ context.Context, limit, offset int) ([]*Actor, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	total := len(repository.actors)
	if offset >= total {
		return nil, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]*Actor, 0, end-offset)
	for i := offset; i < end; i++ {
		actor := repository.actors[i]
		page = append(page, &actor)
	}
	return page, total, nil
}

// AllActors returns every member.
func (repository *MemoryRepository) AllActors(_ context.Context) ([]Actor, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return append([]Actor(nil), repository.actors...), nil
}

// FindActor returns the member with the given ID.
func (repository *MemoryRepository) FindActor(_ context.Context, id string) (*Actor, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, actor := range repository.actors {
		if actor.ID == id {
			found := actor
			return &found, nil
		}
	}
	return nil, apperr.NotFound("User")
}

// HistoryByActor returns a member's completed loans, most recent return first.
func (repository *MemoryRepository) HistoryByActor(_ context.Context, actorID string) ([]*ArchivedLoan, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	loans := slice.Map(repository.history[actorID], func(loan *ArchivedLoan) *ArchivedLoan {
		detached := *loan
		return &detached
	})
	sort.Slice(loans, func(i, j int) bool {
		return loans[i].ReturnDate.After(loans[j].ReturnDate)
	})
	return loans, nil
}

// InsertHistory appends a completed loan to the history.
func (repository *MemoryRepository) InsertHistory(_ context.Context, loan *ArchivedLoan) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored := *loan
	repository.history[loan.UserID] = append(repository.history[loan.UserID], &stored)
	return nil
}
