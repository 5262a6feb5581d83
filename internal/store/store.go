// Package store owns the authoritative list of restricted words.
//
// Words are normalized to lowercase on the way in. Reads go through a Cache that every
// successful mutation invalidates before returning.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/NivBraz/contentfilter-service/internal/metrics"
	"github.com/NivBraz/contentfilter-service/internal/models"
	"github.com/NivBraz/contentfilter-service/pkg/wordbank"
)

type Store struct {
	repo    Repository
	cache   Cache
	metrics *metrics.Metrics

	// mu orders cache fills against invalidations. epoch counts invalidations so a read
	// that started before a mutation never refills the cache with what it saw.
	mu    sync.Mutex
	epoch uint64
}

// New returns a Store. m may be nil.
func New(repo Repository, cache Cache, m *metrics.Metrics) *Store {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Store{repo: repo, cache: cache, metrics: m}
}

// List returns every restricted word, lowercase, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	words, ok, err := s.cache.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Restricted word cache read failed, using storage", "error", err)
	} else if ok {
		s.metrics.CacheHit()
		return words, nil
	}
	s.metrics.CacheMiss()

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, &StoreError{Msg: "error fetching words", Err: err}
	}

	bank := wordbank.New()
	for _, row := range rows {
		bank.Add(row.Word)
	}
	words = bank.Words()
	s.metrics.SetWordCount(bank.Len())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		if err := s.cache.Set(ctx, words); err != nil {
			slog.WarnContext(ctx, "Restricted word cache fill failed", "error", err)
		}
	}
	return words, nil
}

// Add stores word in lowercase. It returns nil without error when the word is already
// present.
func (s *Store) Add(ctx context.Context, word string) (*models.RestrictedWord, error) {
	normalized := wordbank.Normalize(word)

	var created *models.RestrictedWord
	err := s.repo.InTx(ctx, func(repo Repository) error {
		existing, err := repo.FindByWord(ctx, normalized)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		w := &models.RestrictedWord{Word: normalized}
		if err := repo.Insert(ctx, w); err != nil {
			return err
		}
		created = w
		return nil
	})
	if err != nil {
		s.metrics.Mutation("add", "error")
		return nil, &StoreError{Msg: fmt.Sprintf("error adding word: %s", word), Err: err}
	}

	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	s.metrics.Mutation("add", outcome(created != nil))
	return created, nil
}

// Update replaces oldWord with newWord, both lowercased, keeping the entry's identity. It
// returns nil without error when oldWord is not stored.
//
// newWord is not checked against other entries; if it is already stored the storage
// unique constraint rejects the update and a StoreError is returned.
func (s *Store) Update(ctx context.Context, oldWord, newWord string) (*models.RestrictedWord, error) {
	normalizedOld := wordbank.Normalize(oldWord)
	normalizedNew := wordbank.Normalize(newWord)

	var updated *models.RestrictedWord
	err := s.repo.InTx(ctx, func(repo Repository) error {
		existing, err := repo.FindByWord(ctx, normalizedOld)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		existing.Word = normalizedNew
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		s.metrics.Mutation("update", "error")
		return nil, &StoreError{Msg: fmt.Sprintf("error updating word from %s to %s", oldWord, newWord), Err: err}
	}

	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	s.metrics.Mutation("update", outcome(updated != nil))
	return updated, nil
}

// Delete removes word and reports whether it was stored.
func (s *Store) Delete(ctx context.Context, word string) (bool, error) {
	normalized := wordbank.Normalize(word)

	deleted := false
	err := s.repo.InTx(ctx, func(repo Repository) error {
		existing, err := repo.FindByWord(ctx, normalized)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		if err := repo.Delete(ctx, existing); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		s.metrics.Mutation("delete", "error")
		return false, &StoreError{Msg: fmt.Sprintf("error deleting word: %s", word), Err: err}
	}

	if err := s.invalidate(ctx); err != nil {
		return false, err
	}
	s.metrics.Mutation("delete", outcome(deleted))
	return deleted, nil
}

// Seed adds every valid word and returns how many were new. progress, if set, is
// called once per word. Words repeated within the batch are stored once.
func (s *Store) Seed(ctx context.Context, words []string, progress func()) (int, error) {
	seen := wordbank.New()
	created := 0
	for _, word := range words {
		if progress != nil {
			progress()
		}
		word = strings.TrimSpace(word)
		if err := models.ValidateWord(word); err != nil {
			slog.WarnContext(ctx, "Skipping seed word", "word", word, "error", err)
			continue
		}
		if seen.Contains(word) {
			continue
		}
		seen.Add(word)
		w, err := s.Add(ctx, word)
		if err != nil {
			return created, err
		}
		if w != nil {
			created++
		}
	}
	return created, nil
}

// Ping checks that storage is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return &StoreError{Msg: "storage is unreachable", Err: err}
	}
	return nil
}

func (s *Store) invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	if err := s.cache.Invalidate(ctx); err != nil {
		return &StoreError{Msg: "error invalidating restricted word cache", Err: err}
	}
	return nil
}

func outcome(changed bool) string {
	if changed {
		return "changed"
	}
	return "noop"
}
