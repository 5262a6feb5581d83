package store

import (
	"context"
	"errors"
	"sync"

	"github.com/NivBraz/contentfilter-service/internal/models"
)

var errStorageDown = errors.New("storage down")

// memRepo is an in-memory Repository used to drive failure and ordering cases.
type memRepo struct {
	mu     sync.Mutex
	rows   map[int64]*models.RestrictedWord
	nextID int64

	failFind  error
	failWrite error
	// findAllHook, when set, runs inside FindAll before rows are copied.
	findAllHook func()
}

func newMemRepo(words ...string) *memRepo {
	r := &memRepo{rows: map[int64]*models.RestrictedWord{}}
	for _, w := range words {
		r.nextID++
		r.rows[r.nextID] = &models.RestrictedWord{ID: r.nextID, Word: w}
	}
	return r
}

func (r *memRepo) FindAll(_ context.Context) ([]*models.RestrictedWord, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	r.mu.Lock()
	snapshot := make([]*models.RestrictedWord, 0, len(r.rows))
	for _, row := range r.rows {
		cp := *row
		snapshot = append(snapshot, &cp)
	}
	r.mu.Unlock()
	if r.findAllHook != nil {
		r.findAllHook()
	}
	return snapshot, nil
}

func (r *memRepo) FindByWord(_ context.Context, word string) (*models.RestrictedWord, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Word == word {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Insert(_ context.Context, w *models.RestrictedWord) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	w.ID = r.nextID
	cp := *w
	r.rows[w.ID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, w *models.RestrictedWord) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.rows[w.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, w *models.RestrictedWord) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, w.ID)
	return nil
}

func (r *memRepo) InTx(_ context.Context, fn func(repo Repository) error) error {
	return fn(r)
}

func (r *memRepo) Ping(_ context.Context) error {
	return r.failFind
}

// spyCache wraps MemoryCache and counts calls.
type spyCache struct {
	MemoryCache
	mu          sync.Mutex
	gets        int
	sets        int
	invalidates int

	failGet        error
	failInvalidate error
}

func (c *spyCache) Get(ctx context.Context) ([]string, bool, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	if c.failGet != nil {
		return nil, false, c.failGet
	}
	return c.MemoryCache.Get(ctx)
}

func (c *spyCache) Set(ctx context.Context, words []string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryCache.Set(ctx, words)
}

func (c *spyCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.invalidates++
	c.mu.Unlock()
	if c.failInvalidate != nil {
		return c.failInvalidate
	}
	return c.MemoryCache.Invalidate(ctx)
}
