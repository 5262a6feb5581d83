// Package wordbank holds a case-insensitive set of words.
package wordbank

import (
	"sort"
	"strings"
	"sync"
)

type WordBank struct {
	words map[string]struct{}
	mu    sync.RWMutex
}

// New returns a bank holding the lowercase form of each given word.
func New(words ...string) *WordBank {
	wb := &WordBank{
		words: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		wb.words[Normalize(w)] = struct{}{}
	}
	return wb
}

// Normalize returns the form a word is stored and compared in.
func Normalize(word string) string {
	return strings.ToLower(word)
}

func (wb *WordBank) Add(word string) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	wb.words[Normalize(word)] = struct{}{}
}

func (wb *WordBank) Contains(word string) bool {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	_, exists := wb.words[Normalize(word)]
	return exists
}

func (wb *WordBank) Len() int {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return len(wb.words)
}

// Words returns a sorted copy of the bank's contents.
func (wb *WordBank) Words() []string {
	wb.mu.RLock()
	words := make([]string, 0, len(wb.words))
	for w := range wb.words {
		words = append(words, w)
	}
	wb.mu.RUnlock()

	sort.Strings(words)
	return words
}
