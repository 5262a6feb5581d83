// Package filter masks the stored restricted words in request text.
package filter

import (
	"context"

	"github.com/NivBraz/contentfilter-service/internal/metrics"
	"github.com/NivBraz/contentfilter-service/pkg/sanitizer"
)

// FilterError reports that text could not be sanitized. No partial result accompanies it.
type FilterError struct {
	Msg string
	Err error
}

func (e *FilterError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// WordLister supplies the current restricted word set.
type WordLister interface {
	List(ctx context.Context) ([]string, error)
}

type ContentFilter struct {
	words     WordLister
	sanitizer *sanitizer.Sanitizer
	metrics   *metrics.Metrics
}

// New returns a ContentFilter. m may be nil.
func New(words WordLister, s *sanitizer.Sanitizer, m *metrics.Metrics) *ContentFilter {
	return &ContentFilter{words: words, sanitizer: s, metrics: m}
}

// Sanitize replaces each restricted word in input with mask characters, one per
// user-perceived character of the matched text.
func (f *ContentFilter) Sanitize(ctx context.Context, input string) (string, error) {
	words, err := f.words.List(ctx)
	if err != nil {
		return "", &FilterError{Msg: "error sanitizing words", Err: err}
	}

	out, masked, err := f.sanitizer.SanitizeCount(words, input)
	if err != nil {
		return "", &FilterError{Msg: "error sanitizing words", Err: err}
	}
	f.metrics.Sanitized(masked)
	return out, nil
}
