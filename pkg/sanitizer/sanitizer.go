// Package sanitizer masks restricted words in free text.
//
// A word set is compiled into a single case-insensitive alternation, longest word first.
// Every alternative is anchored at the scan position and guarded by a trailing word
// boundary, and the scanner only tries positions that are not preceded by a word
// character, so "ass" never masks "class" while "badword" wins over "bad".
package sanitizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rivo/uniseg"
)

// DefaultMask is the rune each masked character is replaced with.
const DefaultMask = '*'

// DefaultCacheSize is the number of compiled patterns kept when none is configured.
const DefaultCacheSize = 64

// nonWordClass matches one rune that is not a letter, mark, digit or underscore.
const nonWordClass = `[^\p{L}\p{M}\p{N}_]`

// Sanitizer compiles word sets into patterns and applies them.
// It is safe for concurrent use.
type Sanitizer struct {
	mask     rune
	patterns *lru.Cache[string, *Pattern]
}

// New returns a Sanitizer keeping up to cacheSize compiled patterns.
func New(cacheSize int, mask rune) (*Sanitizer, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if mask == 0 {
		mask = DefaultMask
	}
	cache, err := lru.New[string, *Pattern](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	return &Sanitizer{mask: mask, patterns: cache}, nil
}

// Sanitize masks every occurrence of words in input. With no words the input is
// returned unchanged.
func (s *Sanitizer) Sanitize(words []string, input string) (string, error) {
	out, _, err := s.SanitizeCount(words, input)
	return out, err
}

// SanitizeCount is Sanitize that also reports how many spans were masked.
func (s *Sanitizer) SanitizeCount(words []string, input string) (string, int, error) {
	if len(words) == 0 {
		return input, 0, nil
	}
	p, err := s.Compile(words)
	if err != nil {
		return "", 0, err
	}
	if p == nil {
		return input, 0, nil
	}
	out, n := p.Replace(input, s.mask)
	return out, n, nil
}

// Compile builds the pattern for words, reusing a cached one when the same set was
// compiled before. A nil pattern is returned when words holds nothing matchable.
func (s *Sanitizer) Compile(words []string) (*Pattern, error) {
	sorted := SortByLength(words)
	if len(sorted) == 0 {
		return nil, nil
	}

	expr := buildExpression(sorted)
	if p, ok := s.patterns.Get(expr); ok {
		return p, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern for %d words: %w", len(sorted), err)
	}
	p := &Pattern{re: re, words: sorted}
	s.patterns.Add(expr, p)
	return p, nil
}

// SortByLength returns the distinct non-empty words ordered longest first, by rune count,
// ties broken alphabetically.
func SortByLength(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	sorted := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		sorted = append(sorted, w)
	}

	sort.Slice(sorted, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(sorted[i]), utf8.RuneCountInString(sorted[j])
		if li == lj {
			return sorted[i] < sorted[j]
		}
		return li > lj
	})
	return sorted
}

// buildExpression turns words, already in match priority order, into an anchored
// alternation. Alternative i captures its word in group i+1 and requires a non-word rune
// or the end of text right after it.
func buildExpression(sorted []string) string {
	var sb strings.Builder
	sb.WriteString(`^(?i:`)
	for i, w := range sorted {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteByte('(')
		sb.WriteString(regexp.QuoteMeta(w))
		sb.WriteString(`)(?:`)
		sb.WriteString(nonWordClass)
		sb.WriteString(`|$)`)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Pattern is a compiled word set.
type Pattern struct {
	re    *regexp.Regexp
	words []string
}

// Replace masks every non-overlapping match, scanning left to right, and returns the
// result with the number of masked spans. Each span is replaced by as many mask runes as
// the matched text has grapheme clusters.
func (p *Pattern) Replace(input string, mask rune) (string, int) {
	if input == "" {
		return input, 0
	}

	var sb strings.Builder
	masked := 0
	last := 0
	prev := utf8.RuneError
	atStart := true

	for pos := 0; pos < len(input); {
		if atStart || !IsWordRune(prev) {
			if end := p.matchAt(input, pos); end > pos {
				if masked == 0 {
					sb.Grow(len(input))
				}
				sb.WriteString(input[last:pos])
				matched := input[pos:end]
				sb.WriteString(strings.Repeat(string(mask), uniseg.GraphemeClusterCount(matched)))
				masked++
				last = end
				prev, _ = utf8.DecodeLastRuneInString(matched)
				atStart = false
				pos = end
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(input[pos:])
		prev = r
		atStart = false
		pos += size
	}

	if masked == 0 {
		return input, 0
	}
	sb.WriteString(input[last:])
	return sb.String(), masked
}

// matchAt returns the end offset of the word matched at pos, or -1.
func (p *Pattern) matchAt(input string, pos int) int {
	loc := p.re.FindStringSubmatchIndex(input[pos:])
	if loc == nil {
		return -1
	}
	for g := 1; g <= len(p.words); g++ {
		if loc[2*g] >= 0 {
			return pos + loc[2*g+1]
		}
	}
	return -1
}

// IsWordRune reports whether r counts as part of a word for boundary purposes.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
