package sanitizer

import (
	"reflect"
	"sync"
	"testing"
	"unicode/utf8"
)

func newTestSanitizer(t *testing.T) *Sanitizer {
	t.Helper()
	s, err := New(8, DefaultMask)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		input    string
		expected string
	}{
		{"no words", nil, "This is a badword.", "This is a badword."},
		{"empty input", []string{"bad"}, "", ""},
		{"single word", []string{"badword"}, "This is a badword.", "This is a *******."},
		{"case insensitive", []string{"bad"}, "BAD bad Bad", "*** *** ***"},
		{"substring of longer word", []string{"ass"}, "a class act", "a class act"},
		{"prefix of restricted word", []string{"bad", "badword"}, "badword and bad", "******* and ***"},
		{"longer word listed first", []string{"badword", "bad"}, "so badword", "so *******"},
		{"special characters", []string{"b(a)d"}, "This is b(a)d.", "This is *****."},
		{"brackets", []string{"wor[d]"}, "a wor[d] here", "a ****** here"},
		{"bracket word followed by letter", []string{"wor[d]"}, "a wor[d]s here", "a wor[d]s here"},
		{"unicode word", []string{"bädword"}, "This is a bädword.", "This is a *******."},
		{"unicode uppercase input", []string{"bädword"}, "BÄDWORD!", "*******!"},
		{"repeated occurrences", []string{"bad"}, "bad,bad;bad", "***,***;***"},
		{"joined occurrences", []string{"bad"}, "badbad", "badbad"},
		{"underscore is a word character", []string{"bad"}, "bad_word", "bad_word"},
		{"digits are word characters", []string{"bad"}, "bad1 2bad", "bad1 2bad"},
		{"letter before non-ascii", []string{"ärger"}, "xärger ärger", "xärger *****"},
		{"whole input", []string{"bad"}, "bad", "***"},
		{"phrase", []string{"bad word"}, "a bad word here", "a ******** here"},
		{"whitespace preserved", []string{"bad"}, "  bad\t\nbad  ", "  ***\t\n***  "},
		{"empty words skipped", []string{"", "bad"}, "bad", "***"},
		// "ä" written as "a" plus a combining diaeresis: two runes, one visible character
		{"decomposed word", []string{"ba\u0308dword"}, "This is a ba\u0308dword.", "This is a *******."},
	}

	s := newTestSanitizer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Sanitize(tt.words, tt.input)
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Sanitize() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSanitize_PreservesLength(t *testing.T) {
	s := newTestSanitizer(t)
	got, err := s.Sanitize([]string{"bädword"}, "bädword")
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if utf8.RuneCountInString(got) != utf8.RuneCountInString("bädword") {
		t.Errorf("Sanitize() = %q, want %d runes", got, utf8.RuneCountInString("bädword"))
	}
}

func TestSanitize_EmptyWordSetIsIdentity(t *testing.T) {
	s := newTestSanitizer(t)
	inputs := []string{"", "plain", "b(a)d [x] \\d+", "ünïcödé", "\xff\xfe invalid"}
	for _, in := range inputs {
		got, err := s.Sanitize(nil, in)
		if err != nil {
			t.Fatalf("Sanitize() error = %v", err)
		}
		if got != in {
			t.Errorf("Sanitize(nil, %q) = %q, want input unchanged", in, got)
		}
	}
}

func TestSanitizeCount(t *testing.T) {
	s := newTestSanitizer(t)
	got, n, err := s.SanitizeCount([]string{"bad", "worse"}, "bad, worse, fine, bad")
	if err != nil {
		t.Fatalf("SanitizeCount() error = %v", err)
	}
	if got != "***, *****, fine, ***" {
		t.Errorf("SanitizeCount() = %q, want %q", got, "***, *****, fine, ***")
	}
	if n != 3 {
		t.Errorf("SanitizeCount() masked = %d, want 3", n)
	}
}

func TestNew_Mask(t *testing.T) {
	tests := []struct {
		name     string
		mask     rune
		expected string
	}{
		{"custom", '#', "not ###"},
		{"unicode", '█', "not ███"},
		{"zero falls back to default", 0, "not ***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(0, tt.mask)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := s.Sanitize([]string{"bad"}, "not bad")
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Sanitize() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSortByLength(t *testing.T) {
	got := SortByLength([]string{"bad", "badword", "", "ab", "bad", "bädwort", "xyz"})
	want := []string{"badword", "bädwort", "bad", "xyz", "ab"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortByLength() = %v, want %v", got, want)
	}
}

func TestBuildExpression(t *testing.T) {
	got := buildExpression([]string{"b(a)d", "x"})
	want := `^(?i:(b\(a\)d)(?:[^\p{L}\p{M}\p{N}_]|$)|(x)(?:[^\p{L}\p{M}\p{N}_]|$))`
	if got != want {
		t.Errorf("buildExpression() = %v, want %v", got, want)
	}
}

func TestCompile_Cached(t *testing.T) {
	s := newTestSanitizer(t)

	p1, err := s.Compile([]string{"bad", "worse"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	p2, err := s.Compile([]string{"worse", "bad"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if p1 != p2 {
		t.Error("Compile() of the same set in another order did not reuse the cached pattern")
	}

	p3, err := s.Compile([]string{"bad"})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if p1 == p3 {
		t.Error("Compile() of a different set returned the cached pattern")
	}
}

func TestCompile_NothingMatchable(t *testing.T) {
	s := newTestSanitizer(t)
	p, err := s.Compile([]string{""})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if p != nil {
		t.Errorf("Compile() = %v, want nil", p)
	}

	got, err := s.Sanitize([]string{""}, "text")
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if got != "text" {
		t.Errorf("Sanitize() = %q, want %q", got, "text")
	}
}

func TestSanitize_Concurrent(t *testing.T) {
	s := newTestSanitizer(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Sanitize([]string{"bad", "badword"}, "bad badword good")
			if err != nil {
				t.Errorf("Sanitize() error = %v", err)
				return
			}
			if got != "*** ******* good" {
				t.Errorf("Sanitize() = %q, want %q", got, "*** ******* good")
			}
		}()
	}
	wg.Wait()
}

func TestIsWordRune(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'a', true}, {'Z', true}, {'0', true}, {'_', true},
		{'ä', true}, {'ß', true}, {'\u0308', true}, {'\u0663', true},
		{' ', false}, {'.', false}, {'(', false}, {'-', false},
		{'*', false}, {'\n', false}, {'\'', false}, {utf8.RuneError, false},
	}
	for _, tt := range tests {
		if got := IsWordRune(tt.r); got != tt.want {
			t.Errorf("IsWordRune(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
