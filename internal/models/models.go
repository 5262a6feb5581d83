package models

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/NivBraz/contentfilter-service/pkg/wordbank"
)

var (
	ErrBlankWord   = errors.New("Word must not be blank")
	ErrWordTooLong = errors.New("Word must be between 1 and 255 characters")
)

// MaxWordLength is the longest restricted word accepted, in characters.
const MaxWordLength = 255

// RestrictedWord is a normalized word the sanitizer masks. ID is assigned by the store
// and never leaves it.
type RestrictedWord struct {
	ID   int64  `xorm:"pk autoincr 'id'" json:"-"`
	Word string `xorm:"VARCHAR(255) UNIQUE NOT NULL 'word'" json:"word"`
}

// TableName maps RestrictedWord to its table.
func (RestrictedWord) TableName() string {
	return "restricted_word"
}

// WordRequest is the body of create and update requests.
type WordRequest struct {
	Word string `json:"word"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// ValidateWord reports whether word may be stored as a restricted word. The length
// limit applies to the stored, lowercased form, which can be longer than word.
func ValidateWord(word string) error {
	if strings.TrimSpace(word) == "" {
		return ErrBlankWord
	}
	if utf8.RuneCountInString(wordbank.Normalize(word)) > MaxWordLength {
		return ErrWordTooLong
	}
	return nil
}
