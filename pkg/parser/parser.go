// pkg/parser/parser.go
package parser

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse extracts words from a word bank, choosing the HTML parser when content sniffs as
// HTML and the plain list parser otherwise.
func (p *Parser) Parse(content []byte) ([]string, error) {
	if strings.HasPrefix(http.DetectContentType(content), "text/html") {
		return p.ParseHTML(content)
	}
	return p.ParseWordBank(content)
}

// ParseWordBank extracts one word per line. Blank lines and lines starting with # are
// skipped. Words are kept as written; normalization happens when they are stored.
func (p *Parser) ParseWordBank(content []byte) ([]string, error) {
	lines := strings.Split(string(content), "\n")
	words := make([]string, 0, len(lines))

	for _, line := range lines {
		word := cleanWord(line)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}

	return words, nil
}

// ParseHTML extracts words from list items and table cells of an HTML page.
func (p *Parser) ParseHTML(content []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var words []string
	doc.Find("li, td").Each(func(_ int, s *goquery.Selection) {
		// nested lists are visited on their own
		if s.Find("li, td").Length() > 0 {
			return
		}
		if word := cleanWord(s.Text()); word != "" {
			words = append(words, word)
		}
	})

	return words, nil
}

// cleanWord trims surrounding whitespace, including a trailing carriage return.
func cleanWord(word string) string {
	return strings.TrimSpace(word)
}
