package bookmarks

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// maxBookmarkRunes bounds the stored snippet length.
const maxBookmarkRunes = 100

// ErrNotFound is returned when a bookmark's text no longer appears in the
// loaded content.
var ErrNotFound = errors.New("bookmark text not found in current content")

// Span is a half-open range of runes in the loaded content.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Store is an append-only line store. Bookmarks have no identity beyond
// their text; there is no removal or editing.
type Store struct {
	filePath string
}

// NewStore creates a bookmark store backed by the given file.
func NewStore(path string) *Store {
	return &Store{filePath: path}
}

// Add appends one bookmark line, truncated to 100 runes.
func (s *Store) Add(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing selected to bookmark")
	}

	if r := []rune(text); len(r) > maxBookmarkRunes {
		text = string(r[:maxBookmarkRunes])
	}
	// Keep the file newline-delimited.
	text = strings.ReplaceAll(text, "\n", " ")

	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open bookmark file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, text); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// List returns all bookmarks in insertion order, skipping blank lines.
// A missing file means no bookmarks yet.
func (s *Store) List() ([]string, error) {
	f, err := os.Open(s.filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark file: %w", err)
	}
	defer f.Close()

	var bookmarks []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			bookmarks = append(bookmarks, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmark file: %w", err)
	}
	return bookmarks, nil
}

// Find locates the first occurrence of bookmark in content and returns its
// rune span, so the selection lands on the right characters in CJK text.
func Find(content, bookmark string) (Span, error) {
	idx := strings.Index(content, bookmark)
	if idx < 0 {
		return Span{}, ErrNotFound
	}

	start := utf8.RuneCountInString(content[:idx])
	return Span{
		Start: start,
		End:   start + utf8.RuneCountInString(bookmark),
	}, nil
}
