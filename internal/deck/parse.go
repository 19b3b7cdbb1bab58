// Package deck imports vocabulary from markdown decks kept in a local
// directory or a git repository.
//
// A card is a "Q:" line with the word, an "A:" line with its translation and
// an optional "C:" line with notes. Each part may continue over several lines
// and cards are separated by a new "Q:" or a "---" line.
package deck

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	wordPrefix        = "Q:"
	translationPrefix = "A:"
	notesPrefix       = "C:"
	separator         = "---"
)

// Card is one parsed flashcard.
type Card struct {
	Word        string
	Translation string
	Notes       string
}

type state int

const (
	seeking state = iota
	readingWord
	readingTranslation
	readingNotes
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards.
func Parse(r io.Reader) ([]Card, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	p.finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.cards, nil
}

type parser struct {
	cards   []Card
	current Card
	block   []string
	state   state
}

func (p *parser) line(line string) {
	if line == separator {
		p.finishCard()
		return
	}

	next, content, ok := prefixed(line)
	if !ok {
		if p.state != seeking {
			p.block = append(p.block, line)
		}
		return
	}

	p.flush()
	if next == readingWord && p.state != seeking {
		// A new word always starts a new card.
		p.finishCard()
	}
	p.state = next
	p.block = append(p.block, content)
}

func prefixed(line string) (state, string, bool) {
	for _, c := range []struct {
		prefix string
		state  state
	}{
		{wordPrefix, readingWord},
		{translationPrefix, readingTranslation},
		{notesPrefix, readingNotes},
	} {
		if rest, ok := strings.CutPrefix(line, c.prefix); ok {
			return c.state, strings.TrimPrefix(rest, " "), true
		}
	}
	return seeking, "", false
}

// flush moves the lines read so far into the field being read.
func (p *parser) flush() {
	if len(p.block) == 0 {
		return
	}
	content := strings.TrimRight(strings.Join(p.block, "\n"), "\n")
	switch p.state {
	case readingWord:
		p.current.Word = content
	case readingTranslation:
		p.current.Translation = content
	case readingNotes:
		p.current.Notes = content
	}
	p.block = nil
}

func (p *parser) finishCard() {
	p.flush()
	if p.current.Word != "" {
		p.cards = append(p.cards, p.current)
	}
	p.current = Card{}
	p.state = seeking
}
