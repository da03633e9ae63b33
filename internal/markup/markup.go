// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup converts rich text produced by the browser editor into
// WhatsApp's plain-text inline styling dialect.
//
// Recognized pairs are rewritten family by family (bold, italic,
// strikethrough, monospace); every remaining tag is then stripped and the
// result trimmed. Pairs match on identical tag names, never cross a newline,
// and close at the first matching closing tag. Metacharacters already present
// in the text (*, _, ~, `) are passed through unescaped.
package markup

import (
	"regexp"
	"strings"
	"unicode"
)

// family groups the tag names that share one WhatsApp marker. Names are
// tried in order at each candidate position.
type family struct {
	names  []string
	marker string
}

// families lists the styling rules in the order they are applied. Later
// rules see the output of earlier ones.
var families = []family{
	{names: []string{"b", "strong"}, marker: "*"},
	{names: []string{"i", "em"}, marker: "_"},
	{names: []string{"s", "strike"}, marker: "~"},
	{names: []string{"code"}, marker: "```"},
}

// tagPattern matches any remaining tag: opening, closing, or self-closing.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Translate converts editor rich text into WhatsApp text. It never fails:
// unrecognized or unbalanced markup is stripped and its content kept.
func Translate(html string) string {
	text := html
	for _, f := range families {
		text = f.apply(text)
	}
	text = tagPattern.ReplaceAllString(text, "")
	return strings.TrimFunc(text, isTrimmable)
}

// isTrimmable reports whether r is stripped from the ends of the output:
// Unicode whitespace plus the ASCII separators 0x1c-0x1f, which the editor
// backend also treats as whitespace.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// apply rewrites every matched pair of the family in a single left-to-right
// pass. Content inside a rewritten pair is copied verbatim and not rescanned.
func (f family) apply(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	s := newScanner(text, f.names)
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		if text[i] == '<' {
			if start, stop, end, ok := s.match(i); ok {
				b.WriteString(f.marker)
				b.WriteString(text[start:stop])
				b.WriteString(f.marker)
				i = end
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// notFound marks a cached search that has run off the end of the text.
const notFound = -1

// scanner finds pair matches for one family. It caches the next closing tag
// and next newline at or after the last lookup; lookups only move forward, so
// each byte of the text is searched at most once per tag name.
type scanner struct {
	text      string
	opens     []string
	closes    []string
	nextClose []int
	nextLF    int
	lfFrom    int
	closeFrom []int
}

func newScanner(text string, names []string) *scanner {
	s := &scanner{
		text:      text,
		opens:     make([]string, len(names)),
		closes:    make([]string, len(names)),
		nextClose: make([]int, len(names)),
		closeFrom: make([]int, len(names)),
		lfFrom:    -1,
	}
	for k, name := range names {
		s.opens[k] = "<" + name + ">"
		s.closes[k] = "</" + name + ">"
		s.closeFrom[k] = -1
	}
	return s
}

// match reports whether a recognized pair opens at pos. It returns the inner
// content bounds and the index just past the closing tag.
func (s *scanner) match(pos int) (start, stop, end int, ok bool) {
	for k, open := range s.opens {
		if !strings.HasPrefix(s.text[pos:], open) {
			continue
		}
		start = pos + len(open)
		c := s.closingAfter(k, start)
		if c == notFound {
			continue
		}
		if lf := s.newlineAfter(start); lf != notFound && lf < c {
			continue
		}
		return start, c, c + len(s.closes[k]), true
	}
	return 0, 0, 0, false
}

// closingAfter returns the index of the first closing tag k at or after from.
func (s *scanner) closingAfter(k, from int) int {
	if s.closeFrom[k] >= 0 && (s.nextClose[k] == notFound || s.nextClose[k] >= from) {
		return s.nextClose[k]
	}
	s.closeFrom[k] = from
	s.nextClose[k] = indexFrom(s.text, s.closes[k], from)
	return s.nextClose[k]
}

// newlineAfter returns the index of the first '\n' at or after from.
func (s *scanner) newlineAfter(from int) int {
	if s.lfFrom >= 0 && (s.nextLF == notFound || s.nextLF >= from) {
		return s.nextLF
	}
	s.lfFrom = from
	s.nextLF = indexFrom(s.text, "\n", from)
	return s.nextLF
}

func indexFrom(text, sub string, from int) int {
	if from > len(text) {
		return notFound
	}
	j := strings.Index(text[from:], sub)
	if j < 0 {
		return notFound
	}
	return from + j
}
