// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits article text into sentence-like units.
//
// The splitter is a heuristic: a run of '.', '!' or '?' ends a sentence when
// it is followed by whitespace and an ASCII capital letter, or by the end of
// the text. Abbreviations are not special-cased, so "Dr. Budi" splits after
// "Dr.". Fragments shorter than MinLength are dropped.
package segment

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the minimum sentence length in characters, after trimming.
const MinLength = 10

// Segment returns the sentences of text in their original order. Whitespace
// runs are collapsed to a single space before splitting and every sentence
// is trimmed. Empty or whitespace-only input returns nil.
func Segment(text string) []string {
	text = collapseSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		if !isTerminator(text[i]) {
			i++
			continue
		}
		end := i
		for end < len(text) && isTerminator(text[end]) {
			end++
		}
		if endsSentence(text, end) {
			sentences = appendSentence(sentences, text[start:end])
			start = end
		}
		i = end
	}
	return appendSentence(sentences, text[start:])
}

// collapseSpace replaces every whitespace run with one space and trims the ends.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// endsSentence reports whether a terminator run ending at pos closes a
// sentence: pos is the end of text, or whitespace follows and then A-Z.
func endsSentence(text string, pos int) bool {
	if pos == len(text) {
		return true
	}
	next := pos
	for next < len(text) && text[next] == ' ' {
		next++
	}
	if next == pos || next == len(text) {
		return false
	}
	c := text[next]
	return c >= 'A' && c <= 'Z'
}

func appendSentence(sentences []string, fragment string) []string {
	s := strings.TrimSpace(fragment)
	if utf8.RuneCountInString(s) < MinLength {
		return sentences
	}
	return append(sentences, s)
}
