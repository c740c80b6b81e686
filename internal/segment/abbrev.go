// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"unicode"
)

// Abbreviations lists titles, company forms, and Indonesian shorthand that
// commonly end in a period. Segment does not consult it; a boundary after
// one of these is still a boundary. Reports use it to count sentences that
// probably ended too early.
var Abbreviations = []string{
	"Dr", "Ir", "Drs", "Prof", "Mr", "Mrs", "Ms",
	"PT", "CV", "Ltd", "Inc", "Co",
	"dll", "dsb", "dst", "dkk", "yth", "ttd", "tgl",
	"no", "tel", "hp", "email",
	"www", "com", "org", "net", "gov", "mil", "edu",
}

var abbreviationSet = func() map[string]bool {
	m := make(map[string]bool, len(Abbreviations))
	for _, a := range Abbreviations {
		m[a] = true
	}
	return m
}()

// EndsWithAbbreviation reports whether sentence ends with a period directly
// after a known abbreviation, e.g. "Acara dibuka oleh Prof.".
func EndsWithAbbreviation(sentence string) bool {
	s := strings.TrimSpace(sentence)
	if !strings.HasSuffix(s, ".") {
		return false
	}
	s = strings.TrimRight(s, ".!?")
	word := s
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		word = s[i+1:]
	}
	word = strings.TrimLeftFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return abbreviationSet[word]
}
