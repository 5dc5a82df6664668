// Package match decides whether a chat line mentions any watched term.
package match

import "strings"

// Category distinguishes the two watch-term lists.
type Category int

const (
	Character Category = iota
	System
)

func (c Category) String() string {
	switch c {
	case Character:
		return "character"
	case System:
		return "system"
	default:
		return "unknown"
	}
}

// Watchlist holds the terms to look for. Matching is case-sensitive and
// literal; empty terms are ignored.
type Watchlist struct {
	Characters []string
	Systems    []string
}

// Empty reports whether there is nothing to match.
func (w Watchlist) Empty() bool {
	return len(w.Characters) == 0 && len(w.Systems) == 0
}

// Hit describes the term that triggered a match.
type Hit struct {
	Category Category
	Term     string
}

// Match returns the first term contained in text, checking characters before
// systems. At most one Hit is reported per text.
func Match(text string, w Watchlist) (Hit, bool) {
	if term, ok := firstContained(text, w.Characters); ok {
		return Hit{Category: Character, Term: term}, true
	}
	if term, ok := firstContained(text, w.Systems); ok {
		return Hit{Category: System, Term: term}, true
	}
	return Hit{}, false
}

func firstContained(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}
