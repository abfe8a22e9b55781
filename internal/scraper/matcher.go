package scraper

import "strings"

// Matcher decides whether a piece of markup (an element id or a card's
// text) refers to a room, given the room's display name.  Swapping the
// matcher changes how rooms are located without touching reconciliation.
type Matcher interface {
	Match(candidate, displayName string) bool
}

// SubstringMatcher accepts a candidate that contains the display name.
// This is how the source page is matched in production: element ids and
// card texts embed the display name among other text.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(candidate, displayName string) bool {
	if displayName == "" {
		return false
	}
	return strings.Contains(candidate, displayName)
}

// ExactMatcher accepts a candidate equal to the display name once
// surrounding whitespace is removed.
type ExactMatcher struct{}

func (ExactMatcher) Match(candidate, displayName string) bool {
	key := strings.TrimSpace(displayName)
	if key == "" {
		return false
	}
	return strings.TrimSpace(candidate) == key
}
