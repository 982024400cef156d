package vocabulary

import "strings"

// Matcher decides whether a keyword occurs in free text.
type Matcher interface {
	Match(text, keyword string) bool
}

// ContainsMatcher is case-insensitive substring containment.
type ContainsMatcher struct{}

func (ContainsMatcher) Match(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}
