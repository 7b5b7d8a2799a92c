// Package profanity detects and masks profane language in free-text
// review bodies, including common obfuscations (leetspeak, censor
// characters, stretched letters).
package profanity

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed words.txt
var embeddedWords string

// ParseDictionary parses a word list in the words.txt format: one word
// per line, blank lines and #-comments ignored. Words are lowercased
// and deduplicated, preserving first-seen order.
func ParseDictionary(data string) []string {
	seen := make(map[string]struct{})
	var words []string

	for _, line := range strings.Split(data, "\n") {
		word := strings.ToLower(strings.TrimSpace(line))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}

	return words
}

var defaultDetector = sync.OnceValue(func() *Detector {
	return NewDetector(ParseDictionary(embeddedWords))
})

// DefaultDetector returns the detector built from the embedded word
// list. The detector is constructed once and is safe for concurrent use;
// the word list is immutable after load.
func DefaultDetector() *Detector {
	return defaultDetector()
}
