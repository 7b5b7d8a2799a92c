package profanity

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// minWordLength is the shortest normalized dictionary word considered
// for matching, to avoid false positives on very short words.
const minWordLength = 3

// substringWordLength is the minimum normalized dictionary word length
// for bare substring containment, which catches inflected forms
// ("-ing", "-ed") at the cost of more aggressive matching.
const substringWordLength = 4

// RejectionMessage is the user-facing error returned when a review is
// rejected for profane content.
const RejectionMessage = "Your review contains inappropriate language. Please revise and resubmit."

// Result reports the outcome of a profanity scan. MatchedWords holds the
// original dictionary words that matched (not the obfuscated variants),
// deduplicated in dictionary order.
type Result struct {
	ContainsProfanity bool     `json:"contains_profanity"`
	MatchedWords      []string `json:"matched_words"`
}

// Validation is the outcome of validating review text for submission.
type Validation struct {
	IsValid      bool     `json:"is_valid"`
	Error        string   `json:"error,omitempty"`
	MatchedWords []string `json:"matched_words,omitempty"`
}

// Detector scans text against a fixed profanity dictionary. The word
// list and all derived matching state are immutable after construction,
// so a Detector is safe for concurrent use.
type Detector struct {
	words      []string // original dictionary words
	normalized []string // normalized form of each word, same index
	patterns   []*regexp.Regexp // whole-word pattern per normalized word
	variations [][]string       // obfuscation-tolerant variations, len >= minWordLength
}

// NewDetector builds a detector from a dictionary of profane root words.
// Words whose normalized form is shorter than three characters are kept
// in the list but never match.
func NewDetector(words []string) *Detector {
	d := &Detector{
		words:      words,
		normalized: make([]string, len(words)),
		patterns:   make([]*regexp.Regexp, len(words)),
		variations: make([][]string, len(words)),
	}

	for i, word := range words {
		norm := Normalize(word)
		d.normalized[i] = norm
		if len(norm) < minWordLength {
			continue
		}
		d.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(norm) + `\b`)

		var kept []string
		for _, v := range GenerateVariations(norm) {
			if len(v) >= minWordLength {
				kept = append(kept, v)
			}
		}
		d.variations[i] = kept
	}

	return d
}

// GenerateVariations expands a dictionary word into cheap
// obfuscation-tolerant variants: the word itself, the word with all
// vowels stripped, the word with each single vowel removed, and the word
// with each non-vowel letter doubled (skipping letters that are already
// doubled). This approximates common leetspeak and typo patterns without
// a full fuzzy-match pass. The result is deduplicated and sorted.
func GenerateVariations(word string) []string {
	runes := []rune(strings.ToLower(word))
	seen := map[string]struct{}{}
	add := func(v string) {
		if v != "" {
			seen[v] = struct{}{}
		}
	}

	add(string(runes))

	// All vowels stripped.
	var consonants []rune
	for _, r := range runes {
		if !isVowel(r) {
			consonants = append(consonants, r)
		}
	}
	add(string(consonants))

	// Each single vowel removed, one at a time.
	for i, r := range runes {
		if !isVowel(r) {
			continue
		}
		v := make([]rune, 0, len(runes)-1)
		v = append(v, runes[:i]...)
		v = append(v, runes[i+1:]...)
		add(string(v))
	}

	// Each non-vowel letter doubled, skipping already-doubled letters.
	for i, r := range runes {
		if isVowel(r) {
			continue
		}
		if (i > 0 && runes[i-1] == r) || (i+1 < len(runes) && runes[i+1] == r) {
			continue
		}
		v := make([]rune, 0, len(runes)+1)
		v = append(v, runes[:i+1]...)
		v = append(v, r)
		v = append(v, runes[i+1:]...)
		add(string(v))
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// matchIndexes returns the indexes of dictionary words that match the
// normalized input runes.
func (d *Detector) matchIndexes(runes []rune) []int {
	if len(runes) == 0 {
		return nil
	}

	norm := string(runes)
	stretched := hasLongRun(runes)
	var collapsed string
	var prefixes []string
	if stretched {
		collapsed = collapseRuns(runes)
		prefixes = runPrefixes(runes)
	}

	var matched []int
	for i, w := range d.normalized {
		if len(w) < minWordLength {
			continue
		}

		hit := d.patterns[i].MatchString(norm)
		if !hit && len(w) >= substringWordLength {
			hit = strings.Contains(norm, w)
		}
		if !hit {
			for _, v := range d.variations[i] {
				if strings.Contains(norm, v) {
					hit = true
					break
				}
			}
		}
		// Stretched-out words ("fuuuuck"): collapse repeated runs and
		// re-check containment. A collapsed fragment that is cut short
		// at the run ("fuuuu" -> "fu") still counts when it opens, or
		// sits inside, a dictionary word.
		if !hit && stretched {
			hit = strings.Contains(collapsed, w)
			for _, p := range prefixes {
				if hit {
					break
				}
				if strings.HasPrefix(w, p) || strings.Contains(w, p) {
					hit = true
				}
			}
		}

		if hit {
			matched = append(matched, i)
		}
	}

	return matched
}

// Check scans text for profanity. It is total over any string: empty or
// blank input reports no profanity.
func (d *Detector) Check(text string) Result {
	runes, _ := normalizeSpans(text)
	matched := d.matchIndexes(runes)

	words := make([]string, 0, len(matched))
	for _, i := range matched {
		words = append(words, d.words[i])
	}

	return Result{
		ContainsProfanity: len(words) > 0,
		MatchedWords:      words,
	}
}

// Filter masks every occurrence of a matched dictionary word with
// asterisks of equal length. Matching happens on normalized text and the
// replacement is mapped back to original positions, so obfuscated
// spellings ("sh1t") are masked correctly in the original text. Text
// with no matches is returned unchanged.
func (d *Detector) Filter(text string) string {
	runes, spans := normalizeSpans(text)
	matched := d.matchIndexes(runes)
	if len(matched) == 0 {
		return text
	}

	// Collect original byte ranges for every occurrence of each matched
	// word's normalized form.
	var ranges [][2]int
	for _, i := range matched {
		word := []rune(d.normalized[i])
		for start := 0; start+len(word) <= len(runes); start++ {
			if !runesEqual(runes[start:start+len(word)], word) {
				continue
			}
			ranges = append(ranges, [2]int{
				spans[start].start,
				spans[start+len(word)-1].end,
			})
		}
	}
	if len(ranges) == 0 {
		// Matches came only from variations or run collapsing; the exact
		// normalized form never occurs, so there is nothing to map back.
		return text
	}

	ranges = mergeRanges(ranges)

	var b strings.Builder
	prev := 0
	for _, rg := range ranges {
		b.WriteString(text[prev:rg[0]])
		b.WriteString(strings.Repeat("*", utf8.RuneCountInString(text[rg[0]:rg[1]])))
		prev = rg[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

// ValidateReviewContent checks review text for submission. Empty or
// blank text is always valid; non-empty text is rejected if any
// dictionary word matches.
func (d *Detector) ValidateReviewContent(text string) Validation {
	if strings.TrimSpace(text) == "" {
		return Validation{IsValid: true}
	}

	result := d.Check(text)
	if !result.ContainsProfanity {
		return Validation{IsValid: true}
	}

	return Validation{
		IsValid:      false,
		Error:        RejectionMessage,
		MatchedWords: result.MatchedWords,
	}
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mergeRanges sorts byte ranges by start and merges overlapping or
// adjacent ones.
func mergeRanges(ranges [][2]int) [][2]int {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i][0] == ranges[j][0] {
			return ranges[i][1] < ranges[j][1]
		}
		return ranges[i][0] < ranges[j][0]
	})

	merged := ranges[:1]
	for _, rg := range ranges[1:] {
		last := &merged[len(merged)-1]
		if rg[0] <= last[1] {
			if rg[1] > last[1] {
				last[1] = rg[1]
			}
			continue
		}
		merged = append(merged, rg)
	}
	return merged
}
