package profanity

import "unicode"

// substitutions maps common digit/symbol-for-letter obfuscations back to
// the letter they stand in for.
var substitutions = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
	'!': 'i',
	'|': 'i',
}

// span records the byte range in the original text that produced one
// normalized rune, so matches against normalized text can be mapped back
// to original positions for masking.
type span struct {
	start int
	end   int
}

// normalizeSpans lowercases the text, substitutes obfuscation characters,
// strips asterisks (censor characters) and all remaining non-letter
// non-space runes, collapses whitespace runs to single spaces, and trims.
// It returns the normalized runes together with the original byte range
// each one came from.
func normalizeSpans(text string) ([]rune, []span) {
	var runes []rune
	var spans []span
	pendingSpace := false

	for i, r := range text {
		end := i + len(string(r))

		r = unicode.ToLower(r)
		if sub, ok := substitutions[r]; ok {
			r = sub
		}

		switch {
		case r == '*':
			// Censor character: removed rather than treated as a word break.
		case unicode.IsLetter(r):
			if pendingSpace && len(runes) > 0 {
				runes = append(runes, ' ')
				spans = append(spans, span{start: i, end: i})
			}
			pendingSpace = false
			runes = append(runes, r)
			spans = append(spans, span{start: i, end: end})
		case unicode.IsSpace(r):
			pendingSpace = true
		default:
			// Remaining punctuation and symbols are dropped.
		}
	}

	return runes, spans
}

// Normalize returns the obfuscation-normalized form of text: lowercased,
// leetspeak substituted, censor characters and punctuation stripped,
// whitespace collapsed and trimmed.
func Normalize(text string) string {
	runes, _ := normalizeSpans(text)
	return string(runes)
}

// collapseRuns reduces every run of repeated runes to a single rune.
// Used by the stretched-word heuristic ("fuuuuck" -> "fuck").
func collapseRuns(runes []rune) string {
	var out []rune
	for i, r := range runes {
		if i > 0 && runes[i-1] == r {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// runPrefixes returns, for each run of 4 or more identical characters,
// the prefix of its containing word collapsed to single characters
// ("fuuuu" -> "fu"). Single-character prefixes carry no signal and are
// dropped.
func runPrefixes(runes []rune) []string {
	var prefixes []string
	wordStart := 0
	i := 0
	for i < len(runes) {
		if runes[i] == ' ' {
			i++
			wordStart = i
			continue
		}
		j := i
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= 4 {
			if p := collapseRuns(runes[wordStart:j]); len([]rune(p)) >= 2 {
				prefixes = append(prefixes, p)
			}
		}
		i = j
	}
	return prefixes
}

// hasLongRun reports whether the runes contain a run of 4 or more
// identical characters, the heuristic trigger for stretched-out words.
func hasLongRun(runes []rune) bool {
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 4 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
