package profanity

import (
	"slices"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase",
			in:   "Hello World",
			want: "hello world",
		},
		{
			name: "leetspeak substitution",
			in:   "sh1t h4ppens",
			want: "shit happens",
		},
		{
			name: "symbol substitution",
			in:   "b!tch @ss",
			want: "bitch ass",
		},
		{
			name: "censor asterisks removed",
			in:   "f*ck this",
			want: "fck this",
		},
		{
			name: "punctuation stripped",
			in:   "what?! no way...",
			want: "whati no way",
		},
		{
			name: "whitespace collapse and trim",
			in:   "  too   many    spaces  ",
			want: "too many spaces",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "only symbols",
			in:   "#%^&",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateVariations(t *testing.T) {
	got := GenerateVariations("fuck")

	for _, want := range []string{
		"fuck", // the word itself
		"fck",  // vowels stripped (also single-vowel removal here)
		"ffuck", "fucck", "fuckk", // doubled consonants
	} {
		if !slices.Contains(got, want) {
			t.Errorf("GenerateVariations(fuck) missing %q, got %v", want, got)
		}
	}

	// Vowels are never doubled.
	if slices.Contains(got, "fuuck") {
		t.Errorf("GenerateVariations(fuck) doubled a vowel: %v", got)
	}
}

func TestGenerateVariations_SkipsAlreadyDoubled(t *testing.T) {
	got := GenerateVariations("ass")
	if slices.Contains(got, "asss") {
		t.Errorf("GenerateVariations(ass) should not re-double the doubled s: %v", got)
	}
}

func TestCheck(t *testing.T) {
	d := DefaultDetector()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{
			name: "clean text",
			in:   "My RA was kind and always available during quiet hours.",
			want: false,
		},
		{
			name: "plain profanity",
			in:   "this dorm is shit",
			want: true,
		},
		{
			name: "leetspeak obfuscation",
			in:   "this is sh1t",
			want: true,
		},
		{
			name: "censor character obfuscation",
			in:   "what the f*ck",
			want: true,
		},
		{
			name: "stretched word",
			in:   "fuuuuck this place",
			want: true,
		},
		{
			name: "inflected form via substring",
			in:   "always bitching about noise",
			want: true,
		},
		{
			name: "mixed case",
			in:   "total BULLSHIT",
			want: true,
		},
		{
			name: "empty string",
			in:   "",
			want: false,
		},
		{
			name: "blank string",
			in:   "   \t  ",
			want: false,
		},
		{
			name: "short words never match",
			in:   "class assignment", // contains "ass" as substring only
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Check(tt.in)
			if got.ContainsProfanity != tt.want {
				t.Errorf("Check(%q).ContainsProfanity = %v, want %v (matched %v)",
					tt.in, got.ContainsProfanity, tt.want, got.MatchedWords)
			}
			if got.ContainsProfanity && len(got.MatchedWords) == 0 {
				t.Error("ContainsProfanity true but MatchedWords empty")
			}
		})
	}
}

func TestCheck_StretchedFragment(t *testing.T) {
	d := NewDetector([]string{"fuck"})

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{
			name: "fragment cut short at the run",
			in:   "fuuuu",
			want: true,
		},
		{
			name: "fragment inside a sentence",
			in:   "oh fuuuu that inspection",
			want: true,
		},
		{
			name: "unrelated stretched word",
			in:   "sooooo good",
			want: false,
		},
		{
			name: "bare single-character run",
			in:   "aaaa",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Check(tt.in)
			if got.ContainsProfanity != tt.want {
				t.Errorf("Check(%q).ContainsProfanity = %v, want %v (matched %v)",
					tt.in, got.ContainsProfanity, tt.want, got.MatchedWords)
			}
		})
	}

	if got := d.Check("fuuuu"); !slices.Contains(got.MatchedWords, "fuck") {
		t.Errorf("Check(fuuuu).MatchedWords = %v, want the dictionary word recorded", got.MatchedWords)
	}
}

func TestCheck_RecordsDictionaryWordNotVariant(t *testing.T) {
	d := DefaultDetector()

	got := d.Check("this is sh1t")
	if !got.ContainsProfanity {
		t.Fatal("expected profanity detected")
	}
	if !slices.Contains(got.MatchedWords, "shit") && !slices.Contains(got.MatchedWords, "sh1t") {
		t.Errorf("MatchedWords = %v, want a dictionary word from the normalization path", got.MatchedWords)
	}
	for _, w := range got.MatchedWords {
		if strings.ContainsAny(w, " ") {
			t.Errorf("matched word %q is not a dictionary entry", w)
		}
	}
}

func TestFilter(t *testing.T) {
	d := DefaultDetector()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no matches returns input unchanged",
			in:   "A perfectly fine review about quiet hours.",
			want: "A perfectly fine review about quiet hours.",
		},
		{
			name: "plain word masked",
			in:   "this dorm is shit",
			want: "this dorm is ****",
		},
		{
			name: "obfuscated word masked via span mapping",
			in:   "this is sh1t",
			want: "this is ****",
		},
		{
			name: "mask preserves surrounding text",
			in:   "good floor, shit RA, nice dorm",
			want: "good floor, **** RA, nice dorm",
		},
		{
			name: "case-insensitive masking",
			in:   "total BULLSHIT here",
			want: "total ******** here",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Filter(tt.in); got != tt.want {
				t.Errorf("Filter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateReviewContent(t *testing.T) {
	d := DefaultDetector()

	tests := []struct {
		name      string
		in        string
		wantValid bool
	}{
		{
			name:      "empty text is valid",
			in:        "",
			wantValid: true,
		},
		{
			name:      "blank text is valid",
			in:        "   ",
			wantValid: true,
		},
		{
			name:      "clean text is valid",
			in:        "Helpful and friendly, ran great floor events.",
			wantValid: true,
		},
		{
			name:      "profane text is invalid",
			in:        "worst fucking RA ever",
			wantValid: false,
		},
		{
			name:      "obfuscated profanity is invalid",
			in:        "this RA is sh1t",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.ValidateReviewContent(tt.in)
			if got.IsValid != tt.wantValid {
				t.Errorf("ValidateReviewContent(%q).IsValid = %v, want %v", tt.in, got.IsValid, tt.wantValid)
			}
			if !got.IsValid {
				if got.Error != RejectionMessage {
					t.Errorf("Error = %q, want RejectionMessage", got.Error)
				}
				if len(got.MatchedWords) == 0 {
					t.Error("invalid result should carry matched words")
				}
			}
		})
	}
}

func TestParseDictionary(t *testing.T) {
	words := ParseDictionary("# comment\nFoo\n\nbar\nfoo\n  baz  \n")
	want := []string{"foo", "bar", "baz"}
	if !slices.Equal(words, want) {
		t.Errorf("ParseDictionary() = %v, want %v", words, want)
	}
}

func TestDefaultDetector_Reused(t *testing.T) {
	if DefaultDetector() != DefaultDetector() {
		t.Error("DefaultDetector should return the same instance")
	}
}
