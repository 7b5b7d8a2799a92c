package abuse

import (
	"strings"

	"github.com/ratemyra/api/internal/review"
	"github.com/ratemyra/api/internal/similarity"
)

// DuplicateTextThreshold is the similarity at or above which two review
// texts are treated as the same review resubmitted.
const DuplicateTextThreshold = 0.9

// IsDuplicateSubmission reports whether the candidate text, or the
// submitter fingerprint, collides with an existing review for the same
// entity. A submitter may review an entity once; anyone resubmitting
// near-identical text is caught regardless of fingerprint.
func IsDuplicateSubmission(text, submitterHash string, existing []review.Review) bool {
	text = strings.TrimSpace(text)

	for i := range existing {
		if submitterHash != "" && existing[i].SubmitterHash == submitterHash {
			return true
		}
		if text == "" {
			continue
		}
		if existing[i].Text == nil {
			continue
		}
		other := strings.TrimSpace(*existing[i].Text)
		if other == "" {
			continue
		}
		if similarity.Similarity(text, other) >= DuplicateTextThreshold {
			return true
		}
	}

	return false
}
