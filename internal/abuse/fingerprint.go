// Package abuse provides submitter fingerprinting and near-duplicate
// review detection. Fingerprints let the API enforce one-review-per-
// submitter rules without storing raw IPs or account identity.
package abuse

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint derives a stable submitter hash from the client IP and
// device signals (user agent, accept-language). The raw inputs are
// never stored; only the hex digest is.
func Fingerprint(ip string, signals ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(ip)))
	for _, s := range signals {
		h.Write([]byte{0})
		h.Write([]byte(strings.TrimSpace(s)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
