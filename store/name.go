package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"graystore/raster"

	"github.com/google/uuid"
)

const maxStemLen = 40

// deriveName builds a candidate output filename: UTC timestamp, sanitized
// stem of the original name, random token, canonical extension. The token
// is what keeps concurrent saves of the same original apart; callers retry
// with a fresh derivation if the name is already taken.
func deriveName(originalName string, now time.Time) string {
	token := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%s-%s%s",
		now.UTC().Format("20060102T150405"), sanitizeStem(originalName), token, raster.OutputExt)
}

// sanitizeStem reduces an original filename to a safe lowercase stem:
// path and extension stripped, anything outside [a-z0-9_] collapsed to a
// single dash, capped in length.
func sanitizeStem(originalName string) string {
	base := filepath.Base(originalName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(stem) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	out := b.String()
	if len(out) > maxStemLen {
		out = strings.TrimRight(out[:maxStemLen], "-")
	}
	if out == "" {
		return "image"
	}
	return out
}
