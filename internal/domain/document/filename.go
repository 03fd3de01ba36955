package document

import (
	"strings"
	"time"
)

const (
	maxNameLen   = 30
	maskedSuffix = "_Masked"
	fileExt      = ".pdf"
)

// FilenameComposer derives a deterministic, filesystem-safe document name
// from subject name, identifier, and the current date. The clock is
// injected so the output is reproducible in tests.
type FilenameComposer struct {
	now func() time.Time
}

// NewFilenameComposer creates a composer using the given clock; nil falls
// back to time.Now.
func NewFilenameComposer(now func() time.Time) *FilenameComposer {
	if now == nil {
		now = time.Now
	}
	return &FilenameComposer{now: now}
}

// Compose returns "{sanitizedName}_{identifier}_{YYYY-MM-DD}.pdf", with a
// "_Masked" marker before the extension on masked copies unless the base
// name already carries it.
func (f *FilenameComposer) Compose(subjectName, identifier string, masked bool) string {
	name := sanitizeName(subjectName)
	base := name + "_" + identifier + "_" + f.now().Format("2006-01-02")
	if masked && !strings.Contains(base, maskedSuffix) {
		base += maskedSuffix
	}
	return base + fileExt
}

// sanitizeName replaces every character outside [A-Za-z0-9] with '_' (1:1,
// so the name keeps its shape) and truncates to 30 characters.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if len(out) > maxNameLen {
		out = out[:maxNameLen]
	}
	return out
}
