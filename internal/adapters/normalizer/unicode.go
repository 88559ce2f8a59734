package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_edit_similarity/internal/ports"
)

// UnicodeOptions controls the UnicodeNormalizer.
type UnicodeOptions struct {
	// Form is the Unicode normalization form applied to the text.
	Form norm.Form
	// UnifyLineEndings rewrites \r\n and lone \r as \n.
	UnifyLineEndings bool
	// TrimSpace removes leading and trailing white space.
	TrimSpace bool
	// CollapseSpace folds runs of white space (other than newlines) into one space.
	CollapseSpace bool
}

// DefaultUnicodeOptions returns NFC with line endings unified.
func DefaultUnicodeOptions() UnicodeOptions {
	return UnicodeOptions{
		Form:             norm.NFC,
		UnifyLineEndings: true,
	}
}

// UnicodeNormalizer makes canonically equivalent drafts compare equal, e.g.
// a precomposed "é" and "e" followed by a combining acute accent.
type UnicodeNormalizer struct {
	opts UnicodeOptions
}

// NewUnicodeNormalizer creates a normalizer with the given options.
func NewUnicodeNormalizer(opts UnicodeOptions) ports.Normalizer {
	return &UnicodeNormalizer{opts: opts}
}

// Normalize applies the configured transformations in a fixed order:
// line endings, normalization form, white space.
func (n *UnicodeNormalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	if n.opts.UnifyLineEndings && strings.IndexByte(text, '\r') >= 0 {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	if !n.opts.Form.IsNormalString(text) {
		text = n.opts.Form.String(text)
	}
	if n.opts.CollapseSpace {
		text = collapseSpace(text)
	}
	if n.opts.TrimSpace {
		text = strings.TrimSpace(text)
	}
	return text
}

func collapseSpace(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	lastWasSpace := false
	for _, r := range text {
		if r != '\n' && unicode.IsSpace(r) {
			if !lastWasSpace {
				sb.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}
		sb.WriteRune(r)
		lastWasSpace = false
	}
	return sb.String()
}
