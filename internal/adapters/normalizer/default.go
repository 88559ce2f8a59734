package normalizer

import (
	"github.com/baditaflorin/go_edit_similarity/internal/ports"
)

// IdentityNormalizer leaves text untouched, so every code point counts.
type IdentityNormalizer struct{}

// NewIdentityNormalizer creates the default normalizer.
func NewIdentityNormalizer() ports.Normalizer {
	return &IdentityNormalizer{}
}

// Normalize returns text unchanged.
func (n *IdentityNormalizer) Normalize(text string) string {
	return text
}
