package normalizer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_edit_similarity/internal/ports"
)

// NormalizerFactory creates normalizers by type.
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// NormalizerType selects a normalizer.
type NormalizerType int

const (
	// IdentityNormalizerType compares raw code points.
	IdentityNormalizerType NormalizerType = iota
	// NFCNormalizerType composes canonically equivalent sequences.
	NFCNormalizerType
	// NFKCNormalizerType also folds compatibility characters such as full-width digits.
	NFKCNormalizerType
)

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case NFCNormalizerType:
		return NewUnicodeNormalizer(DefaultUnicodeOptions())
	case NFKCNormalizerType:
		opts := DefaultUnicodeOptions()
		opts.Form = norm.NFKC
		return NewUnicodeNormalizer(opts)
	default:
		return NewIdentityNormalizer()
	}
}

// ParseType maps a configuration string ("none", "nfc", "nfkc") to a type.
func ParseType(name string) (NormalizerType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "identity":
		return IdentityNormalizerType, nil
	case "nfc":
		return NFCNormalizerType, nil
	case "nfkc":
		return NFKCNormalizerType, nil
	default:
		return IdentityNormalizerType, fmt.Errorf("unknown normalizer %q", name)
	}
}
