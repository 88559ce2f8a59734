package ports

import (
	"context"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
)

// SimilarityCalculator defines the interface for scoring a revision against its draft.
type SimilarityCalculator interface {
	Compute(ctx context.Context, base, revised string) domain.Result
}
