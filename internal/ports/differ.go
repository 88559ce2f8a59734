package ports

import "github.com/baditaflorin/go_edit_similarity/internal/core/domain"

// Differ produces a display diff between a draft and its revision.
type Differ interface {
	Diff(base, revised string) domain.Diff
}
