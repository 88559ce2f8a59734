package diff

import (
	"time"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
)

// DefaultTimeout bounds how long the diff may spend optimizing its output.
const DefaultTimeout = time.Second

// Differ renders the changes between a draft and its revision as segments.
type Differ struct {
	timeout time.Duration
}

// NewDiffer creates a differ. A non-positive timeout selects DefaultTimeout.
func NewDiffer(timeout time.Duration) *Differ {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Differ{timeout: timeout}
}

// Diff returns semantically cleaned segments and code point counts per operation.
func (d *Differ) Diff(base, revised string) domain.Diff {
	if base == revised {
		if base == "" {
			return domain.Diff{}
		}
		return domain.Diff{
			Segments: []domain.Segment{{Op: domain.OpEqual, Text: base}},
			Equal:    utf8.RuneCountInString(base),
		}
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = d.timeout
	diffs := dmp.DiffMain(base, revised, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	result := domain.Diff{Segments: make([]domain.Segment, 0, len(diffs))}
	for _, df := range diffs {
		n := utf8.RuneCountInString(df.Text)
		var op string
		switch df.Type {
		case diffmatchpatch.DiffInsert:
			op = domain.OpInsert
			result.Inserted += n
		case diffmatchpatch.DiffDelete:
			op = domain.OpDelete
			result.Deleted += n
		default:
			op = domain.OpEqual
			result.Equal += n
		}
		result.Segments = append(result.Segments, domain.Segment{Op: op, Text: df.Text})
	}
	return result
}
