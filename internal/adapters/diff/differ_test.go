package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
)

// rebuild reconstructs one side of the diff from its segments.
func rebuild(segments []domain.Segment, skip string) string {
	var sb strings.Builder
	for _, s := range segments {
		if s.Op != skip {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

func TestDifferAppend(t *testing.T) {
	d := NewDiffer(0).Diff("abc", "abcd")

	require.Len(t, d.Segments, 2)
	assert.Equal(t, domain.Segment{Op: domain.OpEqual, Text: "abc"}, d.Segments[0])
	assert.Equal(t, domain.Segment{Op: domain.OpInsert, Text: "d"}, d.Segments[1])
	assert.Equal(t, 1, d.Inserted)
	assert.Equal(t, 0, d.Deleted)
	assert.Equal(t, 3, d.Equal)
}

func TestDifferEmptyInputs(t *testing.T) {
	assert.Empty(t, NewDiffer(0).Diff("", "").Segments)

	d := NewDiffer(0).Diff("hello", "")
	require.Len(t, d.Segments, 1)
	assert.Equal(t, domain.OpDelete, d.Segments[0].Op)
	assert.Equal(t, 5, d.Deleted)
}

func TestDifferIdentical(t *testing.T) {
	d := NewDiffer(0).Diff("同じ文章です", "同じ文章です")
	require.Len(t, d.Segments, 1)
	assert.Equal(t, 6, d.Equal)
}

func TestDifferRoundTrip(t *testing.T) {
	base := "お問い合わせありがとうございます。口座の残高は翌営業日に反映されます。"
	revised := "お問い合わせいただきありがとうございます。残高は二営業日以内に反映されます。"

	d := NewDiffer(0).Diff(base, revised)
	assert.Equal(t, base, rebuild(d.Segments, domain.OpInsert))
	assert.Equal(t, revised, rebuild(d.Segments, domain.OpDelete))
	assert.Positive(t, d.Inserted+d.Deleted)
}
