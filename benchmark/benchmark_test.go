package benchmark

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_edit_similarity"
	"github.com/baditaflorin/go_edit_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_edit_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_edit_similarity/internal/core/edit"
	"github.com/baditaflorin/go_edit_similarity/pkg/revision"
)

// generateText creates a text of the specified size by repeating a sample reply
func generateText(size int) string {
	if size <= 0 {
		return ""
	}

	sample := "Thank you for contacting us. Your transfer request has been received and will be reflected in your account within two business days. "
	var sb strings.Builder
	sb.Grow(size + len(sample))
	for sb.Len() < size {
		sb.WriteString(sample)
	}
	return sb.String()[:size]
}

// revise replaces every n-th byte of an ASCII text.
func revise(text string, n int) string {
	b := []byte(text)
	for i := 0; i < len(b); i += n {
		b[i] = '#'
	}
	return string(b)
}

func BenchmarkSimilarityRatio(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"100B", 100},
		{"1KB", 1000},
		{"4KB", 4000},
	}

	for _, sz := range sizes {
		base := generateText(sz.size)
		revised := revise(base, 17)

		b.Run(sz.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(base)))
			for i := 0; i < b.N; i++ {
				_ = editsimilarity.SimilarityRatio(base, revised)
			}
		})
	}
}

// BenchmarkFullTable compares the rolling rows with the textbook full table.
func BenchmarkFullTable(b *testing.B) {
	base := []rune(generateText(1000))
	revised := []rune(revise(string(base), 17))

	b.Run("RollingRows", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = edit.Distance(base, revised)
		}
	})

	b.Run("FullTable", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			table := make([][]int, len(base)+1)
			for r := range table {
				table[r] = make([]int, len(revised)+1)
				table[r][0] = r
			}
			for c := range table[0] {
				table[0][c] = c
			}
			for r := 1; r <= len(base); r++ {
				for c := 1; c <= len(revised); c++ {
					if base[r-1] == revised[c-1] {
						table[r][c] = table[r-1][c-1]
					} else {
						table[r][c] = 1 + min(table[r-1][c], table[r][c-1], table[r-1][c-1])
					}
				}
			}
		}
	})
}

func BenchmarkNormalizers(b *testing.B) {
	text := generateText(10000)
	factory := normalizer.NewNormalizerFactory()

	benchmarks := []struct {
		name     string
		normType normalizer.NormalizerType
	}{
		{"Identity", normalizer.IdentityNormalizerType},
		{"NFC", normalizer.NFCNormalizerType},
		{"NFKC", normalizer.NFKCNormalizerType},
	}

	for _, bm := range benchmarks {
		norm := factory.CreateNormalizer(bm.normType)
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = norm.Normalize(text)
			}
		})
	}
}

func BenchmarkScorer(b *testing.B) {
	base := generateText(1000)
	revised := revise(base, 23)
	ctx := context.Background()

	b.Run("Uncached", func(b *testing.B) {
		s := newScorer(b)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = s.Compute(ctx, base, revised)
		}
	})

	b.Run("Cached", func(b *testing.B) {
		s := newScorer(b, revision.WithCache(16))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = s.Compute(ctx, base, revised)
		}
	})

	b.Run("Calculator", func(b *testing.B) {
		calc, err := edit.NewCalculator(edit.DefaultConfig(), logger.NewNopLogger(), normalizer.NewIdentityNormalizer(), nil)
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = calc.Compute(ctx, base, revised)
		}
	})
}

func newScorer(b *testing.B, opts ...revision.Option) *revision.Scorer {
	b.Helper()
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:     io.Discard,
		BufferSize: 64 * 1024,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = lg.Close() })

	s, err := revision.New(append(opts, revision.WithLogger(lg))...)
	if err != nil {
		b.Fatal(err)
	}
	return s
}
