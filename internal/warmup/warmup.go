package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_edit_similarity/internal/ports"
)

// WarmupConfig defines configuration for warming up the scorers
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Approximate size in bytes of the generated sample draft
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration.
// Drafts are operator-facing replies, so samples stay short.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleTextSize: 400,
		Duration:       2 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles warmup of calculators and normalizers
type Manager struct {
	logger      ports.Logger
	calculators []ports.SimilarityCalculator
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterCalculator adds a calculator to be warmed up
func (wm *Manager) RegisterCalculator(calc ports.SimilarityCalculator) {
	wm.calculators = append(wm.calculators, calc)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components.
// It returns once every routine has stopped.
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting warmup",
		"components", len(wm.calculators)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	draft := generateSampleText(wm.config.SampleTextSize)

	if len(wm.normalizers) > 0 {
		wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))
		wm.run(warmupCtx, func(int) {
			for _, normalizer := range wm.normalizers {
				_ = normalizer.Normalize(draft)
			}
		})
	}

	if len(wm.calculators) > 0 {
		wm.logger.Debug("Warming up calculators", "count", len(wm.calculators))
		lightEdit := generateRevision(draft, 0.1)
		heavyEdit := generateRevision(draft, 0.5)
		wm.run(warmupCtx, func(j int) {
			for _, calculator := range wm.calculators {
				switch j % 3 {
				case 0:
					_ = calculator.Compute(warmupCtx, draft, draft)
				case 1:
					_ = calculator.Compute(warmupCtx, draft, lightEdit)
				default:
					_ = calculator.Compute(warmupCtx, draft, heavyEdit)
				}
			}
		})
	}

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("Warmup completed",
		"duration", time.Since(startTime),
	)
}

// run executes fn Iterations times on each of Concurrency goroutines.
func (wm *Manager) run(ctx context.Context, fn func(iteration int)) {
	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < wm.config.Iterations; j++ {
				if ctx.Err() != nil {
					return
				}
				fn(j)
			}
		}()
	}
	wg.Wait()
}

var sampleWords = []string{
	"thank", "you", "for", "contacting", "us", "regarding", "your", "account",
	"the", "transfer", "will", "be", "reflected", "within", "two", "business",
	"days", "please", "confirm", "statement", "balance", "fee", "request",
	"ご連絡", "ありがとう", "ございます", "口座", "振込", "手数料",
}

// generateSampleText creates a draft of roughly size bytes
func generateSampleText(size int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(sampleWords[i%len(sampleWords)])
	}
	return sb.String()
}

// generateRevision replaces roughly diffRatio of the draft's words
func generateRevision(draft string, diffRatio float64) string {
	words := strings.Fields(draft)
	changeCount := int(float64(len(words)) * diffRatio)

	replacements := []string{
		"revised", "amended", "clarified", "updated", "corrected",
		"訂正", "変更",
	}

	revised := make([]string, len(words))
	copy(revised, words)
	for i := 0; i < changeCount && i < len(revised); i++ {
		revised[i] = replacements[i%len(replacements)]
	}
	return strings.Join(revised, " ")
}
