// Package revision scores how much an operator changed a generated draft.
//
// A Scorer wraps the edit ratio calculator with optional Unicode
// normalization, an LRU result cache, Prometheus metrics and a display diff.
package revision

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/baditaflorin/l"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_edit_similarity/internal/adapters/cache"
	"github.com/baditaflorin/go_edit_similarity/internal/adapters/diff"
	"github.com/baditaflorin/go_edit_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_edit_similarity/internal/adapters/metrics"
	"github.com/baditaflorin/go_edit_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
	"github.com/baditaflorin/go_edit_similarity/internal/core/edit"
	"github.com/baditaflorin/go_edit_similarity/internal/ports"
	"github.com/baditaflorin/go_edit_similarity/internal/warmup"
)

type (
	// Result is the score of one revision.
	Result = domain.Result
	// Review is a Result together with its display diff.
	Review = domain.Review
	// Segment is one run of a display diff.
	Segment = domain.Segment
)

// Diff segment operations.
const (
	OpEqual  = domain.OpEqual
	OpInsert = domain.OpInsert
	OpDelete = domain.OpDelete
)

// Scorer computes edit ratios between drafts and their revisions.
type Scorer struct {
	calculator ports.SimilarityCalculator
	// warmTarget is an unobserved, uncached calculator used for warm-up.
	warmTarget ports.SimilarityCalculator
	config     edit.SimilarityConfig
	cache      *cache.CachedCalculator
	differ     ports.Differ
	logger     ports.Logger
	normalizer ports.Normalizer
	ownsLogger bool
	warmed     atomic.Bool
}

// Option defines a functional option for configuring a Scorer.
type Option func(*scorerConfig)

type scorerConfig struct {
	Threshold      float64
	Precision      int
	Logger         ports.Logger
	Normalizer     ports.Normalizer
	NormalizerName string
	CacheSize      int
	Registerer     prometheus.Registerer
	Namespace      string
	DiffTimeout    time.Duration
	WarmUp         bool
	WarmUpConfig   warmup.WarmupConfig
}

// WithThreshold sets the ratio at or above which a revision is flagged.
func WithThreshold(th float64) Option {
	return func(cfg *scorerConfig) {
		cfg.Threshold = th
	}
}

// WithPrecision sets the number of decimals kept in reported ratios.
func WithPrecision(p int) Option {
	return func(cfg *scorerConfig) {
		cfg.Precision = p
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *scorerConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer applied to both texts.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *scorerConfig) {
		cfg.Normalizer = n
	}
}

// WithUnicodeNormalization compares texts after converting them to form and
// unifying line endings.
func WithUnicodeNormalization(form norm.Form) Option {
	return func(cfg *scorerConfig) {
		opts := normalizer.DefaultUnicodeOptions()
		opts.Form = form
		cfg.Normalizer = normalizer.NewUnicodeNormalizer(opts)
	}
}

// WithNormalizerName selects a normalizer by name: "none", "nfc" or "nfkc".
func WithNormalizerName(name string) Option {
	return func(cfg *scorerConfig) {
		cfg.NormalizerName = name
	}
}

// WithCache memoizes up to size (base, revised) pairs.
func WithCache(size int) Option {
	return func(cfg *scorerConfig) {
		cfg.CacheSize = size
	}
}

// WithObserver exports metrics to reg under the given namespace.
func WithObserver(namespace string, reg prometheus.Registerer) Option {
	return func(cfg *scorerConfig) {
		cfg.Namespace = namespace
		cfg.Registerer = reg
	}
}

// WithDiffTimeout bounds the time spent building display diffs.
func WithDiffTimeout(d time.Duration) Option {
	return func(cfg *scorerConfig) {
		cfg.DiffTimeout = d
	}
}

// WithWarmUp enables warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *scorerConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config warmup.WarmupConfig) Option {
	return func(cfg *scorerConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// New creates a new Scorer.
func New(opts ...Option) (s *Scorer, err error) {
	defaultConfig := edit.DefaultConfig()

	config := &scorerConfig{
		Threshold:    defaultConfig.Threshold,
		Precision:    defaultConfig.Precision,
		WarmUpConfig: warmup.DefaultWarmupConfig(),
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Normalizer == nil {
		typ, err := normalizer.ParseType(config.NormalizerName)
		if err != nil {
			return nil, err
		}
		config.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(typ)
	}

	ownsLogger := false
	if config.Logger == nil {
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		ownsLogger = true
		defer func() {
			if err != nil {
				_ = config.Logger.Close()
			}
		}()
	}

	var observer ports.Observer
	if config.Registerer != nil {
		obs, err := metrics.NewPrometheusObserver(config.Namespace, config.Registerer)
		if err != nil {
			return nil, err
		}
		observer = obs
	}

	coreConfig := edit.SimilarityConfig{
		Threshold: config.Threshold,
		Precision: config.Precision,
	}
	calculator, err := edit.NewCalculator(coreConfig, config.Logger, config.Normalizer, observer)
	if err != nil {
		return nil, err
	}
	warmTarget := calculator
	if observer != nil {
		// Warm-up samples must not show up in exported metrics.
		warmTarget, err = edit.NewCalculator(coreConfig, config.Logger, config.Normalizer, nil)
		if err != nil {
			return nil, err
		}
	}

	s = &Scorer{
		calculator: calculator,
		warmTarget: warmTarget,
		config:     coreConfig,
		differ:     diff.NewDiffer(config.DiffTimeout),
		logger:     config.Logger,
		normalizer: config.Normalizer,
		ownsLogger: ownsLogger,
	}

	if config.CacheSize > 0 {
		cached, err := cache.NewCachedCalculator(calculator, config.CacheSize, config.Logger)
		if err != nil {
			return nil, err
		}
		s.cache = cached
		s.calculator = cached
	}

	if config.WarmUp {
		s.WarmUp(context.Background(), config.WarmUpConfig)
	}

	return s, nil
}

// Threshold returns the configured review threshold.
func (s *Scorer) Threshold() float64 {
	return s.config.Threshold
}

// Ratio returns the unrounded edit ratio of the normalized texts.
func (s *Scorer) Ratio(base, revised string) float64 {
	return edit.Ratio(s.normalizer.Normalize(base), s.normalizer.Normalize(revised))
}

// Compute scores revised against base.
func (s *Scorer) Compute(ctx context.Context, base, revised string) Result {
	return s.calculator.Compute(ctx, base, revised)
}

// Review scores revised against base and attaches a display diff of the
// normalized texts. The diff is skipped for cancelled computations.
func (s *Scorer) Review(ctx context.Context, base, revised string) Review {
	result := s.Compute(ctx, base, revised)
	review := Review{Result: result}
	if result.Cancelled() {
		return review
	}
	review.Diff = s.differ.Diff(s.normalizer.Normalize(base), s.normalizer.Normalize(revised))
	return review
}

// CacheStats reports cache hits and misses; ok is false when caching is off.
func (s *Scorer) CacheStats() (hits, misses uint64, ok bool) {
	if s.cache == nil {
		return 0, 0, false
	}
	hits, misses = s.cache.Stats()
	return hits, misses, true
}

// WarmUp exercises the scorer so later calls hit warm pools.
func (s *Scorer) WarmUp(ctx context.Context, config warmup.WarmupConfig) {
	if !s.warmed.CompareAndSwap(false, true) {
		s.logger.Debug("Scorer already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(s.logger, config)
	warmupMgr.RegisterCalculator(s.warmTarget)
	warmupMgr.RegisterNormalizer(s.normalizer)

	warmupMgr.WarmUp(ctx)
}

// Close releases the logger when the Scorer created it.
func (s *Scorer) Close() error {
	if s.ownsLogger {
		return s.logger.Close()
	}
	return nil
}
