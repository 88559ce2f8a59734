package edit

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
	"github.com/baditaflorin/go_edit_similarity/internal/ports"
)

// MetricName identifies results produced by Calculator.
const MetricName = "edit_ratio"

// SimilarityConfig holds configuration for the revision calculator.
type SimilarityConfig struct {
	// Threshold is the ratio at or above which a revision is flagged.
	Threshold float64
	Precision int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() SimilarityConfig {
	return SimilarityConfig{
		Threshold: 0.35,
		Precision: 3,
	}
}

// Validate checks if the configuration is valid.
func (c SimilarityConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.New("threshold must be between 0 and 1")
	}
	if c.Precision < 0 || c.Precision > 10 {
		return errors.New("precision must be between 0 and 10")
	}
	return nil
}

// Calculator scores operator revisions against generated drafts.
type Calculator struct {
	config     SimilarityConfig
	logger     ports.Logger
	normalizer ports.Normalizer
	observer   ports.Observer
}

// NewCalculator creates a new revision calculator. observer may be nil.
func NewCalculator(config SimilarityConfig, logger ports.Logger, normalizer ports.Normalizer, observer ports.Observer) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if normalizer == nil {
		return nil, errors.New("normalizer is required")
	}

	return &Calculator{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
		observer:   observer,
	}, nil
}

// Config returns the calculator configuration.
func (c *Calculator) Config() SimilarityConfig {
	return c.config
}

// Compute scores revised against base.
func (c *Calculator) Compute(ctx context.Context, base, revised string) domain.Result {
	start := time.Now()
	c.logger.Debug("Starting edit ratio computation",
		"base_bytes", len(base),
		"revised_bytes", len(revised),
	)

	details := make(map[string]interface{})

	normalizedBase := c.normalizer.Normalize(base)
	normalizedRevised := c.normalizer.Normalize(revised)

	select {
	case <-ctx.Done():
		c.logger.Error("Computation cancelled", "error", ctx.Err())
		details["error"] = "computation cancelled"
		result := domain.Result{
			Name:      MetricName,
			Threshold: c.config.Threshold,
			Details:   details,
		}
		c.observe(result, start)
		return result
	default:
	}

	baseRunes := runePool.Decode(normalizedBase)
	defer runePool.Put(baseRunes)
	revisedRunes := runePool.Decode(normalizedRevised)
	defer runePool.Put(revisedRunes)

	baseLen := len(*baseRunes)
	revisedLen := len(*revisedRunes)
	c.logger.Debug("Computed code point counts",
		"base_length", baseLen,
		"revised_length", revisedLen,
	)

	distance, rawRatio := Score(*baseRunes, *revisedRunes)

	// Precision only affects the reported values.
	flagged := rawRatio >= c.config.Threshold

	factor := math.Pow(10, float64(c.config.Precision))
	ratio := math.Round(rawRatio*factor) / factor
	percent := math.Round(ratio*100*factor) / factor

	details["distance"] = distance
	details["base_length"] = baseLen
	details["revised_length"] = revisedLen
	details["threshold"] = c.config.Threshold

	c.logger.Debug("Computed edit ratio",
		"ratio", ratio,
		"distance", distance,
		"flagged", flagged,
	)

	result := domain.Result{
		Name:          MetricName,
		Ratio:         ratio,
		RawRatio:      rawRatio,
		Percent:       percent,
		Distance:      distance,
		BaseLength:    baseLen,
		RevisedLength: revisedLen,
		Flagged:       flagged,
		Threshold:     c.config.Threshold,
		Details:       details,
	}
	c.observe(result, start)
	return result
}

func (c *Calculator) observe(result domain.Result, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveResult(result, time.Since(start))
}
