package ports

import (
	"time"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
)

// Observer receives a record of every completed computation.
type Observer interface {
	ObserveResult(result domain.Result, elapsed time.Duration)
}
