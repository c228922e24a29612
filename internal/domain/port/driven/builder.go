package driven

import (
	"context"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// Builder defines the driven port for the external build toolchain.
type Builder interface {
	// Build compiles the project from a clean slate (no incremental cache
	// reuse, so stale artifacts cannot produce false negatives). A compile
	// failure is reported in the BuildReport, not as an error; the error
	// return covers invocation problems only (toolchain missing, killed).
	Build(ctx context.Context) (model.BuildReport, error)
}
