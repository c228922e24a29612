package driven

import (
	"context"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// Formatter defines the driven port for the external code formatter. Both
// operations act on one file at a time: the compliance decision is per file,
// and a rewrite failure must name the file that caused it.
type Formatter interface {
	// Check runs the formatter in check-only mode against file and reports
	// whether the file already complies with the active style profile.
	// A non-compliant file is not an error; only invocation failures are.
	Check(ctx context.Context, file string) (compliant bool, err error)

	// Format rewrites file in place to the active style profile.
	Format(ctx context.Context, file string) error

	// Style returns the profile the formatter resolved at construction:
	// the project-local configuration artifact when present, else built-in
	// defaults.
	Style() model.StyleProfile
}
