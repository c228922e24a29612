package actions

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// WriteOutput appends detection results to the step output file named by
// GITHUB_OUTPUT so downstream workflow steps can gate on them. Two outputs
// are written: "changed" (bool) and "files" (newline-separated paths). An
// empty path is a no-op for runs outside Actions.
func WriteOutput(path string, changed bool, files model.ChangeSet) error {
	if path == "" {
		slog.Debug("no step output file configured, skipping outputs")
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening step output file %s: %w", path, err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString("changed=")
	b.WriteString(strconv.FormatBool(changed))
	b.WriteByte('\n')

	// Multiline values use the heredoc form with a collision-proof delimiter.
	delimiter := "ghadelimiter_" + uuid.NewString()
	b.WriteString("files<<")
	b.WriteString(delimiter)
	b.WriteByte('\n')
	for _, file := range files {
		b.WriteString(file)
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("writing step outputs to %s: %w", path, err)
	}
	return nil
}
