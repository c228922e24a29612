package model

import "fmt"

// Default formatting profile, matching the formatter's own built-ins. Used
// whenever the project ships no style configuration artifact.
const (
	DefaultTabWidth   = 4
	DefaultLineLength = 120
)

// StyleProfile is the formatting profile the compliance check runs under.
// It is resolved once per run from the project-local configuration artifact
// (foundry.toml) when present, else from built-in defaults.
type StyleProfile struct {
	TabWidth   int    // Spaces per indentation level.
	LineLength int    // Maximum line width in columns.
	SourcePath string // Config artifact the profile came from; empty means built-in defaults.
}

// DefaultStyle returns the built-in profile: 4-space indent, 120 columns.
func DefaultStyle() StyleProfile {
	return StyleProfile{TabWidth: DefaultTabWidth, LineLength: DefaultLineLength}
}

// String renders the profile for logs and the summary comment.
func (p StyleProfile) String() string {
	return fmt.Sprintf("%d-space indent, %d column width", p.TabWidth, p.LineLength)
}
