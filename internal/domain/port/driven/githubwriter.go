package driven

import "context"

// GitHubWriter defines the driven port for publishing pipeline reports to the
// originating pull request. It is write-only: nothing in the pipeline reads
// PR state beyond what the trigger event already carried.
type GitHubWriter interface {
	// UpsertIssueComment posts body as a PR-level comment on
	// repoFullName#prNumber, tagged with marker. When an existing comment
	// already carries marker it is updated in place instead of appending a
	// new one, keeping re-runs idempotent.
	UpsertIssueComment(ctx context.Context, repoFullName string, prNumber int, marker, body string) error
}
