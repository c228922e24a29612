package model

// TriggerKind identifies the event shape that started a pipeline run.
type TriggerKind string

const (
	TriggerPullRequest TriggerKind = "pull_request"
	TriggerPush        TriggerKind = "push"
	TriggerManual      TriggerKind = "manual" // CLI invocation outside a CI event.
)

// Trigger carries the originating event context for one pipeline run.
// It is built once at startup (from the Actions event payload or from CLI
// flags) and passed read-only through every stage.
type Trigger struct {
	Kind         TriggerKind
	RepoFullName string // "owner/repo"; empty for manual runs outside Actions.
	PRNumber     int    // Pull request number; zero unless Kind is TriggerPullRequest.
	Branch       string // PR head branch, or the pushed branch. Empty for manual runs.
	Revisions    RevisionPair
}

// IsPullRequest reports whether the run was started by a pull request event.
// Only pull request runs post comments.
func (t Trigger) IsPullRequest() bool {
	return t.Kind == TriggerPullRequest && t.PRNumber > 0
}

// HasBranch reports whether the trigger names a branch that commits can be
// pushed to.
func (t Trigger) HasBranch() bool {
	return t.Branch != ""
}

// TracksRemoteBranch reports whether the verifier must re-fetch the branch
// tip before building. Event triggers follow the pushed state of the branch;
// manual runs build the local tree as it stands, even when a branch is
// checked out.
func (t Trigger) TracksRemoteBranch() bool {
	return t.Kind != TriggerManual && t.HasBranch()
}
