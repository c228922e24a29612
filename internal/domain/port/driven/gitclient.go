package driven

import (
	"context"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// GitClient defines the driven port for version-control operations on the
// single working-tree checkout. The default adapter shells out to the git
// executable; the interface keeps callers independent of that choice.
//
// The working tree and the remote branch ref are the pipeline's only shared
// mutable state. Stages run strictly sequentially, so the port carries no
// locking; mutation is confined to Stage, Commit, Push, and
// CheckoutRemoteHead.
type GitClient interface {
	// ResolveRevision resolves rev to a full commit SHA, failing if rev does
	// not name a commit known to the repository.
	ResolveRevision(ctx context.Context, rev string) (string, error)

	// ChangedFiles lists the paths that differ between base and head,
	// restricted to files that still exist at head (added, copied, modified,
	// renamed). Order is git's path order and is deterministic. Read-only.
	ChangedFiles(ctx context.Context, base, head string) (model.ChangeSet, error)

	// HasLocalChanges reports whether the working tree differs from HEAD
	// within the given paths (the whole tree when paths is empty).
	HasLocalChanges(ctx context.Context, paths model.ChangeSet) (bool, error)

	// Stage adds the given paths to the index.
	Stage(ctx context.Context, paths model.ChangeSet) error

	// Commit records the staged changes with the given message, authored and
	// committed as ident.
	Commit(ctx context.Context, message string, ident model.Identity) error

	// Push publishes local HEAD to branch on remote using the ambient
	// credential context (whatever the triggering checkout configured).
	Push(ctx context.Context, remote, branch string) error

	// CheckoutRemoteHead fetches branch from remote and checks out the
	// fetched tip detached, so a later build sees the pushed state.
	CheckoutRemoteHead(ctx context.Context, remote, branch string) error

	// CurrentBranch returns the checked-out branch name, or "" when HEAD is
	// detached. Read-only.
	CurrentBranch(ctx context.Context) (string, error)
}
