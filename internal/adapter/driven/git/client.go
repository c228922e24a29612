// Package git implements the GitClient port by shelling out to the git
// executable, the same binary the CI checkout already configured. Credential
// context therefore matches the triggering event's: whatever helper or header
// the checkout installed is what Push authenticates with.
package git

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
	"github.com/ericfisherdev/solfmtbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitClient = (*Client)(nil)

// Client runs git commands against a single repository checkout.
type Client struct {
	repoDir string
}

// NewClient creates a Client operating on the repository at repoDir.
func NewClient(repoDir string) *Client {
	return &Client{repoDir: repoDir}
}

// ResolveRevision resolves rev to a full commit SHA via rev-parse.
func (c *Client) ResolveRevision(ctx context.Context, rev string) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	return strings.TrimSpace(out), nil
}

// ChangedFiles lists paths that differ between base and head, restricted to
// files that still exist at head (diff-filter ACMR: deleted files cannot be
// formatted). Output is NUL-separated to keep unusual path bytes intact.
func (c *Client) ChangedFiles(ctx context.Context, base, head string) (model.ChangeSet, error) {
	out, err := c.run(ctx, "diff", "--name-only", "-z", "--diff-filter=ACMR", base, head, "--")
	if err != nil {
		return nil, fmt.Errorf("diffing %s against %s: %w", base, head, err)
	}

	var files model.ChangeSet
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// HasLocalChanges reports whether the working tree differs from HEAD within
// paths (whole tree when paths is empty).
func (c *Client) HasLocalChanges(ctx context.Context, paths model.ChangeSet) (bool, error) {
	args := []string{"status", "--porcelain", "--"}
	args = append(args, paths...)
	out, err := c.run(ctx, args...)
	if err != nil {
		return false, fmt.Errorf("checking working tree status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// Stage adds paths to the index.
func (c *Client) Stage(ctx context.Context, paths model.ChangeSet) error {
	args := []string{"add", "--"}
	args = append(args, paths...)
	if _, err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("staging %d file(s): %w", len(paths), err)
	}
	return nil
}

// Commit records the staged changes as ident. Identity is passed through -c
// overrides so the checkout's own user configuration is never touched.
func (c *Client) Commit(ctx context.Context, message string, ident model.Identity) error {
	_, err := c.run(ctx,
		"-c", "user.name="+ident.Name,
		"-c", "user.email="+ident.Email,
		"commit", "-m", message,
	)
	if err != nil {
		return fmt.Errorf("committing as %s: %w", ident, err)
	}
	return nil
}

// Push publishes local HEAD to branch on remote.
func (c *Client) Push(ctx context.Context, remote, branch string) error {
	if _, err := c.run(ctx, "push", remote, "HEAD:refs/heads/"+branch); err != nil {
		return fmt.Errorf("pushing to %s/%s: %w", remote, branch, err)
	}
	return nil
}

// CheckoutRemoteHead fetches branch from remote and checks the fetched tip
// out detached, so the next build compiles exactly the pushed state without
// moving any local branch.
func (c *Client) CheckoutRemoteHead(ctx context.Context, remote, branch string) error {
	if _, err := c.run(ctx, "fetch", remote, branch); err != nil {
		return fmt.Errorf("fetching %s/%s: %w", remote, branch, err)
	}
	if _, err := c.run(ctx, "checkout", "--detach", "FETCH_HEAD"); err != nil {
		return fmt.Errorf("checking out %s/%s tip: %w", remote, branch, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name, or "" when HEAD is
// detached (the usual state inside a CI checkout).
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading current branch: %w", err)
	}

	branch := strings.TrimSpace(out)
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// run executes one git command in the repository directory and returns its
// stdout. Stderr is folded into the error on failure.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.repoDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	slog.Debug("git command",
		"subcommand", subcommand(args),
		"duration", time.Since(start).Round(time.Millisecond),
		"ok", err == nil,
	)

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", subcommand(args), err, msg)
		}
		return "", fmt.Errorf("git %s: %w", subcommand(args), err)
	}
	return stdout.String(), nil
}

// subcommand returns the first non-flag argument ("commit" out of
// "-c user.name=x commit -m msg") for log and error labels.
func subcommand(args []string) string {
	skip := false
	for _, a := range args {
		if skip {
			skip = false
			continue
		}
		if a == "-c" {
			skip = true
			continue
		}
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return "git"
}
