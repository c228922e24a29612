package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
	"github.com/ericfisherdev/solfmtbot/internal/domain/port/driven"
)

// BuildCommentMarker identifies the build failure advisory comment on a
// pull request so re-runs update it instead of stacking duplicates.
const BuildCommentMarker = "solfmtbot:build-advisory"

// buildOutputLimit caps how much compiler output is quoted in the advisory
// comment.
const buildOutputLimit = 3000

// VerifyService confirms the project still compiles after the formatting
// stage. Event-triggered runs re-fetch the branch tip first so a pushed
// formatting commit is included.
type VerifyService struct {
	git     driven.GitClient
	builder driven.Builder
	writer  driven.GitHubWriter
	remote  string
}

// NewVerifyService creates a VerifyService. The writer may be nil, in which
// case build failures are reported through logs and exit status only.
func NewVerifyService(git driven.GitClient, builder driven.Builder, writer driven.GitHubWriter, remote string) *VerifyService {
	return &VerifyService{
		git:     git,
		builder: builder,
		writer:  writer,
		remote:  remote,
	}
}

// Verify runs a clean build of the project. Event triggers check out the
// branch tip first; manual runs build the working tree in place. A compile
// failure is returned as an error after a best-effort advisory comment on
// the originating pull request; no rollback of the formatting commit is
// attempted.
func (s *VerifyService) Verify(ctx context.Context, trigger model.Trigger) (model.BuildReport, error) {
	if trigger.TracksRemoteBranch() {
		if err := s.git.CheckoutRemoteHead(ctx, s.remote, trigger.Branch); err != nil {
			return model.BuildReport{}, model.NewStageError(model.StageBuildVerify, err)
		}
		slog.Debug("branch tip checked out", "remote", s.remote, "branch", trigger.Branch)
	} else {
		slog.Debug("building working tree in place", "kind", string(trigger.Kind))
	}

	report, err := s.builder.Build(ctx)
	if err != nil {
		return report, model.NewStageError(model.StageBuildVerify, err)
	}

	if report.Success {
		slog.Info("build verification passed", "duration", report.Duration)
		return report, nil
	}

	slog.Error("build verification failed",
		"duration", report.Duration,
		"output_bytes", len(report.Output),
	)
	s.advise(ctx, trigger, report)

	return report, model.NewStageError(model.StageBuildVerify, fmt.Errorf("project no longer compiles"))
}

// advise posts the build failure comment on the originating pull request.
// This is best-effort: a notification failure is logged and never masks the
// build failure itself.
func (s *VerifyService) advise(ctx context.Context, trigger model.Trigger, report model.BuildReport) {
	if !trigger.IsPullRequest() {
		return
	}
	if s.writer == nil {
		slog.Warn("no github token configured, skipping build advisory comment",
			"repo", trigger.RepoFullName,
			"pr", trigger.PRNumber,
		)
		return
	}

	body := buildAdvisoryComment(trigger, report)
	if err := s.writer.UpsertIssueComment(ctx, trigger.RepoFullName, trigger.PRNumber, BuildCommentMarker, body); err != nil {
		slog.Error("posting build advisory comment failed",
			"repo", trigger.RepoFullName,
			"pr", trigger.PRNumber,
			"error", err,
		)
		return
	}

	slog.Info("build advisory comment posted", "repo", trigger.RepoFullName, "pr", trigger.PRNumber)
}

// buildAdvisoryComment renders the human-readable failure comment with a
// local reproduction command and the tail of the compiler output.
func buildAdvisoryComment(trigger model.Trigger, report model.BuildReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### :warning: Build failed after formatting\n\n")
	fmt.Fprintf(&b, "The project no longer compiles on `%s` after the automated formatting pass. ", trigger.Branch)
	fmt.Fprintf(&b, "The formatting commit was **not** rolled back; please investigate locally:\n\n")
	fmt.Fprintf(&b, "```\nforge build --force\n```\n")

	if output := tail(report.Output, buildOutputLimit); output != "" {
		fmt.Fprintf(&b, "\n<details><summary>Compiler output</summary>\n\n```\n%s\n```\n</details>\n", output)
	}

	return b.String()
}

// tail returns the last limit bytes of s, trimmed and cut at a line
// boundary where possible.
func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}

	s = s[len(s)-limit:]
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	return s
}
