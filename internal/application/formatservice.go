package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
	"github.com/ericfisherdev/solfmtbot/internal/domain/port/driven"
)

// FormatCommentMarker identifies the formatting summary comment on a pull
// request so re-runs update it instead of stacking duplicates.
const FormatCommentMarker = "solfmtbot:format-report"

// commitMessageData is the template context for rendering commit messages.
type commitMessageData struct {
	Count int
	Files []string
}

// FormatService checks and applies formatting to a changed file set, then
// persists the result as a bot-authored commit pushed to the originating
// branch.
type FormatService struct {
	git       driven.GitClient
	formatter driven.Formatter
	writer    driven.GitHubWriter
	remote    string
	identity  model.Identity
	message   *template.Template
}

// NewFormatService creates a FormatService. The writer may be nil, in which
// case the notify step is skipped with a warning. commitMessage is a
// text/template body rendered with {{.Count}} and {{.Files}}.
func NewFormatService(
	git driven.GitClient,
	formatter driven.Formatter,
	writer driven.GitHubWriter,
	remote string,
	identity model.Identity,
	commitMessage string,
) (*FormatService, error) {
	tmpl, err := template.New("commit").Parse(commitMessage)
	if err != nil {
		return nil, fmt.Errorf("parsing commit message template: %w", err)
	}

	return &FormatService{
		git:       git,
		formatter: formatter,
		writer:    writer,
		remote:    remote,
		identity:  identity,
		message:   tmpl,
	}, nil
}

// Format runs the conditional formatting stage over a non-empty file set:
// per-file compliance check, batch rewrite, commit, push, and PR
// notification. A single non-compliant file triggers a rewrite of every
// file in the set; any individual rewrite failure aborts the whole batch.
func (s *FormatService) Format(ctx context.Context, trigger model.Trigger, files model.ChangeSet) (model.FormatReport, error) {
	if files.Empty() {
		return model.FormatReport{Outcome: model.OutcomeNoChanges}, nil
	}

	start := time.Now()
	report := model.FormatReport{Files: files}

	nonCompliant, err := s.checkCompliance(ctx, files)
	if err != nil {
		report.Outcome = model.OutcomeFailed
		return report, err
	}
	report.NonCompliant = nonCompliant

	if nonCompliant.Empty() {
		report.Outcome = model.OutcomeAlreadyFormatted
		slog.Info("all files already formatted",
			"files", len(files),
			"duration", time.Since(start).Round(time.Millisecond),
		)
		return report, nil
	}

	// Batch policy: one non-compliant file triggers a rewrite of the whole
	// set, keeping every changed file on the same style revision.
	slog.Info("formatting batch",
		"files", len(files),
		"non_compliant", len(nonCompliant),
		"style", s.formatter.Style().String(),
	)
	for _, file := range files {
		if err := s.formatter.Format(ctx, file); err != nil {
			report.Outcome = model.OutcomeFailed
			return report, model.NewStageError(model.StageFormat, err)
		}
	}

	changed, err := s.git.HasLocalChanges(ctx, files)
	if err != nil {
		report.Outcome = model.OutcomeFailed
		return report, model.NewStageError(model.StageCommit, err)
	}
	if !changed {
		// The check reported drift but the rewrite was a no-op. Treat the
		// tree as authoritative and finish without a commit.
		slog.Warn("formatter check and rewrite disagree, tree unchanged",
			"non_compliant", len(nonCompliant),
		)
		report.Outcome = model.OutcomeAlreadyFormatted
		return report, nil
	}

	if err := s.commit(ctx, files); err != nil {
		report.Outcome = model.OutcomeFailed
		return report, err
	}

	if err := s.push(ctx, trigger); err != nil {
		report.Outcome = model.OutcomeFailed
		return report, err
	}

	posted, err := s.notify(ctx, trigger, files)
	if err != nil {
		report.Outcome = model.OutcomeFailed
		return report, err
	}
	report.CommentPosted = posted

	report.Outcome = model.OutcomeFormatted
	slog.Info("formatting complete",
		"files", len(files),
		"non_compliant", len(nonCompliant),
		"comment_posted", posted,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

// checkCompliance runs the formatter's check mode over every file and
// returns the non-compliant subset in input order.
func (s *FormatService) checkCompliance(ctx context.Context, files model.ChangeSet) (model.ChangeSet, error) {
	nonCompliant := model.ChangeSet{}
	for _, file := range files {
		compliant, err := s.formatter.Check(ctx, file)
		if err != nil {
			return nil, model.NewStageError(model.StageCheckFormat, err)
		}
		if !compliant {
			nonCompliant = append(nonCompliant, file)
		}
	}
	return nonCompliant, nil
}

// commit stages the file set and records a commit under the bot identity.
func (s *FormatService) commit(ctx context.Context, files model.ChangeSet) error {
	if err := s.git.Stage(ctx, files); err != nil {
		return model.NewStageError(model.StageCommit, err)
	}

	var msg strings.Builder
	if err := s.message.Execute(&msg, commitMessageData{Count: len(files), Files: files}); err != nil {
		return model.NewStageError(model.StageCommit, fmt.Errorf("rendering commit message: %w", err))
	}

	if err := s.git.Commit(ctx, msg.String(), s.identity); err != nil {
		return model.NewStageError(model.StageCommit, err)
	}

	slog.Info("formatting commit created", "files", len(files), "author", s.identity.String())
	return nil
}

// push publishes the formatting commit to the originating branch.
func (s *FormatService) push(ctx context.Context, trigger model.Trigger) error {
	if !trigger.HasBranch() {
		return model.NewStageError(model.StagePush, fmt.Errorf("no target branch to push to"))
	}

	if err := s.git.Push(ctx, s.remote, trigger.Branch); err != nil {
		return model.NewStageError(model.StagePush, err)
	}

	slog.Info("formatting commit pushed", "remote", s.remote, "branch", trigger.Branch)
	return nil
}

// notify posts or updates the summary comment on the originating pull
// request. Push-triggered and manual runs have no PR to notify.
func (s *FormatService) notify(ctx context.Context, trigger model.Trigger, files model.ChangeSet) (bool, error) {
	if !trigger.IsPullRequest() {
		slog.Debug("trigger is not a pull request, skipping notification", "kind", string(trigger.Kind))
		return false, nil
	}
	if s.writer == nil {
		slog.Warn("no github token configured, skipping PR comment",
			"repo", trigger.RepoFullName,
			"pr", trigger.PRNumber,
		)
		return false, nil
	}

	body := s.buildComment(trigger, files)
	if err := s.writer.UpsertIssueComment(ctx, trigger.RepoFullName, trigger.PRNumber, FormatCommentMarker, body); err != nil {
		return false, model.NewStageError(model.StageNotify, err)
	}

	slog.Info("format summary comment posted", "repo", trigger.RepoFullName, "pr", trigger.PRNumber)
	return true, nil
}

// buildComment renders the PR summary comment listing the formatted files.
func (s *FormatService) buildComment(trigger model.Trigger, files model.ChangeSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### Formatting applied\n\n")
	fmt.Fprintf(&b, "Rewrote %d changed file(s) to the project style (%s):\n\n", len(files), s.formatter.Style().String())
	for _, file := range files {
		fmt.Fprintf(&b, "- `%s`\n", file)
	}
	fmt.Fprintf(&b, "\nThe updated sources were committed and pushed to `%s`.\n", trigger.Branch)

	return b.String()
}
