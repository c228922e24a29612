package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/solfmtbot/internal/adapter/driven/actions"
	gitadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/git"
	"github.com/ericfisherdev/solfmtbot/internal/application"
	"github.com/ericfisherdev/solfmtbot/internal/config"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

var (
	detectBase    string
	detectHead    string
	detectPattern string
)

var detectChangesCmd = &cobra.Command{
	Use:   "detect-changes",
	Short: "List changed files matching the suffix pattern",
	Long: `Diffs two revisions and prints the changed files matching the suffix
pattern, one per line. Revisions come from --base/--head, or from the
workflow event when running under GitHub Actions. Results are also written
to the step output file (GITHUB_OUTPUT) as "changed" and "files".`,
	RunE: runDetectChanges,
}

func init() {
	detectChangesCmd.Flags().StringVar(&detectBase, "base", "", "Base revision to diff from")
	detectChangesCmd.Flags().StringVar(&detectHead, "head", "", "Head revision to diff to")
	detectChangesCmd.Flags().StringVar(&detectPattern, "pattern", "", "File suffix to select (default from configuration)")
}

func runDetectChanges(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(repoDir)
	if err != nil {
		return err
	}

	pattern := cfg.Pattern
	if detectPattern != "" {
		pattern = detectPattern
	}

	git := gitadapter.NewClient(repoDir)

	revs, err := resolveRevisions(ctx, cfg, git)
	if err != nil {
		return err
	}

	files, err := application.NewDetectService(git, pattern).Detect(ctx, revs)
	if err != nil {
		return err
	}

	for _, file := range files {
		fmt.Fprintln(cmd.OutOrStdout(), file)
	}

	if err := actions.WriteOutput(cfg.OutputPath, !files.Empty(), files); err != nil {
		return model.NewStageError(model.StageDetect, err)
	}
	return nil
}

// resolveRevisions builds the revision pair to diff: both flags when given,
// otherwise the triggering event's revisions.
func resolveRevisions(ctx context.Context, cfg *config.Config, git *gitadapter.Client) (model.RevisionPair, error) {
	if (detectBase == "") != (detectHead == "") {
		return model.RevisionPair{}, fmt.Errorf("--base and --head must be provided together")
	}
	if detectBase != "" {
		return model.RevisionPair{Base: detectBase, Head: detectHead}, nil
	}

	trigger, err := resolveTrigger(ctx, cfg, git)
	if err != nil {
		return model.RevisionPair{}, err
	}
	if trigger.Revisions.Head == "" {
		return model.RevisionPair{}, fmt.Errorf("no revisions to diff: pass --base and --head, or run under GitHub Actions")
	}

	slog.Debug("revisions taken from trigger", "revisions", trigger.Revisions.String())
	return trigger.Revisions, nil
}
