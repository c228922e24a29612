package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	forgeadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/forge"
	gitadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/git"
	"github.com/ericfisherdev/solfmtbot/internal/application"
	"github.com/ericfisherdev/solfmtbot/internal/config"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

var (
	formatFiles []string
	stylePath   string
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Check, rewrite, commit, and push changed files",
	Long: `Runs the conditional formatting stage: checks each file for style
compliance, rewrites the whole set if any file is non-compliant, then
commits and pushes the result under the bot identity. On pull request
triggers a summary comment is posted listing the formatted files.

Files come from --files, or from change detection against the triggering
event when omitted.`,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().StringSliceVar(&formatFiles, "files", nil, "Files to format (comma-separated or repeated)")
	formatCmd.Flags().StringVar(&stylePath, "config", "", "Style configuration artifact (default <repo-dir>/foundry.toml)")
}

func runFormat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(repoDir)
	if err != nil {
		return err
	}

	git := gitadapter.NewClient(repoDir)
	toolchain, err := forgeadapter.NewToolchain(repoDir, stylePath)
	if err != nil {
		return err
	}

	trigger, err := resolveTrigger(ctx, cfg, git)
	if err != nil {
		return err
	}

	files := model.ChangeSet(formatFiles)
	if files.Empty() {
		files, err = application.NewDetectService(git, cfg.Pattern).Detect(ctx, trigger.Revisions)
		if err != nil {
			return err
		}
	}
	if files.Empty() {
		slog.Info("no candidate files, nothing to format")
		return nil
	}

	formatSvc, err := application.NewFormatService(
		git,
		toolchain,
		newGitHubWriter(cfg),
		cfg.Remote,
		model.Identity{Name: cfg.BotName, Email: cfg.BotEmail},
		cfg.CommitMessage,
	)
	if err != nil {
		return err
	}

	report, err := formatSvc.Format(ctx, trigger, files)
	if err != nil {
		return err
	}

	slog.Info("format stage finished", "outcome", string(report.Outcome), "files", len(report.Files))
	return nil
}
