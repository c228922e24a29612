package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/solfmtbot/internal/adapter/driven/actions"
	forgeadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/forge"
	gitadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/git"
	"github.com/ericfisherdev/solfmtbot/internal/application"
	"github.com/ericfisherdev/solfmtbot/internal/config"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: detect, format, verify",
	Long: `Executes all three stages in order against the triggering event: change
detection, conditional formatting with commit and push, and build
verification. Later stages are skipped when detection finds no matching
files.`,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. Load configuration (project file plus environment).
	cfg, err := config.Load(repoDir)
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"run_id", cfg.RunID,
		"pattern", cfg.Pattern,
		"remote", cfg.Remote,
		"bot", cfg.BotName,
		"notifications", cfg.HasToken(),
	)

	// 2. Wire adapters.
	git := gitadapter.NewClient(repoDir)
	toolchain, err := forgeadapter.NewToolchain(repoDir, "")
	if err != nil {
		return err
	}
	writer := newGitHubWriter(cfg)

	// 3. Resolve what started this run.
	trigger, err := resolveTrigger(ctx, cfg, git)
	if err != nil {
		return err
	}

	// 4. Assemble the three stages.
	detectSvc := application.NewDetectService(git, cfg.Pattern)
	formatSvc, err := application.NewFormatService(
		git,
		toolchain,
		writer,
		cfg.Remote,
		model.Identity{Name: cfg.BotName, Email: cfg.BotEmail},
		cfg.CommitMessage,
	)
	if err != nil {
		return err
	}
	verifySvc := application.NewVerifyService(git, toolchain, writer, cfg.Remote)

	// 5. Run and surface results to the workflow.
	summary, runErr := application.NewPipeline(cfg.RunID, detectSvc, formatSvc, verifySvc).Run(ctx, trigger)

	if err := actions.WriteOutput(cfg.OutputPath, !summary.Files.Empty(), summary.Files); err != nil {
		slog.Error("writing step outputs failed", "error", err)
	}

	return runErr
}
