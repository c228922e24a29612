package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/solfmtbot/internal/adapter/driven/actions"
	gitadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/github"
	"github.com/ericfisherdev/solfmtbot/internal/config"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
	"github.com/ericfisherdev/solfmtbot/internal/domain/port/driven"
)

var (
	repoDir string
	verbose bool
)

// rootCmd is the base command; all work happens in the subcommands.
var rootCmd = &cobra.Command{
	Use:   "solfmtbot",
	Short: "Format changed Solidity files and verify the build",
	Long: `solfmtbot is a CI pipeline that detects changed Solidity files between
two revisions, reformats them with forge fmt, commits and pushes the result
under a bot identity, and verifies the project still compiles.

Exit codes: 0 success or no-op, 1 detection failure, 2 formatting failure,
3 push failure, 4 build-verification failure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo-dir", ".", "Repository checkout to operate on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(detectChangesCmd)
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(verifyBuildCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(model.ExitCode(err))
	}
}

// setupLogging installs the default text logger on stderr, keeping stdout
// free for machine-readable command output.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newGitHubWriter returns the PR writer, or nil when no token is configured.
// The nil check happens here so services receive a genuinely nil interface.
func newGitHubWriter(cfg *config.Config) driven.GitHubWriter {
	if !cfg.HasToken() {
		return nil
	}
	return githubadapter.NewClient(cfg.GitHubToken)
}

// resolveTrigger determines what started this run. Under GitHub Actions the
// workflow event is authoritative; outside it a manual trigger is synthesized
// from configuration and the current checkout.
func resolveTrigger(ctx context.Context, cfg *config.Config, git *gitadapter.Client) (model.Trigger, error) {
	trigger, err := actions.ParseTrigger(cfg.EventName, cfg.EventPath)
	if err != nil {
		return model.Trigger{}, err
	}
	if trigger != nil {
		if trigger.RepoFullName == "" {
			trigger.RepoFullName = cfg.Repository
		}
		slog.Debug("trigger parsed from workflow event",
			"kind", string(trigger.Kind),
			"repo", trigger.RepoFullName,
			"branch", trigger.Branch,
		)
		return *trigger, nil
	}

	branch := cfg.RefName
	if branch == "" {
		if b, berr := git.CurrentBranch(ctx); berr == nil {
			branch = b
		}
	}

	slog.Debug("no workflow event, using manual trigger", "branch", branch)
	return model.Trigger{
		Kind:         model.TriggerManual,
		RepoFullName: cfg.Repository,
		Branch:       branch,
	}, nil
}
