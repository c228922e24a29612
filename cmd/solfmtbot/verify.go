package main

import (
	"github.com/spf13/cobra"

	forgeadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/forge"
	gitadapter "github.com/ericfisherdev/solfmtbot/internal/adapter/driven/git"
	"github.com/ericfisherdev/solfmtbot/internal/application"
	"github.com/ericfisherdev/solfmtbot/internal/config"
)

var verifyBuildCmd = &cobra.Command{
	Use:   "verify-build",
	Short: "Run a clean build of the project",
	Long: `Compiles the project from scratch. Under a workflow event the branch tip
is re-checked out first, so a formatting commit pushed by an earlier stage
is included; manual runs build the working tree as it stands. On a pull
request trigger a build failure posts an advisory comment; the formatting
commit is never rolled back.`,
	RunE: runVerifyBuild,
}

func runVerifyBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(repoDir)
	if err != nil {
		return err
	}

	git := gitadapter.NewClient(repoDir)
	toolchain, err := forgeadapter.NewToolchain(repoDir, "")
	if err != nil {
		return err
	}

	trigger, err := resolveTrigger(ctx, cfg, git)
	if err != nil {
		return err
	}

	verifySvc := application.NewVerifyService(git, toolchain, newGitHubWriter(cfg), cfg.Remote)
	_, err = verifySvc.Verify(ctx, trigger)
	return err
}
