package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/solfmtbot/internal/application"
	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// newPipeline wires the three services over shared mocks.
func newPipeline(t *testing.T, git *mockGitClient, formatter *mockFormatter, builder *mockBuilder, writer *mockWriter) *application.Pipeline {
	t.Helper()

	return application.NewPipeline(
		"run-1",
		application.NewDetectService(git, ".sol"),
		newFormatService(t, git, formatter, writer),
		application.NewVerifyService(git, builder, nil, "origin"),
	)
}

func TestPipeline_NoMatchingFiles(t *testing.T) {
	// Nothing matched the pattern: the formatter and verifier never run,
	// no commits and no comments.
	git := &mockGitClient{changed: model.ChangeSet{"README.md"}}
	formatter := &mockFormatter{}
	builder := &mockBuilder{report: model.BuildReport{Success: true}}
	writer := &mockWriter{}

	summary, err := newPipeline(t, git, formatter, builder, writer).Run(context.Background(), prTrigger())
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeNoChanges, summary.Outcome)
	assert.True(t, summary.Files.Empty())
	assert.Nil(t, summary.Build)
	assert.Empty(t, formatter.checks)
	assert.Equal(t, 0, builder.builds)
	assert.Empty(t, git.commits)
	assert.Empty(t, writer.upserts)
}

func TestPipeline_FirstPushEndsNoOp(t *testing.T) {
	git := &mockGitClient{changed: model.ChangeSet{"contracts/A.sol"}}
	formatter := &mockFormatter{}
	builder := &mockBuilder{}

	trigger := pushTrigger()
	trigger.Revisions = model.RevisionPair{Base: model.ZeroSHA, Head: "head456"}

	summary, err := newPipeline(t, git, formatter, builder, nil).Run(context.Background(), trigger)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeNoChanges, summary.Outcome)
	assert.Equal(t, 0, builder.builds)
}

func TestPipeline_FullFormattingPass(t *testing.T) {
	git := &mockGitClient{
		changed:    model.ChangeSet{"contracts/A.sol", "contracts/B.sol", "README.md"},
		hasChanges: true,
	}
	formatter := &mockFormatter{nonCompliant: map[string]bool{"contracts/B.sol": true}}
	builder := &mockBuilder{report: model.BuildReport{Success: true}}
	writer := &mockWriter{}

	summary, err := newPipeline(t, git, formatter, builder, writer).Run(context.Background(), prTrigger())
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeFormatted, summary.Outcome)
	assert.Equal(t, model.ChangeSet{"contracts/A.sol", "contracts/B.sol"}, summary.Files)
	require.NotNil(t, summary.Build)
	assert.True(t, summary.Build.Success)
	assert.Len(t, git.commits, 1)
	assert.Len(t, git.pushes, 1)
	assert.Len(t, writer.upserts, 1)
	assert.Equal(t, "run-1", summary.RunID)
}

func TestPipeline_VerifierRunsWhenAlreadyFormatted(t *testing.T) {
	// The verifier gates on the detector, not on whether a rewrite
	// happened: a compliant change set still gets its build checked.
	git := &mockGitClient{changed: model.ChangeSet{"contracts/A.sol"}}
	formatter := &mockFormatter{}
	builder := &mockBuilder{report: model.BuildReport{Success: true}}

	summary, err := newPipeline(t, git, formatter, builder, nil).Run(context.Background(), prTrigger())
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeAlreadyFormatted, summary.Outcome)
	assert.Equal(t, 1, builder.builds)
	assert.Empty(t, git.commits)
}

func TestPipeline_DetectFailureStopsRun(t *testing.T) {
	git := &mockGitClient{resolveErr: errors.New("bad revision")}
	formatter := &mockFormatter{}
	builder := &mockBuilder{}

	summary, err := newPipeline(t, git, formatter, builder, nil).Run(context.Background(), prTrigger())
	require.Error(t, err)

	assert.Equal(t, model.OutcomeFailed, summary.Outcome)
	assert.Equal(t, model.ExitDetectError, model.ExitCode(err))
	assert.Empty(t, formatter.checks)
	assert.Equal(t, 0, builder.builds)
}

func TestPipeline_FormatFailureSkipsVerify(t *testing.T) {
	git := &mockGitClient{changed: model.ChangeSet{"contracts/A.sol"}, hasChanges: true}
	formatter := &mockFormatter{
		nonCompliant: map[string]bool{"contracts/A.sol": true},
		formatErrs:   map[string]error{"contracts/A.sol": errors.New("parse error")},
	}
	builder := &mockBuilder{}

	summary, err := newPipeline(t, git, formatter, builder, nil).Run(context.Background(), prTrigger())
	require.Error(t, err)

	assert.Equal(t, model.OutcomeFailed, summary.Outcome)
	assert.Equal(t, model.ExitFormatError, model.ExitCode(err))
	assert.Equal(t, 0, builder.builds)
}

func TestPipeline_BuildFailureFailsRun(t *testing.T) {
	git := &mockGitClient{changed: model.ChangeSet{"contracts/A.sol"}, hasChanges: true}
	formatter := &mockFormatter{nonCompliant: map[string]bool{"contracts/A.sol": true}}
	builder := &mockBuilder{report: model.BuildReport{Success: false, Output: "boom"}}

	summary, err := newPipeline(t, git, formatter, builder, nil).Run(context.Background(), prTrigger())
	require.Error(t, err)

	assert.Equal(t, model.OutcomeFailed, summary.Outcome)
	assert.Equal(t, model.ExitBuildError, model.ExitCode(err))
	require.NotNil(t, summary.Build)
	assert.False(t, summary.Build.Success)
	// The formatting commit stays: no rollback.
	assert.Len(t, git.commits, 1)
}
