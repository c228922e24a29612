package model

import (
	"errors"
	"fmt"
	"time"
)

// Outcome is the tagged terminal state of a pipeline run. Stages pass it
// between each other explicitly instead of ad hoc boolean flags, so every
// terminal state and transition stays visible and testable.
type Outcome string

const (
	// OutcomeNoChanges: the detector found no matching files; nothing later ran.
	OutcomeNoChanges Outcome = "no_changes"
	// OutcomeAlreadyFormatted: every changed file passed the compliance check
	// (or the rewrite produced no diff); no commit, push, or comment happened.
	OutcomeAlreadyFormatted Outcome = "already_formatted"
	// OutcomeFormatted: files were rewritten, committed, and pushed.
	OutcomeFormatted Outcome = "formatted"
	// OutcomeFailed: a stage aborted; the StageError carries which one.
	OutcomeFailed Outcome = "failed"
)

// Stage names one phase of the pipeline for error attribution and logging.
type Stage string

const (
	StageDetect      Stage = "detect"
	StageCheckFormat Stage = "check-format"
	StageFormat      Stage = "format"
	StageCommit      Stage = "commit"
	StagePush        Stage = "push"
	StageNotify      Stage = "notify"
	StageBuildVerify Stage = "build-verify"
)

// StageError tags an underlying error with the pipeline stage it aborted.
// Every stage failure is fatal to its stage; there are no retries anywhere,
// so one StageError is the complete failure story of a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with a stage tag. A nil err returns nil.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// Process exit codes surfaced to the CI runner. Check/format/commit/notify
// failures all belong to the formatter stage and share its code.
const (
	ExitOK          = 0
	ExitDetectError = 1
	ExitFormatError = 2
	ExitPushError   = 3
	ExitBuildError  = 4
)

// ExitCode maps an error to the pipeline's exit code contract. Errors without
// a stage tag count as detection-level failures (the generic code 1).
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *StageError
	if !errors.As(err, &se) {
		return ExitDetectError
	}
	switch se.Stage {
	case StageDetect:
		return ExitDetectError
	case StageCheckFormat, StageFormat, StageCommit, StageNotify:
		return ExitFormatError
	case StagePush:
		return ExitPushError
	case StageBuildVerify:
		return ExitBuildError
	default:
		return ExitDetectError
	}
}

// FormatReport is the formatter stage's result, one per run.
type FormatReport struct {
	Outcome       Outcome
	Files         ChangeSet // The changed set the stage operated on.
	NonCompliant  ChangeSet // Files that failed the compliance check.
	CommentPosted bool      // True when a pull request summary comment went out.
}

// BuildReport is the build verifier's result. Err-free with Success false
// means the toolchain ran and the compile failed.
type BuildReport struct {
	Success  bool
	Output   string // Combined stdout/stderr of the build invocation.
	Duration time.Duration
}

// RunSummary aggregates one full pipeline run for the final log line.
type RunSummary struct {
	RunID   string
	Trigger Trigger
	Outcome Outcome
	Files   ChangeSet
	Build   *BuildReport // Nil when the verifier never ran.
}
