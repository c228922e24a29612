package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
)

// Pipeline runs the three stages in order, gating each on the prior stage's
// result: detection decides whether anything runs at all, formatting decides
// whether a commit is published, and verification always follows a fired
// detector.
type Pipeline struct {
	runID  string
	detect *DetectService
	format *FormatService
	verify *VerifyService
}

// NewPipeline creates a Pipeline correlating its log output under runID.
func NewPipeline(runID string, detect *DetectService, format *FormatService, verify *VerifyService) *Pipeline {
	return &Pipeline{
		runID:  runID,
		detect: detect,
		format: format,
		verify: verify,
	}
}

// Run executes a full pipeline pass for the trigger. The returned summary is
// populated as far as the run progressed; the error carries the failing
// stage for exit-code mapping.
func (p *Pipeline) Run(ctx context.Context, trigger model.Trigger) (model.RunSummary, error) {
	start := time.Now()
	summary := model.RunSummary{
		RunID:   p.runID,
		Trigger: trigger,
	}

	slog.Info("pipeline started",
		"run_id", p.runID,
		"kind", string(trigger.Kind),
		"repo", trigger.RepoFullName,
		"revisions", trigger.Revisions.String(),
	)

	files, err := p.detect.Detect(ctx, trigger.Revisions)
	if err != nil {
		summary.Outcome = model.OutcomeFailed
		return summary, err
	}
	summary.Files = files

	if files.Empty() {
		// Nothing matched: the formatter and verifier never run.
		summary.Outcome = model.OutcomeNoChanges
		p.logDone(summary, start)
		return summary, nil
	}

	report, err := p.format.Format(ctx, trigger, files)
	if err != nil {
		summary.Outcome = model.OutcomeFailed
		return summary, err
	}

	build, err := p.verify.Verify(ctx, trigger)
	summary.Build = &build
	if err != nil {
		summary.Outcome = model.OutcomeFailed
		return summary, err
	}

	summary.Outcome = report.Outcome
	p.logDone(summary, start)
	return summary, nil
}

func (p *Pipeline) logDone(summary model.RunSummary, start time.Time) {
	slog.Info("pipeline complete",
		"run_id", p.runID,
		"outcome", string(summary.Outcome),
		"files", len(summary.Files),
		"duration", time.Since(start).Round(time.Millisecond),
	)
}
