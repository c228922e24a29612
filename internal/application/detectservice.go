// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
	"github.com/ericfisherdev/solfmtbot/internal/domain/port/driven"
)

// DetectService computes the set of candidate files between two revisions.
type DetectService struct {
	git     driven.GitClient
	pattern string
}

// NewDetectService creates a DetectService selecting files by suffix pattern.
func NewDetectService(git driven.GitClient, pattern string) *DetectService {
	return &DetectService{
		git:     git,
		pattern: pattern,
	}
}

// Detect diffs the revision pair and returns the changed files matching the
// configured suffix, in the order version control reports them. A missing or
// placeholder base revision (first push to a branch) yields an empty set
// rather than an error. An empty result short-circuits all later stages.
func (s *DetectService) Detect(ctx context.Context, revs model.RevisionPair) (model.ChangeSet, error) {
	start := time.Now()

	if revs.BaseMissing() {
		slog.Warn("base revision missing, treating as no changes", "revisions", revs.String())
		return model.ChangeSet{}, nil
	}
	if revs.Identical() {
		slog.Info("base and head revisions identical, no changes", "revisions", revs.String())
		return model.ChangeSet{}, nil
	}

	base, err := s.git.ResolveRevision(ctx, revs.Base)
	if err != nil {
		return nil, model.NewStageError(model.StageDetect, fmt.Errorf("resolving base revision: %w", err))
	}
	head, err := s.git.ResolveRevision(ctx, revs.Head)
	if err != nil {
		return nil, model.NewStageError(model.StageDetect, fmt.Errorf("resolving head revision: %w", err))
	}

	changed, err := s.git.ChangedFiles(ctx, base, head)
	if err != nil {
		return nil, model.NewStageError(model.StageDetect, err)
	}

	matching := changed.FilterSuffix(s.pattern)

	slog.Info("change detection complete",
		"revisions", revs.String(),
		"changed", len(changed),
		"matching", len(matching),
		"pattern", s.pattern,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return matching, nil
}
