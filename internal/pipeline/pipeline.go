// Package pipeline drives the staged outreach run: gap classification,
// strategy decision, content generation, finalize. Stages are strictly
// linear; a reasoning failure degrades the affected student to a fallback
// verdict and never aborts the run.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campus-ops/outreach-cli/internal/config"
	"github.com/campus-ops/outreach-cli/internal/ingest"
	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/internal/nudge"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

// ProgressFunc receives stage-boundary progress updates (0-100, monotonic).
// Purely observational; never used for control flow.
type ProgressFunc func(message string, progress int)

// Pipeline coordinates the outreach stages over a shared run state.
type Pipeline struct {
	cfg        *config.Config
	executor   *Executor
	store      *nudge.Store
	policy     nudge.Policy
	clock      func() time.Time
	onProgress ProgressFunc
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source, used by escalation evaluation.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, aiClient anthropic.Client, store *nudge.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		executor: NewExecutor(aiClient, cfg.Anthropic),
		store:    store,
		policy: nudge.Policy{
			CooldownDays: cfg.Nudge.CooldownDays,
			MaxLevel:     cfg.Nudge.MaxLevel,
		},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline over one roster file. Ingestion errors are
// fatal; reasoning failures inside stages never are. The returned state is
// frozen at Finalized.
func (p *Pipeline) Run(ctx context.Context, rosterPath string) (*model.RunState, error) {
	state := &model.RunState{
		RunID:     uuid.New().String(),
		Status:    model.RunStatusIngested,
		StartedAt: p.clock(),
	}
	log := zap.L().With(zap.String("run_id", state.RunID))
	log.Info("pipeline: starting outreach run", zap.String("roster", rosterPath))

	// Stage: Ingest.
	p.advance(state, "Reading roster...", model.ProgressIngesting, model.RunStatusIngested)

	profiles, err := ingest.ReadRoster(rosterPath, ingest.Options{SheetIndex: p.cfg.Ingest.SheetIndex})
	if err != nil {
		state.Status = model.RunStatusFailed
		return nil, eris.Wrap(err, "pipeline: read roster")
	}
	state.Profiles = profiles
	p.advance(state, "Roster read", model.ProgressIngested, model.RunStatusIngested)

	incomplete := filterIncomplete(profiles)

	// Stage: GapsClassified.
	p.advance(state, "Analyzing profile gaps...", model.ProgressAnalyzing, model.RunStatusIngested)
	decisions, gapUsage := ClassifyGaps(ctx, p.executor, incomplete)
	state.Decisions = decisions
	p.advance(state, "Gap analysis complete", model.ProgressAnalyzed, model.RunStatusGapsClassified)

	// Stage: StrategyDecided.
	p.advance(state, "Deciding email strategy...", model.ProgressDeciding, model.RunStatusGapsClassified)
	decisions, strategyUsage := DecideStrategy(ctx, p.executor, incomplete, decisions)
	state.Decisions = decisions
	p.advance(state, "Email strategies decided", model.ProgressDecided, model.RunStatusStrategyDecided)

	// Stage: ContentGenerated.
	p.advance(state, "Generating personalized emails...", model.ProgressGenerating, model.RunStatusStrategyDecided)
	inputs, err := BuildGenerateInputs(incomplete, decisions, p.store, p.policy, p.clock())
	if err != nil {
		state.Status = model.RunStatusFailed
		return nil, eris.Wrap(err, "pipeline: evaluate escalations")
	}
	emails, genUsage := GenerateEmails(ctx, p.executor, inputs, p.cfg.Outreach)
	state.Emails = emails
	p.advance(state, "Emails generated", model.ProgressGenerated, model.RunStatusContentGenerated)

	// Stage: Finalized.
	state.Summary = model.RunSummary{
		TotalStudents:      len(profiles),
		IncompleteStudents: len(incomplete),
		EmailsGenerated:    len(emails),
	}
	p.advance(state, "Finalizing results...", model.ProgressFinalized, model.RunStatusFinalized)

	var totalUsage anthropic.TokenUsage
	totalUsage.Add(gapUsage)
	totalUsage.Add(strategyUsage)
	totalUsage.Add(genUsage)

	log.Info("pipeline: run complete",
		zap.Int("total_students", state.Summary.TotalStudents),
		zap.Int("incomplete_students", state.Summary.IncompleteStudents),
		zap.Int("emails_generated", state.Summary.EmailsGenerated),
		zap.Int64("total_tokens", totalUsage.InputTokens+totalUsage.OutputTokens),
		zap.Float64("estimated_cost_usd", totalUsage.EstimateCost(p.cfg.Anthropic.Model)),
	)

	return state, nil
}

func (p *Pipeline) advance(state *model.RunState, message string, progress int, status model.RunStatus) {
	state.Advance(progress, status)
	zap.L().Info(message, zap.Int("progress", state.Progress))
	if p.onProgress != nil {
		p.onProgress(message, state.Progress)
	}
}

// filterIncomplete returns profiles with at least one missing field,
// preserving roster order. Complete profiles never enter the reasoning
// stages and never produce artifacts.
func filterIncomplete(profiles []model.Profile) []model.Profile {
	var out []model.Profile
	for _, p := range profiles {
		if p.Incomplete() {
			out = append(out, p)
		}
	}
	return out
}
