package model

import "time"

// RunStatus represents the current stage of an outreach run.
type RunStatus string

const (
	RunStatusIngested         RunStatus = "ingested"
	RunStatusGapsClassified   RunStatus = "gaps_classified"
	RunStatusStrategyDecided  RunStatus = "strategy_decided"
	RunStatusContentGenerated RunStatus = "content_generated"
	RunStatusFinalized        RunStatus = "finalized"
	RunStatusFailed           RunStatus = "failed"
)

// Progress milestones reported at stage boundaries.
const (
	ProgressIngesting  = 10
	ProgressIngested   = 20
	ProgressAnalyzing  = 30
	ProgressAnalyzed   = 50
	ProgressDeciding   = 60
	ProgressDecided    = 70
	ProgressGenerating = 80
	ProgressGenerated  = 90
	ProgressFinalized  = 100
)

// RunState is the full in-flight data for one pipeline invocation. Each
// stage consumes the previous stage's output; Progress only ever increases.
type RunState struct {
	RunID     string     `json:"run_id"`
	Status    RunStatus  `json:"status"`
	Progress  int        `json:"progress"`
	StartedAt time.Time  `json:"started_at"`
	Profiles  []Profile  `json:"profiles"`
	Decisions []Decision `json:"decisions"`
	Emails    []Email    `json:"emails"`
	Summary   RunSummary `json:"summary"`
}

// RunSummary holds the final counts frozen at Finalized.
type RunSummary struct {
	TotalStudents      int `json:"total_students"`
	IncompleteStudents int `json:"incomplete_students"`
	EmailsGenerated    int `json:"emails_generated"`
}

// Advance moves the progress marker forward. Regressions are ignored so the
// counter stays monotonic.
func (s *RunState) Advance(progress int, status RunStatus) {
	if progress > s.Progress {
		s.Progress = progress
	}
	s.Status = status
}
