package model

// Criticality/responsiveness ratings produced by gap analysis.
const (
	RatingLow    = "low"
	RatingMedium = "medium"
	RatingHigh   = "high"
)

// GapAnalysis is the stage-1 verdict for one incomplete profile.
type GapAnalysis struct {
	Criticality    string `json:"criticality"`
	Responsiveness string `json:"responsiveness"`
	Priority       string `json:"priority"` // "yes" or "no"
	Reasoning      string `json:"reasoning"`
}

// Email strategy enumerations produced by stage 2.
const (
	ToneFriendly     = "friendly"
	ToneProfessional = "professional"
	ToneUrgent       = "urgent"

	LengthShort    = "short"
	LengthMedium   = "medium"
	LengthDetailed = "detailed"

	EmphasisDeadline      = "deadline"
	EmphasisBenefits      = "benefits"
	EmphasisPersonalTouch = "personal_touch"
)

// Strategy is the stage-2 verdict extending a Decision with email guidance.
type Strategy struct {
	Tone      string `json:"tone"`
	Length    string `json:"length"`
	Emphasis  string `json:"emphasis"`
	Reasoning string `json:"reasoning"`
}

// Decision is the per-student record built up across the analysis stages.
// One Decision exists per profile with at least one missing field.
type Decision struct {
	StudentEmail string      `json:"student_email"`
	StudentName  string      `json:"student_name"`
	Analysis     GapAnalysis `json:"analysis"`
	Strategy     Strategy    `json:"strategy"`
}
