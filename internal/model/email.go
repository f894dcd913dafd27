package model

// NudgeInfo is the escalation metadata attached to a generated email.
type NudgeInfo struct {
	Level         int    `json:"level"`
	DaysSinceLast int    `json:"days_since_last"`
	Eligible      bool   `json:"eligible"`
	Tone          string `json:"tone"`
	Urgency       string `json:"urgency"`
	SubjectPrefix string `json:"subject_prefix"`
	Description   string `json:"description"`
}

// Email is the generated reminder artifact for one incomplete profile.
type Email struct {
	StudentEmail  string    `json:"student_email"`
	StudentName   string    `json:"student_name"`
	Subject       string    `json:"subject"`
	BodyHTML      string    `json:"body_html"`
	MissingFields []string  `json:"missing_fields"`
	Completion    int       `json:"completion"`
	Nudge         NudgeInfo `json:"nudge"`
}

// Delivery outcome statuses.
const (
	DeliveryStatusSent    = "sent"
	DeliveryStatusSkipped = "skipped"
	DeliveryStatusFailed  = "failed"
)

// DeliveryOutcome records what happened to a single recipient.
type DeliveryOutcome struct {
	StudentEmail string `json:"student_email,omitempty"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	NudgeLevel   int    `json:"nudge_level,omitempty"`
}

// DeliveryReport summarizes a delivery pass. Every input email appears in
// Outcomes exactly once, whatever its fate.
type DeliveryReport struct {
	Total    int               `json:"total"`
	Sent     int               `json:"sent"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Outcomes []DeliveryOutcome `json:"outcomes"`
}
