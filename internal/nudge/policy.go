package nudge

import "time"

// Policy computes escalation eligibility from a stored record and the
// current time. It has no side effects.
type Policy struct {
	// CooldownDays is the minimum number of whole days between sends.
	CooldownDays int
	// MaxLevel is the escalation ceiling. Once a recipient reaches it no
	// further sends are ever eligible.
	MaxLevel int
}

// DefaultPolicy returns the standard 3-level policy with a 2-day cooldown.
func DefaultPolicy() Policy {
	return Policy{CooldownDays: 2, MaxLevel: 3}
}

// Eligibility is the outcome of a policy evaluation. Level is the level at
// which the next send would go out when Eligible, or the current level when
// not.
type Eligibility struct {
	Level         int
	DaysSinceLast int
	Eligible      bool
}

// NextLevel evaluates the policy for a recipient. Pass rec=nil for a
// recipient with no prior history.
func (p Policy) NextLevel(rec *Record, now time.Time) Eligibility {
	if rec == nil {
		return Eligibility{Level: 1, DaysSinceLast: 0, Eligible: true}
	}

	// Whole days, floor-truncated. Sends within hours of a day boundary are
	// deliberately counted coarsely.
	days := int(now.Sub(rec.LastSentAt).Hours() / 24)
	if days < 0 {
		days = 0
	}

	if rec.CurrentLevel >= p.MaxLevel {
		return Eligibility{Level: rec.CurrentLevel, DaysSinceLast: days, Eligible: false}
	}

	if days >= p.CooldownDays {
		return Eligibility{Level: rec.CurrentLevel + 1, DaysSinceLast: days, Eligible: true}
	}

	return Eligibility{Level: rec.CurrentLevel, DaysSinceLast: days, Eligible: false}
}

// LevelConfig is the fixed configuration for one escalation level.
type LevelConfig struct {
	Tone          string
	Urgency       string
	SubjectPrefix string
	DaysWait      int
	Description   string
}

var levelConfigs = map[int]LevelConfig{
	1: {
		Tone:          "friendly",
		Urgency:       "low",
		SubjectPrefix: "",
		DaysWait:      2,
		Description:   "First gentle reminder",
	},
	2: {
		Tone:          "professional",
		Urgency:       "medium",
		SubjectPrefix: "Reminder: ",
		DaysWait:      2,
		Description:   "Second reminder after 2 days",
	},
	3: {
		Tone:          "urgent",
		Urgency:       "high",
		SubjectPrefix: "URGENT: ",
		DaysWait:      0,
		Description:   "Final critical reminder after 4 days total",
	},
}

// ConfigForLevel returns the fixed configuration for an escalation level.
// Out-of-range levels fall back to level 1.
func ConfigForLevel(level int) LevelConfig {
	if cfg, ok := levelConfigs[level]; ok {
		return cfg
	}
	return levelConfigs[1]
}
