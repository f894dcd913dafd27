package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

const strategySystemPrompt = `You are an autonomous agent deciding reminder email strategy for students with incomplete profiles. Respond with a valid JSON object: {"tone": "friendly/professional/urgent", "length": "short/medium/detailed", "emphasis": "deadline/benefits/personal_touch", "reasoning": "brief explanation"}. Output ONLY the JSON.`

const strategyUserPrompt = `Student: %s
Completion: %d%%
Missing: %s
Analysis: criticality=%s, responsiveness=%s, priority=%s (%s)

Decide the best email strategy:
1. Tone: friendly/professional/urgent
2. Length: short/medium/detailed
3. Emphasis: deadline/benefits/personal_touch`

// strategyInput pairs a profile with its stage-1 decision so the strategy
// prompt can consume the prior verdict as context.
type strategyInput struct {
	Profile  model.Profile
	Decision model.Decision
}

// DecideStrategy runs the strategy reasoning step over existing decisions
// and returns them extended with tone/length/emphasis, in input order.
func DecideStrategy(ctx context.Context, ex *Executor, profiles []model.Profile, decisions []model.Decision) ([]model.Decision, anthropic.TokenUsage) {
	inputs := make([]strategyInput, len(decisions))
	for i := range decisions {
		inputs[i] = strategyInput{Profile: profiles[i], Decision: decisions[i]}
	}

	stage := Stage[strategyInput, model.Strategy]{
		Name:      "decide_strategy",
		System:    anthropic.BuildCachedSystemBlocks(strategySystemPrompt),
		MaxTokens: 500,
		Prompt: func(in strategyInput) string {
			a := in.Decision.Analysis
			return fmt.Sprintf(strategyUserPrompt,
				in.Decision.StudentName,
				in.Profile.Completion,
				strings.Join(in.Profile.MissingFields, ", "),
				a.Criticality, a.Responsiveness, a.Priority, a.Reasoning,
			)
		},
		Parse:    parseStrategy,
		Fallback: fallbackStrategy,
	}

	verdicts, usage := RunStage(ctx, ex, stage, inputs)

	out := make([]model.Decision, len(decisions))
	for i, d := range decisions {
		d.Strategy = verdicts[i]
		out[i] = d
	}
	return out, usage
}

func parseStrategy(text string) (model.Strategy, error) {
	var strategy model.Strategy
	if err := json.Unmarshal([]byte(text), &strategy); err != nil {
		return model.Strategy{}, fmt.Errorf("strategy: parse response: %w", err)
	}

	strategy.Tone = strings.ToLower(strategy.Tone)
	strategy.Length = strings.ToLower(strategy.Length)
	strategy.Emphasis = strings.ToLower(strategy.Emphasis)

	switch strategy.Tone {
	case model.ToneFriendly, model.ToneProfessional, model.ToneUrgent:
	default:
		return model.Strategy{}, fmt.Errorf("strategy: invalid tone %q", strategy.Tone)
	}
	switch strategy.Length {
	case model.LengthShort, model.LengthMedium, model.LengthDetailed:
	default:
		return model.Strategy{}, fmt.Errorf("strategy: invalid length %q", strategy.Length)
	}
	switch strategy.Emphasis {
	case model.EmphasisDeadline, model.EmphasisBenefits, model.EmphasisPersonalTouch:
	default:
		return model.Strategy{}, fmt.Errorf("strategy: invalid emphasis %q", strategy.Emphasis)
	}

	return strategy, nil
}

func fallbackStrategy(_ strategyInput, cause error) model.Strategy {
	return model.Strategy{
		Tone:      model.ToneProfessional,
		Length:    model.LengthMedium,
		Emphasis:  model.EmphasisBenefits,
		Reasoning: "Default strategy (reasoning unavailable: " + cause.Error() + ")",
	}
}
