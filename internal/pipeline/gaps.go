package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

const gapSystemPrompt = `You are an autonomous agent analyzing student profiles for an academic institution. For each profile you decide how critical the gap is, how responsive the student is likely to be, and whether to prioritize them. Respond with a valid JSON object: {"criticality": "low/medium/high", "responsiveness": "low/medium/high", "priority": "yes/no", "reasoning": "brief explanation"}. Output ONLY the JSON, nothing else.`

const gapUserPrompt = `Student Profile:
- Name: %s
- Email: %s
- Completion: %d%%
- Missing Fields: %s

Analyze this student's situation and decide:
1. How critical is this profile gap? (low/medium/high)
2. What's the student's likely responsiveness? (low/medium/high)
3. Should we prioritize this student? (yes/no)`

// ClassifyGaps runs the gap-severity reasoning step over incomplete
// profiles and returns one Decision per profile, in input order. Callers
// must pass only profiles with at least one missing field.
func ClassifyGaps(ctx context.Context, ex *Executor, profiles []model.Profile) ([]model.Decision, anthropic.TokenUsage) {
	stage := Stage[model.Profile, model.GapAnalysis]{
		Name:      "classify_gaps",
		System:    anthropic.BuildCachedSystemBlocks(gapSystemPrompt),
		MaxTokens: 500,
		Prompt: func(p model.Profile) string {
			email := p.Email()
			if email == "" {
				email = "Unknown"
			}
			return fmt.Sprintf(gapUserPrompt, p.Name(), email, p.Completion, strings.Join(p.MissingFields, ", "))
		},
		Parse:    parseGapAnalysis,
		Fallback: fallbackGapAnalysis,
	}

	verdicts, usage := RunStage(ctx, ex, stage, profiles)

	decisions := make([]model.Decision, len(profiles))
	for i, p := range profiles {
		decisions[i] = model.Decision{
			StudentEmail: p.Email(),
			StudentName:  p.Name(),
			Analysis:     verdicts[i],
		}
	}
	return decisions, usage
}

func parseGapAnalysis(text string) (model.GapAnalysis, error) {
	var analysis model.GapAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return model.GapAnalysis{}, fmt.Errorf("gap analysis: parse response: %w", err)
	}

	analysis.Criticality = strings.ToLower(analysis.Criticality)
	analysis.Responsiveness = strings.ToLower(analysis.Responsiveness)
	analysis.Priority = strings.ToLower(analysis.Priority)

	if !validRating(analysis.Criticality) {
		return model.GapAnalysis{}, fmt.Errorf("gap analysis: invalid criticality %q", analysis.Criticality)
	}
	if !validRating(analysis.Responsiveness) {
		return model.GapAnalysis{}, fmt.Errorf("gap analysis: invalid responsiveness %q", analysis.Responsiveness)
	}
	if analysis.Priority != "yes" && analysis.Priority != "no" {
		return model.GapAnalysis{}, fmt.Errorf("gap analysis: invalid priority %q", analysis.Priority)
	}

	return analysis, nil
}

func fallbackGapAnalysis(_ model.Profile, cause error) model.GapAnalysis {
	return model.GapAnalysis{
		Criticality:    model.RatingMedium,
		Responsiveness: model.RatingMedium,
		Priority:       "yes",
		Reasoning:      "Auto-analysis (reasoning unavailable: " + cause.Error() + ")",
	}
}

func validRating(v string) bool {
	switch v {
	case model.RatingLow, model.RatingMedium, model.RatingHigh:
		return true
	}
	return false
}
