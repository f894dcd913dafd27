package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

func TestDecideStrategy(t *testing.T) {
	client := &scriptedClient{
		respond: func(req anthropic.MessageRequest) (string, error) {
			if strings.Contains(req.Messages[0].Content, "Student: Alice") {
				return `{"tone": "urgent", "length": "short", "emphasis": "deadline", "reasoning": "low responsiveness"}`, nil
			}
			return `{"tone": "friendly", "length": "detailed", "emphasis": "personal_touch", "reasoning": "engaged student"}`, nil
		},
	}
	ex := newTestExecutor(t, client)

	profiles := []model.Profile{
		testProfile(2, map[string]string{
			model.FieldStudentName: "Alice",
			model.FieldEmail:       "alice@example.com",
		}),
		testProfile(3, map[string]string{
			model.FieldStudentName: "Bob",
			model.FieldEmail:       "bob@example.com",
		}),
	}
	decisions := []model.Decision{
		{StudentEmail: "alice@example.com", StudentName: "Alice", Analysis: model.GapAnalysis{Criticality: model.RatingHigh, Responsiveness: model.RatingLow, Priority: "yes"}},
		{StudentEmail: "bob@example.com", StudentName: "Bob", Analysis: model.GapAnalysis{Criticality: model.RatingLow, Responsiveness: model.RatingHigh, Priority: "no"}},
	}

	out, _ := DecideStrategy(context.Background(), ex, profiles, decisions)
	require.Len(t, out, 2)

	// Prior analysis verdicts carry through unchanged.
	assert.Equal(t, decisions[0].Analysis, out[0].Analysis)
	assert.Equal(t, decisions[1].Analysis, out[1].Analysis)

	assert.Equal(t, model.ToneUrgent, out[0].Strategy.Tone)
	assert.Equal(t, model.LengthShort, out[0].Strategy.Length)
	assert.Equal(t, model.EmphasisDeadline, out[0].Strategy.Emphasis)

	assert.Equal(t, model.ToneFriendly, out[1].Strategy.Tone)
	assert.Equal(t, model.EmphasisPersonalTouch, out[1].Strategy.Emphasis)
}

func TestDecideStrategy_FallbackOnBadVerdict(t *testing.T) {
	client := &scriptedClient{
		respond: func(anthropic.MessageRequest) (string, error) {
			return `{"tone": "aggressive", "length": "medium", "emphasis": "benefits"}`, nil
		},
	}
	ex := newTestExecutor(t, client)

	profiles := []model.Profile{
		testProfile(2, map[string]string{model.FieldStudentName: "Dave"}),
	}
	decisions := []model.Decision{{StudentName: "Dave"}}

	out, _ := DecideStrategy(context.Background(), ex, profiles, decisions)
	require.Len(t, out, 1)

	assert.Equal(t, model.ToneProfessional, out[0].Strategy.Tone)
	assert.Equal(t, model.LengthMedium, out[0].Strategy.Length)
	assert.Equal(t, model.EmphasisBenefits, out[0].Strategy.Emphasis)
	assert.Contains(t, out[0].Strategy.Reasoning, "reasoning unavailable")
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", `{"tone": "professional", "length": "medium", "emphasis": "benefits", "reasoning": "ok"}`, false},
		{"mixed case normalized", `{"tone": "Friendly", "length": "Short", "emphasis": "Deadline"}`, false},
		{"invalid tone", `{"tone": "casual", "length": "medium", "emphasis": "benefits"}`, true},
		{"invalid length", `{"tone": "friendly", "length": "huge", "emphasis": "benefits"}`, true},
		{"invalid emphasis", `{"tone": "friendly", "length": "short", "emphasis": "fear"}`, true},
		{"not json", `nope`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
