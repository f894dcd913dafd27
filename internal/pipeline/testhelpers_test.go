package pipeline

import (
	"testing"

	"github.com/campus-ops/outreach-cli/internal/config"
	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

func testAnthropicConfig() config.AnthropicConfig {
	return config.AnthropicConfig{
		Model:             "claude-sonnet-4-5-20250929",
		MaxTokens:         2000,
		TimeoutSecs:       5,
		MaxConcurrency:    4,
		RequestsPerSecond: 1000, // don't throttle tests
	}
}

func newTestExecutor(t *testing.T, client anthropic.Client) *Executor {
	t.Helper()
	return NewExecutor(client, testAnthropicConfig())
}

// testProfile builds a profile with the given present field values; every
// other mandatory field is missing.
func testProfile(row int, fields map[string]string) model.Profile {
	p := model.Profile{
		RowIndex: row,
		Fields:   fields,
	}
	for _, f := range model.MandatoryFields() {
		if _, ok := fields[f]; !ok {
			p.MissingFields = append(p.MissingFields, f)
		}
	}
	p.Completion = model.CompletionPercent(len(p.MissingFields))
	return p
}
