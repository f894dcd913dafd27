package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/campus-ops/outreach-cli/internal/config"
	"github.com/campus-ops/outreach-cli/internal/model"
	"github.com/campus-ops/outreach-cli/internal/nudge"
	"github.com/campus-ops/outreach-cli/pkg/anthropic"
)

const generateSystemPromptFmt = `You are an autonomous email generation agent for %s. You write personalized HTML reminder emails asking students to complete their profiles. Follow this template structure but personalize it:

Dear {student_name},
Greetings from %s! 👋

We noticed that your student profile is incomplete, and a few important details are still missing. Please take a moment to update them so we can ensure your records are accurate and you get full access to all academic resources.

🧾 Missing fields:
{missing_fields_list}

Completing your profile helps you stay connected with:
🎯 Class schedules and live sessions
📚 Study materials and announcements
🧩 Interactive academic activities

👉 Complete your profile here:
🔗 {form_link}

If you need any help, our Support Team is always here for you.

Best regards,
Team %s

Requirements: format missing fields as a styled bulleted list, use emojis appropriately, produce professional HTML styling, include the form link, and sign off as "Team %s". Respond with a valid JSON object: {"subject": "subject with the given prefix", "body_html": "full HTML email content"}. Output ONLY the JSON.`

const generateUserPrompt = `Student Details:
- Name: %s
- Completion: %d%%
- Missing Fields: %s

Email Strategy:
- Tone: %s
- Length: %s
- Emphasis: %s

Nudge Information:
- Nudge Level: %d of 3 (%s)
- Days Since Last: %d
- Tone guidance: %s
- Urgency: %s

Create a compelling subject line starting with the prefix %q and a full HTML body following the template. Include the form link: %s`

// toneGuidance adjusts the generated email's voice per escalation level.
var toneGuidance = map[int]string{
	1: "Use a warm, friendly, and gentle tone. This is the first reminder.",
	2: "Use a professional, encouraging tone with slight urgency. This is the second reminder (2 days after first).",
	3: "Use an urgent, direct, but still respectful tone. This is the FINAL reminder (4 days after first). Emphasize deadline and consequences.",
}

// generateInput carries everything the generation prompt needs for one
// incomplete profile: the accumulated decision and the escalation verdict.
type generateInput struct {
	Profile  model.Profile
	Decision model.Decision
	Elig     nudge.Eligibility
	Level    nudge.LevelConfig
}

type emailContent struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

// BuildGenerateInputs evaluates escalation eligibility for each incomplete
// profile. Profiles and decisions must be index-aligned. Profiles without
// an email address get first-contact treatment; they are excluded later at
// delivery, not here. A store read failure is fatal: it is not a reasoning
// step and silently defaulting every recipient to level 1 could re-send
// ahead of cooldowns.
func BuildGenerateInputs(profiles []model.Profile, decisions []model.Decision, store *nudge.Store, policy nudge.Policy, now time.Time) ([]generateInput, error) {
	inputs := make([]generateInput, len(profiles))
	for i, p := range profiles {
		elig := nudge.Eligibility{Level: 1, DaysSinceLast: 0, Eligible: true}
		if email := p.Email(); email != "" {
			rec, ok, err := store.Get(email)
			if err != nil {
				return nil, err
			}
			if ok {
				elig = policy.NextLevel(&rec, now)
			} else {
				elig = policy.NextLevel(nil, now)
			}
		}

		inputs[i] = generateInput{
			Profile:  p,
			Decision: decisions[i],
			Elig:     elig,
			Level:    nudge.ConfigForLevel(elig.Level),
		}
	}
	return inputs, nil
}

// GenerateEmails runs the content-generation reasoning step and returns one
// artifact per input, in input order. Degraded items fall back to the
// deterministic template for their escalation level.
func GenerateEmails(ctx context.Context, ex *Executor, inputs []generateInput, outCfg config.OutreachConfig) ([]model.Email, anthropic.TokenUsage) {
	system := anthropic.BuildCachedSystemBlocks(fmt.Sprintf(generateSystemPromptFmt,
		outCfg.FromName, outCfg.FromName, outCfg.FromName, outCfg.FromName))

	stage := Stage[generateInput, emailContent]{
		Name:      "generate_emails",
		System:    system,
		MaxTokens: 2000,
		Prompt: func(in generateInput) string {
			s := in.Decision.Strategy
			return fmt.Sprintf(generateUserPrompt,
				in.Profile.Name(),
				in.Profile.Completion,
				strings.Join(in.Profile.MissingFields, ", "),
				s.Tone, s.Length, s.Emphasis,
				in.Elig.Level, in.Level.Description,
				in.Elig.DaysSinceLast,
				toneGuidance[in.Elig.Level],
				in.Level.Urgency,
				in.Level.SubjectPrefix,
				outCfg.FormURL,
			)
		},
		Parse: parseEmailContent,
		Fallback: func(in generateInput, _ error) emailContent {
			subject, body := renderFallbackEmail(in.Profile, in.Elig.Level, in.Level.SubjectPrefix, outCfg)
			return emailContent{Subject: subject, BodyHTML: body}
		},
	}

	verdicts, usage := RunStage(ctx, ex, stage, inputs)

	emails := make([]model.Email, len(inputs))
	for i, in := range inputs {
		emails[i] = model.Email{
			StudentEmail:  in.Profile.Email(),
			StudentName:   in.Profile.Name(),
			Subject:       verdicts[i].Subject,
			BodyHTML:      verdicts[i].BodyHTML,
			MissingFields: in.Profile.MissingFields,
			Completion:    in.Profile.Completion,
			Nudge: model.NudgeInfo{
				Level:         in.Elig.Level,
				DaysSinceLast: in.Elig.DaysSinceLast,
				Eligible:      in.Elig.Eligible,
				Tone:          in.Level.Tone,
				Urgency:       in.Level.Urgency,
				SubjectPrefix: in.Level.SubjectPrefix,
				Description:   in.Level.Description,
			},
		}
	}
	return emails, usage
}

func parseEmailContent(text string) (emailContent, error) {
	var content emailContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return emailContent{}, fmt.Errorf("generate: parse response: %w", err)
	}
	if strings.TrimSpace(content.Subject) == "" {
		return emailContent{}, fmt.Errorf("generate: response missing subject")
	}
	if strings.TrimSpace(content.BodyHTML) == "" {
		return emailContent{}, fmt.Errorf("generate: response missing body_html")
	}
	return content, nil
}
