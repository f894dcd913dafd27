package pipeline

import (
	"html/template"
	"strings"

	"github.com/campus-ops/outreach-cli/internal/config"
	"github.com/campus-ops/outreach-cli/internal/model"
)

// headerGradients styles the fallback email header per escalation level.
var headerGradients = map[int]string{
	1: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	2: "linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	3: "linear-gradient(135deg, #fa709a 0%, #fee140 100%)",
}

var fallbackEmailTmpl = template.Must(template.New("fallback_email").Parse(`<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: {{.HeaderGradient}}; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
        .missing-fields { background: #fff; padding: 15px; border-left: 4px solid #f59e0b; margin: 20px 0; border-radius: 5px; }
        .missing-fields ul { list-style: none; padding: 0; }
        .missing-fields li { padding: 8px 0; }
        .benefits { background: #fff; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .benefits ul { list-style: none; padding: 0; }
        .benefits li { padding: 5px 0; }
        .cta-button { display: inline-block; background: #4285F4; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin: 20px 0; }
        .footer { text-align: center; color: #666; margin-top: 30px; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2 style="margin:0;">{{.FromName}}</h2>
        </div>
        <div class="content">
            <p>Dear <strong>{{.StudentName}}</strong>,</p>
            <p>Greetings from {{.FromName}}! 👋</p>

            <p>We noticed that your student profile is <strong>{{.Completion}}% complete</strong>, and a few important details are still missing. Please take a moment to update them so we can ensure your records are accurate and you get full access to all academic resources.</p>

            <div class="missing-fields">
                <p><strong>🧾 Missing fields:</strong></p>
                <ul>{{range .MissingFields}}<li>✦ <strong>{{.}}</strong></li>{{end}}</ul>
            </div>

            <div class="benefits">
                <p><strong>Completing your profile helps you stay connected with:</strong></p>
                <ul>
                    <li>🎯 Class schedules and live sessions</li>
                    <li>📚 Study materials and announcements</li>
                    <li>🧩 Interactive academic activities</li>
                </ul>
            </div>

            <p><strong>👉 Complete your profile here:</strong></p>
            <center>
                <a href="{{.FormURL}}" class="cta-button">Complete Profile Now</a>
            </center>

            <p>If you need any help, our Support Team is always here for you.</p>

            <p>Let's make sure your journey at {{.FromName}} continues smoothly and without interruption!</p>

            <div class="footer">
                <p><strong>Best regards,</strong><br>Team {{.FromName}}</p>
            </div>
        </div>
    </div>
</body>
</html>`))

type fallbackEmailData struct {
	StudentName    string
	Completion     int
	MissingFields  []string
	FormURL        string
	FromName       string
	HeaderGradient template.CSS
}

// renderFallbackEmail produces the deterministic templated reminder used
// when email generation degrades. The subject carries the level's configured
// prefix and the body lists every missing field.
func renderFallbackEmail(p model.Profile, level int, prefix string, cfg config.OutreachConfig) (subject, bodyHTML string) {
	gradient, ok := headerGradients[level]
	if !ok {
		gradient = headerGradients[1]
	}

	fields := make([]string, len(p.MissingFields))
	for i, f := range p.MissingFields {
		fields[i] = fieldTitle(f)
	}

	data := fallbackEmailData{
		StudentName:    p.Name(),
		Completion:     p.Completion,
		MissingFields:  fields,
		FormURL:        cfg.FormURL,
		FromName:       cfg.FromName,
		HeaderGradient: template.CSS(gradient),
	}

	var sb strings.Builder
	// The template only fails on unrenderable data; ours is all plain values.
	_ = fallbackEmailTmpl.Execute(&sb, data)

	subject = prefix + "Complete Your " + cfg.FromName + " Profile - Action Needed"
	return subject, sb.String()
}

// fieldTitle turns a canonical field name into a display label,
// e.g. "date_of_birth" → "Date Of Birth".
func fieldTitle(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
