package notifications

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/mfreeman451/camwatch/pkg/models"
)

const subjectPrefix = "[Reolink Camera]"

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

func mustTemplate(name, subject, body string) messageTemplate {
	return messageTemplate{
		subject: template.Must(template.New(name + "-subject").Parse(subject)),
		body:    template.Must(template.New(name + "-body").Parse(body)),
	}
}

var (
	healthyTemplate = mustTemplate("healthy",
		subjectPrefix+" {{.Name}} : Storage level is healthy again",
		"Status: {{.}}")
	warningTemplate = mustTemplate("warning",
		subjectPrefix+" {{.Name}}: Storage level is getting low",
		"Status: {{.}}")
	criticalTemplate = mustTemplate("critical",
		subjectPrefix+" {{.Name}}: Storage level is getting critical",
		"Status: {{.}}")
	unknownTemplate = mustTemplate("unknown",
		subjectPrefix+" {{.Name}}: Storage level is unknown",
		"Something went wrong")
)

func templateFor(level models.Level) messageTemplate {
	switch level {
	case models.LevelHealthy:
		return healthyTemplate
	case models.LevelWarning:
		return warningTemplate
	case models.LevelCritical:
		return criticalTemplate
	default:
		return unknownTemplate
	}
}

// Render builds the subject and body for a reading at the given level.
// Levels outside the enum fall back to the "unknown" template.
func Render(reading models.StorageReading, level models.Level) (*Message, error) {
	tmpl := templateFor(level)

	var subject, body bytes.Buffer

	if err := tmpl.subject.Execute(&subject, reading); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	if err := tmpl.body.Execute(&body, reading); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return &Message{
		Device:    reading.Name,
		Level:     level,
		Subject:   subject.String(),
		Body:      body.String(),
		Reading:   reading,
		Timestamp: time.Now().UTC(),
	}, nil
}
