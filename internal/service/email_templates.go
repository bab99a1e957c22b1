package service

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/selfgrowth/tracker/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.md
var emailTemplatesFS embed.FS

var emailTemplates = template.Must(template.ParseFS(emailTemplatesFS, "templates/*.md"))

type emailMessage struct {
	Subject string
	HTML    string
	Text    string
}

// render executes a markdown template and splits it into subject (from
// frontmatter), HTML and plain-text bodies.
func (s *EmailService) render(name string, data any) (*emailMessage, error) {
	var source bytes.Buffer
	err := emailTemplates.ExecuteTemplate(&source, name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute email template %s: %w", name, err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(source.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to render email template %s: %w", name, err)
	}

	subject, _ := meta["subject"].(string)
	if subject == "" {
		return nil, fmt.Errorf("email template %s has no subject", name)
	}

	return &emailMessage{
		Subject: subject,
		HTML:    string(html),
		Text:    string(markdown.Body(source.Bytes())),
	}, nil
}

func cadenceLabel(cadence string) string {
	return cases.Title(language.English).String(cadence)
}
