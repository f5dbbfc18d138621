package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

var welcomeText = template.Must(template.New("welcome").Parse(
	`Hi {{.FullName}},

Welcome to Lingomate! Complete your profile to get matched with language
partners and start chatting.

The Lingomate team
`))

// RenderWelcome produces subject and text body for the welcome mail.
func RenderWelcome(data map[string]any) (subject, text string, err error) {
	var buf bytes.Buffer
	if err := welcomeText.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render welcome: %w", err)
	}
	return "Welcome to Lingomate", buf.String(), nil
}
