package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

// Welcome is the template name used in EmailJob.Template for the
// post-signup welcome email.
const Welcome = "welcome"

const welcomeSubject = "Welcome to Our Application"

const welcomeText = `Hi {{.Name}},

Thank you for joining {{.AppName}}!

You can now sign in with {{.Email}} and set up your profile.

— The {{.AppName}} team
`

const welcomeHTML = `<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Welcome to {{.AppName}}</h2>
    <p>Hi {{.Name}},</p>
    <p>Thank you for joining our application! You can now sign in with
       <strong>{{.Email}}</strong> and set up your profile.</p>
    <p>— The {{.AppName}} team</p>
  </body>
</html>
`

var (
	welcomeTextTpl = texttpl.Must(texttpl.New("welcome_text").Parse(welcomeText))
	welcomeHTMLTpl = htmpl.Must(htmpl.New("welcome_html").Parse(welcomeHTML))
)

// Render resolves a template name to subject, text and HTML bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case Welcome:
		var tb, hb bytes.Buffer
		if err := welcomeTextTpl.Execute(&tb, data); err != nil {
			return "", "", "", fmt.Errorf("render welcome text: %w", err)
		}
		if err := welcomeHTMLTpl.Execute(&hb, data); err != nil {
			return "", "", "", fmt.Errorf("render welcome html: %w", err)
		}
		return welcomeSubject, tb.String(), hb.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
