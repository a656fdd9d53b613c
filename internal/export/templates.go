package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var rosterTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
	}

	templateContent, err := templateFS.ReadFile("templates/roster.html")
	if err != nil {
		// Fallback to built-in template if file not found
		rosterTemplate = template.Must(template.New("roster").Funcs(funcMap).Parse(fallbackTemplate))
		return
	}

	rosterTemplate = template.Must(template.New("roster").Funcs(funcMap).Parse(string(templateContent)))
}

// TemplateData holds data for roster template rendering
type TemplateData struct {
	Name       string
	ParentType string
	Members    []TemplateMember
}

// TemplateMember holds one member row for the template
type TemplateMember struct {
	DisplayName string
	Email       string
	Role        string
	JoinedAt    time.Time
}

// RenderRosterHTML renders the roster template with provided data
func RenderRosterHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := rosterTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fallbackTemplate is used if the embedded template fails to load
const fallbackTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Name}} members</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    table { width: 100%; border-collapse: collapse; }
    th, td { text-align: left; padding: 0.5rem; border-bottom: 1px solid #ddd; }
  </style>
</head>
<body>
  <h1>{{.Name}}</h1>
  <table>
    <tr><th>Name</th><th>Email</th><th>Role</th><th>Joined</th></tr>
    {{range .Members}}<tr><td>{{.DisplayName}}</td><td>{{.Email}}</td><td>{{.Role}}</td><td>{{.JoinedAt.Format "Jan 2, 2006"}}</td></tr>{{end}}
  </table>
</body>
</html>`
