package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// DashboardRenderOptions holds configuration for rendering a dashboard.
type DashboardRenderOptions struct {
	SkipSimulations bool // Do not render the simulation ledger section.
}

// RenderDashboard renders the Dashboard struct to a markdown string.
func RenderDashboard(d *Dashboard, opts DashboardRenderOptions) string {
	partials := map[string]string{
		"dashboard_title":     "dashboard_title.md",
		"dashboard_kpi":       "dashboard_kpi.md",
		"dashboard_positions": "dashboard_positions.md",
	}
	// An empty file name results in an empty template.
	if !opts.SkipSimulations {
		partials["dashboard_simulations"] = "dashboard_simulations.md"
	} else {
		partials["dashboard_simulations"] = ""
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderQuote renders a quote and its sizing to a markdown string.
func RenderQuote(q *Quote) string {
	return renderTemplate("quote", "quote.md", nil, q)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
