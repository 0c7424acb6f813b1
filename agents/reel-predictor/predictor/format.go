package predictor

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"reel-predictor/internal/models"
)

var textReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"tier": func(t models.Tier) string { return strings.ToUpper(string(t)) },
	"bar": func(percent float64) string {
		filled := int(percent / 5)
		return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
	},
	"marker": func(ordered bool, item models.ListItem) string {
		switch {
		case item.Label != "":
			return item.Label + ":"
		case ordered:
			return fmt.Sprintf("%d.", item.Position)
		default:
			return "✓"
		}
	},
}).Parse(`Analysis Results
{{- if .Filename}}
{{.Filename}} • {{.Duration}} seconds
{{- else}}
{{.Duration}} seconds
{{- end}}

Viral Score:  {{.Score.Text}} [{{tier .Score.Tier}}]
Viral Chance: {{.Chance.Text}} [{{tier .Chance.Tier}}]

Current Caption Analysis
  Caption Score: {{.Caption.Text}} {{bar .Caption.Percent}}
  {{.Caption.Feedback}}
{{- with .SuggestedCaptions}}
{{template "section" .}}
{{- end}}
{{- if not .Hashtags.Empty}}

Hashtag Strategy
{{- with .Hashtags.Broad}}
  {{.Title}}: {{range $i, $it := .Items}}{{if $i}} {{end}}{{$it.Text}}{{end}}
{{- end}}
{{- with .Hashtags.Medium}}
  {{.Title}}: {{range $i, $it := .Items}}{{if $i}} {{end}}{{$it.Text}}{{end}}
{{- end}}
{{- with .Hashtags.Niche}}
  {{.Title}}: {{range $i, $it := .Items}}{{if $i}} {{end}}{{$it.Text}}{{end}}
{{- end}}
{{- end}}
{{- with .ViralReasons}}
{{template "section" .}}
{{- end}}
{{- with .ProTips}}
{{template "section" .}}
{{- end}}
{{- with .PostTimes}}
{{template "section" .}}
{{- end}}
{{- if .AlgorithmInsights}}

Algorithm Insights: {{.AlgorithmInsights}}
{{- end}}
{{- define "section"}}
{{.Title}}
{{- $ordered := .Ordered}}
{{- range .Items}}
  {{marker $ordered .}} {{.Text}}
{{- end}}
{{- end}}`))

// WriteText writes a plain-text rendering of report to w. An invisible report writes nothing.
func WriteText(w io.Writer, report models.Report) error {
	if !report.Visible {
		return nil
	}
	if err := textReport.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
