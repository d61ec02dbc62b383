package out

import (
	"bytes"
	"fmt"
	"html/template"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
)

var htmlPage = template.Must(template.New("schedule").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Schedule for {{.Date}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; color: #4c4f69; }
table { border-collapse: collapse; width: 100%; }
td, th { padding: .4rem .6rem; border-bottom: 1px solid #ccd0da; text-align: left; }
.high { color: #d20f39; } .medium { color: #df8e1d; } .low { color: #40a02b; }
</style>
</head>
<body>
<h1>Schedule for {{.Date}}</h1>
<table>
<tr><th>Time</th><th>Task</th><th>Energy</th><th>Why</th></tr>
{{- range .Entries}}
<tr><td>{{.Start}}-{{.End}}</td><td>{{.Task}}</td><td class="{{.Energy}}">{{.Energy}}</td><td>{{.Reasoning}}</td></tr>
{{- end}}
</table>
{{- if .Tips}}
<h2>Tips</h2>
<ul>
{{- range .Tips}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

type HTMLExporter struct{}

func NewHTMLExporter() scheduleout.Exporter {
	return HTMLExporter{}
}

func (HTMLExporter) Format() string    { return "html" }
func (HTMLExporter) Extension() string { return ".html" }

func (HTMLExporter) Export(s domain.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, s); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
