package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

// Reporter outputs reports as an indented list, for narrow terminals and pipes.
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

const listTemplate = `{{.Title}}
{{range .Sections}}
== {{.Title}}
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{range .Details}}- {{.Name}}: {{.Value}}{{if .Unit}} ({{.Unit}}){{end}}{{if .Description}}
  {{.Description}}{{end}}
{{end}}{{end}}`

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		tmpl:   template.Must(template.New("report").Parse(listTemplate)),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	if err := c.tmpl.Execute(c.writer, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
