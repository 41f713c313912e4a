package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/audit-atlas/pkg/models/domain"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        14,
		ValueWidth:       44,
		UnitWidth:        10,
		DescriptionWidth: 36,
	}
}

// Reporter renders a report as a fixed-width table.
type Reporter struct {
	writer io.Writer
	config TableConfig
	tmpl   *template.Template
}

const tableTemplate = `
{{.Title}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{if .Details}}
{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
{{end}}{{end}}`

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	c := &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}

	funcMap := template.FuncMap{
		"formatRow": func(name string, value interface{}, unit string, desc string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.NameWidth, clip(name, c.config.NameWidth),
				c.config.ValueWidth, clip(fmt.Sprint(value), c.config.ValueWidth),
				c.config.UnitWidth, clip(unit, c.config.UnitWidth),
				c.config.DescriptionWidth, clip(desc, c.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
	}
	c.tmpl = template.Must(template.New("report").Funcs(funcMap).Parse(tableTemplate))
	return c
}

func (c *Reporter) Handle(report *domain.Report) error {
	if err := c.tmpl.Execute(c.writer, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// clip shortens s to width runes, marking the cut with "~".
func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 1 {
		return s
	}
	return string(r[:width-1]) + "~"
}
