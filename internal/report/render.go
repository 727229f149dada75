package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// ContentType is the media type written by Render.
const ContentType = "text/html; charset=utf-8"

type categoryView struct {
	Heading string
	Table   CategoryTable
	Format  Formatter
}

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"tableView": func(t CategoryTable, f Formatter, heading string) categoryView {
				return categoryView{Heading: heading, Table: t, Format: f}
			},
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

// Render writes doc as a self-contained HTML page that opens the print
// dialog once loaded.
func Render(w io.Writer, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("failed to render report: nil document")
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, doc); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// Filename suggests a download name for the report.
func Filename(doc *Document) string {
	return fmt.Sprintf("household-ledger-%d.html", doc.Header.Year)
}
