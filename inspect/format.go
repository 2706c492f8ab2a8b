package inspect

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// render formats report using Go template, sprig functions are available.
func render(rpt *Report, text string) ([]byte, error) {
	tmpl, err := template.New("report").Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse output template: %w", err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, rpt); err != nil {
		return nil, fmt.Errorf("unable to expand output template: %w", err)
	}
	return buf.Bytes(), nil
}
