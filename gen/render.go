package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

const clientTemplate = `// Code generated by sorobangen. DO NOT EDIT.

package {{.Package}}

import (
	"context"

	"github.com/stellar/go-stellar-sdk/xdr"

	"sorobango"
)
{{range .Models}}
// {{.Name}}Client invokes functions on a deployed {{.Name}} contract.
type {{.Name}}Client struct {
	contract *sorobango.Contract
}

// New{{.Name}}Client wraps a deployed contract.
func New{{.Name}}Client(contract *sorobango.Contract) *{{.Name}}Client {
	return &{{.Name}}Client{contract: contract}
}
{{$client := .Name}}{{range .Methods}}
func (c *{{$client}}Client) {{.Name}}(ctx context.Context{{range .Params}}, {{.Name}} {{.Type}}{{end}}) (*sorobango.TransactionResponse, error) {
	args := []xdr.ScVal{ {{- range .Params}}
		{{scval .}},
	{{- end}}
	}
	return c.contract.Invoke(ctx, {{printf "%q" .FunctionName}}, args)
}
{{end}}{{end}}`

// Render generates client source code for the given models in the given
// package and formats it with gofmt.
func Render(pkg string, models []Model) ([]byte, error) {
	tmpl, err := template.New("client").Funcs(template.FuncMap{
		"scval": renderConversion,
	}).Parse(clientTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Package string
		Models  []Model
	}{Package: pkg, Models: models})
	if err != nil {
		return nil, fmt.Errorf("rendering client: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return formatted, nil
}

// renderConversion emits the expression that turns a parameter into an
// ScVal.
func renderConversion(p Param) string {
	conv := supportedParamTypes[p.Type]
	if conv == "" {
		return p.Name
	}
	return fmt.Sprintf("%s(%s)", conv, p.Name)
}
