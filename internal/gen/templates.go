package gen

import (
	"text/template"
)

type importSpec struct {
	Path string
}

type importGroups struct {
	Standard []importSpec
	Other    []importSpec
}

type assemblyData struct {
	PackageName string
	Imports     importGroups
	Path        string
	Types       []string
}

type proxyData struct {
	PackageName string
	Imports     importGroups
	Proxies     []proxyType
}

type proxyType struct {
	Interface   string
	Impl        string
	Constructor string
	Methods     []methodData
}

type methodData struct {
	Name         string
	Params       string
	Results      string
	Call         string
	ReturnsError bool
}

const importsTemplate = `{{define "imports"}}
import (
{{- range .Standard}}
	"{{.Path}}"
{{- end}}
{{- if and .Standard .Other}}
{{end}}
{{- range .Other}}
	"{{.Path}}"
{{- end}}
){{end}}`

var assemblyTemplate = template.Must(template.New("assembly").Parse(importsTemplate + `// Code generated by mapwire. DO NOT EDIT.

package {{.PackageName}}
{{template "imports" .Imports}}

func init() {
	scan.Register(&scan.Assembly{
		Path: {{printf "%q" .Path}},
		Types: []reflect.Type{
{{- range .Types}}
			reflect.TypeFor[{{.}}](),
{{- end}}
		},
	})
}
`))

var proxyTemplate = template.Must(template.New("proxies").Parse(importsTemplate + `// Code generated by mapwire. DO NOT EDIT.

package {{.PackageName}}
{{template "imports" .Imports}}
{{- range .Proxies}}
{{- $impl := .Impl}}

// {{.Impl}} implements {{.Interface}} on top of *mapper.Mapper.
type {{.Impl}} struct {
	mapper *mapper.Mapper
}

func {{.Constructor}}(m *mapper.Mapper) {{.Interface}} {
	return &{{.Impl}}{mapper: m}
}
{{- range .Methods}}

func (p *{{$impl}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- if .ReturnsError}}
	return {{.Call}}
{{- else}}
	out, err := {{.Call}}
	if err != nil {
		panic(err)
	}

	return out
{{- end}}
}
{{- end}}
{{- end}}

func init() {
{{- range .Proxies}}
	proxy.Emit({{.Constructor}})
{{- end}}
}
`))
