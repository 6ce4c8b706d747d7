package dashboard

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
)

var funcMap = template.FuncMap{
	"upper": strings.ToUpper,
}

var pageTmpls = map[string]*template.Template{
	"overview": template.Must(template.New("overview").Funcs(funcMap).Parse(overviewHTML)),
}

func renderPage(w http.ResponseWriter, name string, data map[string]any) {
	tmpl, ok := pageTmpls[name]
	if !ok {
		http.Error(w, "unknown page: "+name, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

const overviewHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>bodyguard</title>
    <style>
        body { font-family: sans-serif; margin: 2rem; color: #1f2937; }
        table { border-collapse: collapse; margin-bottom: 1.5rem; }
        th, td { text-align: left; padding: 0.25rem 1rem; border-bottom: 1px solid #e5e7eb; }
        .rejected { color: #b91c1c; }
        .error { color: #b45309; }
    </style>
</head>
<body>
<h1>bodyguard</h1>
{{with .Stats}}
<h2>Outcomes</h2>
<table>
    <tr><th>Total</th><td>{{.Total}}</td></tr>
    <tr><th>Unchanged</th><td>{{.UnchangedCount}}</td></tr>
    <tr><th>Transformed</th><td>{{.TransformedCount}}</td></tr>
    <tr><th class="rejected">Rejected</th><td>{{.RejectedCount}}</td></tr>
    <tr><th class="error">Errors</th><td>{{.ErrorCount}}</td></tr>
</table>
<h2>By stage</h2>
<table>
    {{range $stage, $n := .ByStage}}<tr><th>{{upper (printf "%s" $stage)}}</th><td>{{$n}}</td></tr>
    {{else}}<tr><td>no records yet</td></tr>{{end}}
</table>
<h2>By filter</h2>
<table>
    {{range $filter, $n := .ByFilter}}<tr><th>{{$filter}}</th><td>{{$n}}</td></tr>
    {{else}}<tr><td>no records yet</td></tr>{{end}}
</table>
{{end}}
</body>
</html>
`
