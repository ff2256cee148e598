package httpserver

import (
	"fmt"
	"html/template"
)

var templateFuncs = template.FuncMap{
	"formatSize": func(size int64) string {
		const unit = 1024
		if size < unit {
			return fmt.Sprintf("%d B", size)
		}
		div, exp := int64(unit), 0
		for n := size / unit; n >= unit; n /= unit {
			div *= unit
			exp++
		}
		return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
	},
}

const landingHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>CSV Analytics</title>
</head>
<body>
  <h1>CSV Analytics</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form action="/upload/" method="post" enctype="multipart/form-data">
    <input type="file" name="file" accept=".csv" required>
    <button type="submit">Upload CSV</button>
  </form>
  <p>CSV files only, up to 10 MB.</p>
  {{if .Datasets}}
  <h2>Recent uploads</h2>
  <ul>
    {{range .Datasets}}
    <li>
      <a href="/analysis/{{.ID}}/">{{.OriginalFilename}}</a>
      ({{formatSize .FileSize}}, {{.UploadedAt.Format "2006-01-02 15:04"}})
    </li>
    {{end}}
  </ul>
  {{end}}
</body>
</html>`

const analysisHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Dataset.OriginalFilename}} - CSV Analytics</title>
</head>
<body>
  <h1>{{.Dataset.OriginalFilename}}</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <p>
    {{.RowCount}} rows, {{.ColumnCount}} columns
    ({{.NumericCount}} numeric), {{formatSize .Dataset.FileSize}}
  </p>
  <p>
    Columns: {{range $i, $c := .Columns}}{{if $i}}, {{end}}{{$c}}{{end}}<br>
    Numeric: {{range $i, $c := .NumericColumns}}{{if $i}}, {{end}}{{$c}}{{end}}
  </p>
  <div id="operations">
    {{range .Operations}}
    <button onclick="runOperation('{{.}}')">{{.}}</button>
    {{end}}
    <input type="number" id="n_clusters" value="3" min="1" title="clusters">
  </div>
  <p>
    <a href="/download/{{.Dataset.ID}}/">Download last visualization</a> |
    <a href="/download-csv/{{.Dataset.ID}}/">Download CSV</a>
  </p>
  <div id="result"></div>
  <h2>Preview</h2>
  {{.Preview}}
  <script>
    async function runOperation(op) {
      const body = new URLSearchParams();
      body.set('operation', op);
      body.set('n_clusters', document.getElementById('n_clusters').value);
      const resp = await fetch('/operation/{{.Dataset.ID}}/', {method: 'POST', body: body});
      const data = await resp.json();
      const out = document.getElementById('result');
      if (!resp.ok || data.error) {
        out.innerHTML = '<p class="error">' + (data.error || 'request failed') + '</p>';
        return;
      }
      let html = '<pre>' + JSON.stringify(data.stats, null, 2) + '</pre>';
      if (data.image) {
        html += '<img src="data:image/png;base64,' + data.image + '" alt="' + data.operation + '">';
      }
      if (data.html) {
        html += data.html;
      }
      out.innerHTML = html;
    }
  </script>
</body>
</html>`

// pageTemplates holds the rendered HTML pages, parsed once at startup.
func pageTemplates() *template.Template {
	t := template.New("pages").Funcs(templateFuncs)
	template.Must(t.New("landing").Parse(landingHTML))
	template.Must(t.New("analysis").Parse(analysisHTML))
	return t
}
