package server

import (
	"html/template"
	"net/http"
	"time"

	"verdict/internal/domain"
	"verdict/internal/history"
)

type indexData struct {
	DatasetPath string
	Summary     string
	DocCount    int
}

type resultData struct {
	Query          string
	Options        []domain.Option
	Analyses       []domain.Analysis
	Recommendation string
	Duration       time.Duration
}

type errorData struct {
	Query string
	Error string
}

type historyData struct {
	Sessions []*history.Session
}

var pages = template.Must(template.New("pages").Parse(`
{{define "head"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>verdict</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.4rem; } h2 { font-size: 1.1rem; margin-top: 1.5rem; }
textarea, input[type=text] { width: 100%; box-sizing: border-box; padding: 0.5rem; }
button { padding: 0.5rem 1.2rem; margin-top: 0.5rem; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 0.8rem 1rem; margin: 0.6rem 0; }
.score { color: #888; font-size: 0.85rem; }
.failed { color: #a33; }
.rec { background: #f2f8f2; border-color: #9c9; }
.meta { color: #888; font-size: 0.85rem; }
a { color: #36c; }
pre { white-space: pre-wrap; }
</style>
</head>
<body>
<h1><a href="/">verdict</a></h1>
<p class="meta"><a href="/history">history</a></p>
{{end}}

{{define "foot"}}</body></html>{{end}}

{{define "index"}}{{template "head"}}
<p class="meta">Dataset: {{.DatasetPath}} ({{.DocCount}} entries)</p>
{{if .Summary}}<div class="card"><pre>{{.Summary}}</pre></div>{{end}}
<form method="post" action="/decide">
<label for="query">What do you need to decide?</label>
<textarea id="query" name="query" rows="3" placeholder="e.g. Which laptop should I buy for video editing under $1500?"></textarea>
<button type="submit">Decide</button>
</form>
{{template "foot"}}{{end}}

{{define "result"}}{{template "head"}}
<h2>Query</h2>
<p>{{.Query}}</p>
<h2>Options ({{len .Options}})</h2>
{{range .Options}}
<div class="card"><pre>{{.Document.Content}}</pre><span class="score">score {{printf "%.3f" .Score}}</span></div>
{{end}}
<h2>Pros &amp; Cons</h2>
{{range .Analyses}}
<div class="card{{if .Failed}} failed{{end}}"><pre>{{.Text}}</pre></div>
{{end}}
<h2>Recommendation</h2>
<div class="card rec"><pre>{{.Recommendation}}</pre></div>
<p class="meta">Completed in {{.Duration}}</p>
{{template "foot"}}{{end}}

{{define "error"}}{{template "head"}}
<h2>Query</h2>
<p>{{.Query}}</p>
<div class="card failed"><pre>{{.Error}}</pre></div>
<p><a href="/">Try again</a></p>
{{template "foot"}}{{end}}

{{define "history"}}{{template "head"}}
<h2>Recent sessions</h2>
{{if not .Sessions}}<p class="meta">No sessions yet.</p>{{end}}
{{range .Sessions}}
<div class="card{{if eq .Status "failed"}} failed{{end}}">
<p>{{.Query}}</p>
{{if .Recommendation}}<pre>{{.Recommendation}}</pre>{{end}}
{{if .Error}}<pre>{{.Error}}</pre>{{end}}
<span class="meta">{{.CreatedAt.Format "2006-01-02 15:04"}} &middot; {{.Status}} &middot; {{.Duration}}</span>
</div>
{{end}}
{{template "foot"}}{{end}}
`))

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", "template", name, "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, query string, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	if terr := pages.ExecuteTemplate(w, "error", errorData{Query: query, Error: err.Error()}); terr != nil {
		s.log.Error("template render failed", "template", "error", "error", terr)
	}
}
