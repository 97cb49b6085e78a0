package web

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/habitdash/internal/chart"
	"github.com/KaramelBytes/habitdash/internal/dashboard"
	"github.com/KaramelBytes/habitdash/internal/dataset"
)

const (
	plotlyURL   = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	datastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
)

var (
	//go:embed assets/habitdash.js
	pageScript string
	//go:embed assets/habitdash.css
	pageStyle string
)

// pageView is everything the templates need.
type pageView struct {
	Title       string
	Groups      []groupView
	Active      []groupView
	Footer      string
	PlotlyURL   string
	DatastarURL string
	Script      template.JS
	Style       template.CSS
	// Interactive wires the sidebar to the toggle endpoint; static exports
	// link to in-page anchors instead.
	Interactive bool
	Watch       bool
}

type groupView struct {
	ID        string
	Button    string
	Subheader string
	On        bool
	Figures   []chart.Figure
	Summary   *tableView
}

type tableView struct {
	Columns []string
	Rows    [][]cellView
}

type cellView struct {
	Text    string
	Numeric bool
}

func newPageView(d *dashboard.Dashboard, t dashboard.Toggles, interactive, watch bool) pageView {
	p := message.NewPrinter(language.English)
	v := pageView{
		Title:       d.Title,
		Footer:      p.Sprintf("%d records from %s · build %s", d.Rows, d.Source, d.BuildID.String()[:8]),
		PlotlyURL:   plotlyURL,
		DatastarURL: datastarURL,
		Script:      template.JS(pageScript), //nolint:gosec // embedded asset
		Style:       template.CSS(pageStyle), //nolint:gosec // embedded asset
		Interactive: interactive,
		Watch:       watch,
	}
	for _, g := range d.Groups() {
		gv := groupView{
			ID:        string(g.ID),
			Button:    g.Button,
			Subheader: g.Subheader,
			On:        t[g.ID],
			Figures:   g.Figures,
		}
		if g.Summary != nil {
			gv.Summary = newTableView(p, g.Summary)
		}
		v.Groups = append(v.Groups, gv)
		if gv.On {
			v.Active = append(v.Active, gv)
		}
	}
	return v
}

func newTableView(p *message.Printer, t *dataset.Table) *tableView {
	tv := &tableView{Columns: t.Columns()}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]cellView, len(row))
		for j, v := range row {
			cells[j] = formatCell(p, v)
		}
		tv.Rows = append(tv.Rows, cells)
	}
	return tv
}

func formatCell(p *message.Printer, v dataset.Value) cellView {
	if v.Kind() != dataset.KindNumber {
		return cellView{Text: v.String()}
	}
	if n, ok := v.Int(); ok {
		return cellView{Text: p.Sprintf("%d", n), Numeric: true}
	}
	f, _ := v.Float()
	return cellView{Text: p.Sprintf("%.2f", f), Numeric: true}
}

const pageTemplate = `{{define "page"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="{{.PlotlyURL}}"></script>
{{- if .Interactive}}
<script type="module" src="{{.DatastarURL}}"></script>
{{- end}}
<style>{{.Style}}</style>
</head>
<body{{if .Watch}} data-init="@get('/updates')"{{end}}>
{{template "sidebar" .}}
<main>
<h1>{{.Title}}</h1>
{{template "content" .}}
<footer>{{.Footer}}</footer>
</main>
<script>{{.Script}}</script>
</body>
</html>
{{end}}

{{define "sidebar"}}<nav id="sidebar">
{{- range .Groups}}
{{- if $.Interactive}}
<button type="button" class="toggle{{if .On}} on{{end}}" aria-pressed="{{.On}}" data-on:click="@post('/groups/{{.ID}}/toggle')">{{.Button}}</button>
{{- else}}
<a class="toggle" href="#group-{{.ID}}">{{.Button}}</a>
{{- end}}
{{- end}}
</nav>{{end}}

{{define "content"}}<section id="content">
{{- range .Active}}
<article class="group" id="group-{{.ID}}">
<h2>{{.Subheader}}</h2>
{{- range .Figures}}
<div class="figure" id="fig-{{.ID}}"></div>
<script type="application/json" data-figure="fig-{{.ID}}">{{figure .}}</script>
{{- end}}
{{- with .Summary}}
<table class="summary">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}
</article>
{{- else}}
<p class="hint">Pick a chart group in the sidebar.</p>
{{- end}}
</section>{{end}}`

var (
	tmplOnce sync.Once
	tmpl     *template.Template
)

func templates() *template.Template {
	tmplOnce.Do(func() {
		tmpl = template.Must(template.New("habitdash").Funcs(template.FuncMap{
			"figure": func(f chart.Figure) (template.JS, error) {
				b, err := f.JSON()
				if err != nil {
					return "", fmt.Errorf("figure %s: %w", f.ID, err)
				}
				return template.JS(b), nil //nolint:gosec // marshalled JSON
			},
		}).Parse(pageTemplate))
	})
	return tmpl
}

// component adapts a named template to templ so that full pages and SSE
// fragments share one rendering path.
func component(name string, v pageView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := templates().ExecuteTemplate(w, name, v); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return nil
	})
}

func pageComponent(v pageView) templ.Component { return component("page", v) }

// sidebarComponent and contentComponent carry root ids "sidebar" and
// "content", which is what the SSE patches target.
func sidebarComponent(v pageView) templ.Component { return component("sidebar", v) }
func contentComponent(v pageView) templ.Component { return component("content", v) }
