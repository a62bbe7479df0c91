package app

import (
	"embed"
	"html/template"
	"io"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/dashboard.gohtml"))

type panel struct {
	ID     string
	Title  string
	Unit   string
	Values model.MetricDisplay
}

type page struct {
	Title  string
	Panels []panel
	Alerts string
}

func newPage(title string, st model.DisplayState) page {
	p := page{Title: title, Alerts: st.Alerts}
	for _, m := range model.Metrics {
		p.Panels = append(p.Panels, panel{
			ID:     string(m),
			Title:  m.Title(),
			Unit:   m.Unit(),
			Values: st.Metric(m),
		})
	}
	return p
}

// RenderState writes the dashboard page for st. It has no side effects.
func RenderState(w io.Writer, title string, st model.DisplayState) error {
	return pageTmpl.Execute(w, newPage(title, st))
}

// Render writes the view's current state. It never triggers a load.
func (v *View) Render(w io.Writer, title string) error {
	return RenderState(w, title, v.State())
}
