package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/session"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type download struct {
	Label     string
	URL       string
	Available bool
}

type pageData struct {
	Error     string
	SessionID string
	Columns   []string
	Selected  string
	View      *session.View
	Map       MapSettings
	PointsURL string
	ChartURL  string
	Downloads []download
}

var downloadLabels = map[present.Format]string{
	present.FormatPNG:       "Descargar gráfico como PNG",
	present.FormatPDF:       "Descargar gráfico como PDF",
	present.FormatCSV:       "Descargar tabla como CSV",
	present.FormatXLSX:      "Descargar tabla como XLSX",
	present.FormatShapefile: "Descargar puntos como Shapefile",
}

// handlePage renders the interactive page. ?session= reuses a live session;
// otherwise a new one is loaded. ?column= picks the question, defaulting to
// the first selectable column. With no selectable column only the selector
// is shown.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{Map: s.opts.Map}

	sess, err := s.store.Get(q.Get("session"))
	if err != nil {
		sess, err = s.newSession(r)
		if err != nil {
			zap.L().Error("server: load survey", zap.Error(err))
			data.Error = loadErrorMessage(err)
			s.renderPage(w, statusFor(err), data)
			return
		}
	}

	data.SessionID = sess.ID
	data.Columns = sess.Columns()
	data.Selected = q.Get("column")
	if data.Selected == "" && len(data.Columns) > 0 {
		data.Selected = data.Columns[0]
	}
	if data.Selected == "" {
		s.renderPage(w, http.StatusOK, data)
		return
	}

	view, err := sess.Select(data.Selected)
	if err != nil {
		data.Selected = ""
		s.renderPage(w, statusFor(err), data)
		return
	}

	data.View = view
	data.PointsURL = s.apiURL(sess.ID, "points", view.Column)
	if s.exporter.Available(present.FormatPNG) {
		data.ChartURL = s.apiURL(sess.ID, "export.png", view.Column)
	}
	for _, f := range []present.Format{present.FormatPNG, present.FormatPDF, present.FormatCSV, present.FormatXLSX, present.FormatShapefile} {
		data.Downloads = append(data.Downloads, download{
			Label:     downloadLabels[f],
			URL:       s.apiURL(sess.ID, "export."+string(f), view.Column),
			Available: s.exporter.Available(f),
		})
	}
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) apiURL(id, endpoint, column string) string {
	return "/api/sessions/" + url.PathEscape(id) + "/" + endpoint + "?column=" + url.QueryEscape(column)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		zap.L().Error("server: render page", zap.Error(err))
		http.Error(w, "page rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
