package server

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/session"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

type healthResponse struct {
	Status   string             `json:"status"`
	Sessions session.StoreStats `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.store.Stats()})
}

type sessionResponse struct {
	ID      string   `json:"id"`
	Source  string   `json:"source"`
	Sheet   string   `json:"sheet"`
	Rows    int      `json:"rows"`
	Dropped int      `json:"dropped"`
	Columns []string `json:"columns"`
}

// newSession loads a fresh dataset and registers it.
func (s *Server) newSession(r *http.Request) (*session.Session, error) {
	ds, err := s.loader.Load(r.Context())
	if err != nil {
		return nil, err
	}
	return s.store.Create(ds), nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.newSession(r)
	if err != nil {
		zap.L().Error("server: load survey", zap.Error(err))
		writeError(w, statusFor(err), loadErrorMessage(err))
		return
	}

	ds := sess.Dataset
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:      sess.ID,
		Source:  ds.Source,
		Sheet:   ds.Sheet,
		Rows:    len(ds.Rows),
		Dropped: ds.Dropped,
		Columns: nonNil(sess.Columns()),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the {id} path parameter, writing a 404 when it is gone.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return sess, true
}

// selectView resolves the session and the ?column= selection.
func (s *Server) selectView(w http.ResponseWriter, r *http.Request) (*session.View, bool) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return nil, false
	}
	view, err := sess.Select(r.URL.Query().Get("column"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return nil, false
	}
	return view, true
}

type columnsResponse struct {
	Columns []string        `json:"columns"`
	Schema  []survey.Column `json:"schema"`
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, columnsResponse{
		Columns: nonNil(sess.Columns()),
		Schema:  sess.Dataset.Schema.Columns,
	})
}

func (s *Server) handleFrequencies(w http.ResponseWriter, r *http.Request) {
	view, ok := s.selectView(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	view, ok := s.selectView(w, r)
	if !ok {
		return
	}
	body, err := present.PointsGeoJSON(view.Points)
	if err != nil {
		zap.L().Error("server: encode geojson", zap.String("column", view.Column), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "geojson encoding failed")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(body)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := present.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	view, ok := s.selectView(w, r)
	if !ok {
		return
	}

	if !s.exporter.Available(format) {
		writeError(w, http.StatusServiceUnavailable, present.ErrBackendUnavailable.Error())
		return
	}
	if format.IsImage() && !s.limiter.Allow() {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "too many chart renders, retry shortly")
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, view.ExportInput(), format); err != nil {
		zap.L().Error("server: export failed",
			zap.String("column", view.Column),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		writeError(w, statusFor(err), "export failed")
		return
	}

	name := present.FileName(view.Column, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
