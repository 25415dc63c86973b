package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deveshsoni7/finboard/internal/store"
	"github.com/deveshsoni7/finboard/widget"
)

// errorResponse is the JSON body of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// handleListWidgets returns the widget collection in display order.
func (s *Server) handleListWidgets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.widgets.All())
}

// handleGetWidget returns one widget by id.
func (s *Server) handleGetWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	wg, ok := s.widgets.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("widget %q not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, wg)
}

// handleCreateWidget appends a widget to the collection. A missing id is
// generated server-side; a missing type defaults to card.
func (s *Server) handleCreateWidget(w http.ResponseWriter, r *http.Request) {
	var wg widget.Widget
	if !s.decodeBody(w, r, &wg) {
		return
	}

	if wg.ID == "" {
		wg.ID = uuid.NewString()
	}
	if wg.Type == "" {
		wg.Type = widget.TypeCard
	}
	if err := wg.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.widgets.Add(wg); err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, wg)
}

// handleUpdateWidget shallow-merges a patch into an existing widget.
func (s *Server) handleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p widget.Patch
	if !s.decodeBody(w, r, &p) {
		return
	}

	wg, err := s.widgets.UpdateValidated(id, p)
	if errors.Is(err, store.ErrWidgetNotFound) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("widget %q not found", id))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, wg)
}

// handleDeleteWidget removes a widget. Deleting an absent id still answers
// 204 so removal is idempotent from the client's point of view.
func (s *Server) handleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.widgets.Remove(id)
	s.live.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleReorderWidgets replaces the display order wholesale.
func (s *Server) handleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var widgets []widget.Widget
	if !s.decodeBody(w, r, &widgets) {
		return
	}
	s.widgets.Reorder(widgets)
	w.WriteHeader(http.StatusNoContent)
}

// handleExportWidgets downloads the widget collection as a pretty-printed
// JSON file named after the current date.
func (s *Server) handleExportWidgets(w http.ResponseWriter, r *http.Request) {
	data, err := json.MarshalIndent(s.widgets.ExportAll(), "", "  ")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to encode configuration")
		return
	}

	filename := fmt.Sprintf("finboard-config-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write export response", "error", err)
	}
}

// handleImportWidgets replaces the widget collection with an uploaded
// configuration. The body must be a JSON array of widgets; anything else is
// rejected before the existing collection is touched.
func (s *Server) handleImportWidgets(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.writeError(w, http.StatusBadRequest, "configuration must be a JSON array of widgets")
		return
	}

	var widgets []widget.Widget
	if err := json.Unmarshal(trimmed, &widgets); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid configuration: %v", err))
		return
	}

	s.widgets.ImportAll(widgets)
	s.writeJSON(w, http.StatusOK, map[string]int{"imported": len(widgets)})
}

// handleListData returns the live cells of all widgets.
func (s *Server) handleListData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, http.StatusOK, s.live.GetAll())
}

// handleGetData returns the live cell of one widget.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cell, ok := s.live.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no data for widget %q", id))
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, http.StatusOK, cell)
}

// handleProxy fetches an endpoint server-side on behalf of the browser,
// relaying the upstream body and status verbatim. Browser-side fetches need
// this because most data APIs do not send CORS headers.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "missing url query parameter")
		return
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		s.writeError(w, http.StatusBadRequest, "url must be an absolute http or https URL")
		return
	}

	body, statusCode, err := s.proxy.Fetch(r.Context(), target)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("upstream fetch failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("failed to write proxy response", "error", err)
	}
}

// themePayload is the wire form of the theme routes.
type themePayload struct {
	Theme string `json:"theme"`
}

// handleGetTheme returns the current dashboard theme.
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, themePayload{Theme: s.widgets.Theme()})
}

// handleSetTheme switches the dashboard theme.
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var p themePayload
	if !s.decodeBody(w, r, &p) {
		return
	}
	if p.Theme != "dark" && p.Theme != "light" {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown theme: %q", p.Theme))
		return
	}
	s.widgets.SetTheme(p.Theme)
	s.writeJSON(w, http.StatusOK, p)
}
