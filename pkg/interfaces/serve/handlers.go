package serve

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/infrastructure/render/svg"
	"github.com/vsinha/planviz/pkg/interfaces/cli/output"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "healthy",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("session created", "session", sess.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      sess.ID,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"sessions": ids,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCallbacks(w http.ResponseWriter, r *http.Request) {
	from, err := queryInt(r, "from", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recorded, err := s.events.ReadAllEvents(from)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"callbacks": recorded,
		"next":      from + len(recorded),
	})
}

func (s *Server) handleSessionCallbacks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sessions.Get(id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	from, err := queryInt(r, "from", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recorded, err := s.events.ReadEvents(id, from)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"callbacks": recorded,
	})
}

func (s *Server) handleLoadChart(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := c.LoadChartData(string(body)); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  c.Chart().Classes().Count(),
		"dates":   c.Chart().XAxis().Len(),
	})
	return nil
}

func (s *Server) handleLoadExplanations(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := c.LoadExplanations(string(body)); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cards":   c.Panel().Len(),
	})
	return nil
}

type visibilityRequest struct {
	ShowExisting  bool `json:"showExisting"`
	ShowSuggested bool `json:"showSuggested"`
	ShowDemand    bool `json:"showDemand"`
}

func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	var req visibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	c.UpdateVisibility(req.ShowExisting, req.ShowSuggested, req.ShowDemand)
	return writeState(w, c)
}

type projectionRequest struct {
	ShowBefore bool `json:"showBefore"`
	ShowAfter  bool `json:"showAfter"`
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	var req projectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	c.ToggleProjection(req.ShowBefore, req.ShowAfter)
	return writeState(w, c)
}

type visibleRequest struct {
	Visible bool `json:"visible"`
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	key := chi.URLParam(r, "category")
	category, ok := entities.ParseCategory(key)
	if !ok {
		return badRequest("unknown category %q", key)
	}
	var req visibleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	c.SetCategoryVisible(category, req.Visible)
	return writeState(w, c)
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	var req visibleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	c.ShowTrackingLines(req.Visible)
	return writeState(w, c)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	var req visibleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	c.ShowCoverageBars(req.Visible)
	return writeState(w, c)
}

func (s *Server) handleHorizon(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	var req struct {
		Days int `json:"days"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if req.Days <= 0 {
		return badRequest("horizon must be positive, got %d", req.Days)
	}
	if err := c.ChangeHorizon(r.Context(), req.Days); err != nil {
		return err
	}
	return writeState(w, c)
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	var req struct {
		EntryNo int `json:"entryNo"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	found := c.HighlightEvent(req.EntryNo)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"highlighted": found,
	})
	return nil
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	cfg := c.Config()
	cv := svg.New(cfg.Width, cfg.Height)
	cv.Title = s.title
	if err := c.Render(cv); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, err := cv.WriteTo(w)
	return err
}

func (s *Server) handleChartJSON(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	snap, err := output.BuildSnapshot(c)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, snap)
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return output.NewHTMLPage(s.title).Render(w, c)
}

func (s *Server) handleExplanationsHTML(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return c.Panel().Render(w)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	x, y, err := pointer(r)
	if err != nil {
		return err
	}
	hover, hit := c.PointerMove(x, y)
	if !hit {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
	writeJSON(w, http.StatusOK, hover)
	return nil
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	x, y, err := pointer(r)
	if err != nil {
		return err
	}
	entryNo, fired, err := c.Click(r.Context(), x, y)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entryNo": entryNo,
		"fired":   fired,
	})
	return nil
}

func (s *Server) handleToggleCard(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return badRequest("invalid card index %q", chi.URLParam(r, "index"))
	}
	expanded, err := c.ToggleExplanation(index)
	if err != nil {
		return badRequest("%s", err.Error())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"expanded": expanded,
	})
	return nil
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request, c *visualizer.Controller) error {
	reqLineNo, err := strconv.Atoi(chi.URLParam(r, "reqLineNo"))
	if err != nil {
		return badRequest("invalid requisition line %q", chi.URLParam(r, "reqLineNo"))
	}
	sent, err := c.ActivateExplanation(r.Context(), reqLineNo)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"sent":    sent,
	})
	return nil
}

type stateResponse struct {
	Success bool                 `json:"success"`
	State   output.StateSnapshot `json:"state"`
}

func writeState(w http.ResponseWriter, c *visualizer.Controller) error {
	snap, err := output.BuildSnapshot(c)
	if err != nil {
		// toggles without a chart are accepted and ignored
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		return nil
	}
	writeJSON(w, http.StatusOK, stateResponse{Success: true, State: snap.State})
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		return nil, badRequest("failed to read body: %v", err)
	}
	return body, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func pointer(r *http.Request) (float64, float64, error) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		return 0, 0, badRequest("x and y query parameters must be numbers")
	}
	return x, y, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return n, nil
}
