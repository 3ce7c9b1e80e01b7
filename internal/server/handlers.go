package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mapgraph/pkg/action"
	"github.com/matzehuels/mapgraph/pkg/entity"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
	"github.com/matzehuels/mapgraph/pkg/history"
	mgio "github.com/matzehuels/mapgraph/pkg/io"
	"github.com/matzehuels/mapgraph/pkg/render/dot"
	"github.com/matzehuels/mapgraph/pkg/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type changesResponse struct {
	Created  []entity.ID `json:"created"`
	Modified []entity.ID `json:"modified"`
	Deleted  []entity.ID `json:"deleted"`
}

type mutationResponse struct {
	Action   string          `json:"action"`
	Index    int             `json:"index"`
	Entities int             `json:"entities"`
	Changes  changesResponse `json:"changes"`
}

type checkResponse struct {
	Action    string        `json:"action"`
	Enabled   bool          `json:"enabled"`
	Reason    action.Reason `json:"reason,omitempty"`
	Checkable bool          `json:"checkable"`
}

type historyEntry struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
	Size int       `json:"entities"`
}

type historyResponse struct {
	Index     int            `json:"index"`
	CanUndo   bool           `json:"can_undo"`
	CanRedo   bool           `json:"can_redo"`
	Snapshots []historyEntry `json:"snapshots"`
}

type sequenceRequest struct {
	Name  string        `json:"name" validate:"omitempty,max=64"`
	Steps []action.Step `json:"steps" validate:"required,min=1,max=256"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleActions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, action.Names())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g := s.history.Graph()
	if r.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		if err := mgio.WriteYAML(g, w); err != nil {
			s.logger.Warn("write graph", "err", err)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := mgio.WriteJSON(g, w); err != nil {
		s.logger.Warn("write graph", "err", err)
	}
}

func (s *Server) dotSource(r *http.Request) string {
	q := r.URL.Query()
	return dot.ToDOT(s.history.Graph(), dot.Options{
		Detailed:   q.Get("detailed") != "",
		Geographic: q.Get("geo") != "",
	})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = io.WriteString(w, s.dotSource(r))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := dot.RenderSVG(s.dotSource(r))
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	snaps, index := s.history.Snapshots()
	resp := historyResponse{
		Index:     index,
		CanUndo:   index > 0,
		CanRedo:   index < len(snaps)-1,
		Snapshots: make([]historyEntry, len(snaps)),
	}
	for i, snap := range snaps {
		resp.Snapshots[i] = historyEntry{Name: snap.Name, Time: snap.Time, Size: snap.Graph.Len()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildAction(r *http.Request) (string, action.Action, error) {
	name := chi.URLParam(r, "name")
	var p action.Params
	if err := decodeBody(r, &p); err != nil {
		return name, nil, err
	}
	if s.opts.Defaults != nil {
		p = s.opts.Defaults(name, p)
	}
	a, err := action.Build(name, p, s.actionEnv())
	return name, a, err
}

func (s *Server) handlePerform(w http.ResponseWriter, r *http.Request) {
	name, a, err := s.buildAction(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.perform(w, r, name, a)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	name, a, err := s.buildAction(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := checkResponse{Action: name, Enabled: true}
	if d, ok := a.(action.Disabler); ok {
		resp.Checkable = true
		resp.Reason = d.Disabled(s.history.Graph())
		resp.Enabled = resp.Reason == action.Enabled
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	var req sequenceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errs.ValidateStruct(req); err != nil {
		s.writeError(w, err)
		return
	}
	if s.opts.Defaults != nil {
		for i := range req.Steps {
			req.Steps[i].Params = s.opts.Defaults(req.Steps[i].Action, req.Steps[i].Params)
		}
	}
	a, err := action.BuildSequence(req.Steps, s.actionEnv())
	if err != nil {
		s.writeError(w, err)
		return
	}
	name := req.Name
	if name == "" {
		name = "sequence"
	}
	s.perform(w, r, name, a)
}

func (s *Server) perform(w http.ResponseWriter, r *http.Request, name string, a action.Action) {
	res, err := s.history.Perform(r.Context(), name, a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.persist(r)
	s.writeMutation(w, name, res)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, "undo", s.history.Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.move(w, r, "redo", s.history.Redo)
}

// move shifts the cursor and reports the difference between the snapshot
// left and the one reached.
func (s *Server) move(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context) (history.Result, error)) {
	res, err := fn(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.persist(r)
	s.writeMutation(w, name, res)
}

func (s *Server) writeMutation(w http.ResponseWriter, name string, res history.Result) {
	writeJSON(w, http.StatusOK, mutationResponse{
		Action:   name,
		Index:    res.Index,
		Entities: res.Graph.Len(),
		Changes:  toChangesResponse(res.Changes),
	})
}

// persist writes the session back. Failures are logged, not returned: the
// edit itself succeeded.
func (s *Server) persist(r *http.Request) {
	if s.opts.Store == nil || s.opts.Session == "" {
		return
	}
	if err := store.SaveSession(r.Context(), s.opts.Store, s.opts.Session, s.history, s.opts.TTL); err != nil {
		s.logger.Warn("save session", "session", s.opts.Session, "err", err)
	}
}

func toChangesResponse(c graph.Changes) changesResponse {
	orEmpty := func(ids []entity.ID) []entity.ID {
		if ids == nil {
			return []entity.ID{}
		}
		return ids
	}
	return changesResponse{
		Created:  orEmpty(c.Created),
		Modified: orEmpty(c.Modified),
		Deleted:  orEmpty(c.Deleted),
	}
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errs.UserMessage(err), Code: errs.GetCode(err)})
}

func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errs.ErrCodeInvalidAction, errs.ErrCodeDegenerate:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
