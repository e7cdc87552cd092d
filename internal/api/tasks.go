package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"tasklist/pkg/task"
)

// flexInt accepts a JSON number or a numeric string. Null and "" are absent.
type flexInt struct {
	v *int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		f.v = nil
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("priority must be a number")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			f.v = nil
			return nil
		}
		if n, err = strconv.ParseFloat(s, 64); err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("priority must be a number")
		}
	}
	// Fractions truncate toward zero.
	i := int(math.Max(math.MinInt32, math.Min(math.MaxInt32, n)))
	f.v = &i
	return nil
}

// taskRequest is the body of create and update. The texto and prioridade
// keys are accepted for clients of the original app.
type taskRequest struct {
	Text       *string `json:"text"`
	Texto      *string `json:"texto"`
	Priority   flexInt `json:"priority"`
	Prioridade flexInt `json:"prioridade"`
}

func (req taskRequest) text() *string {
	if req.Text != nil {
		return req.Text
	}
	return req.Texto
}

func (req taskRequest) priority() *int {
	if req.Priority.v != nil {
		return req.Priority.v
	}
	return req.Prioridade.v
}

func decodeTaskRequest(r *http.Request) (taskRequest, error) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, 400, "invalid task id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, 200, tasks)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	t, err := s.tasks.Get(r.Context(), id)
	if errors.Is(err, task.ErrNotFound) {
		s.writeError(w, 404, task.ErrNotFound.Error())
		return
	}
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, 200, t)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTaskRequest(r)
	if err != nil {
		s.writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	text := req.text()
	if text == nil || strings.TrimSpace(*text) == "" {
		s.writeError(w, 400, task.ErrTextRequired.Error())
		return
	}
	t, err := s.tasks.Add(r.Context(), *text, req.priority())
	if errors.Is(err, task.ErrTextRequired) {
		s.writeError(w, 400, err.Error())
		return
	}
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, 201, t)
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	req, err := decodeTaskRequest(r)
	if err != nil {
		s.writeError(w, 400, "invalid JSON: "+err.Error())
		return
	}
	t, err := s.tasks.Edit(r.Context(), id, req.text(), req.priority())
	if errors.Is(err, task.ErrNotFound) {
		s.writeError(w, 404, task.ErrNotFound.Error())
		return
	}
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, 200, t)
}

func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	found, err := s.tasks.Complete(r.Context(), id)
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	if !found {
		s.writeError(w, 404, task.ErrNotFound.Error())
		return
	}
	s.writeJSON(w, 200, map[string]string{"message": "task completed"})
}

// handleTaskDelete reports success whether or not the task existed.
func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.tasks.Remove(r.Context(), id); err != nil {
		s.writeInternal(w, r, err)
		return
	}
	s.writeJSON(w, 200, map[string]string{"message": "task removed"})
}
