package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/session"
)

type createWorkspaceRequest struct {
	// Sample seeds the workspace with the demo tasks and constraints.
	Sample      bool              `json:"sample,omitempty"`
	Tasks       []plan.Task       `json:"tasks,omitempty"`
	Constraints *plan.Constraints `json:"constraints,omitempty"`
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := decode(w, r, &req, true); err != nil {
		writeError(w, s.Logger, err)
		return
	}

	ws := session.New("")
	if req.Sample {
		ws = session.Sample(ws.ID)
	}
	for _, t := range req.Tasks {
		if _, err := ws.AddTask(t); err != nil {
			writeError(w, s.Logger, err)
			return
		}
	}
	if req.Constraints != nil {
		if err := ws.SetConstraints(r.Context(), *req.Constraints, nil); err != nil {
			writeError(w, s.Logger, err)
			return
		}
	}

	if err := s.Store.Put(r.Context(), ws); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	w.Header().Set("Location", "/v1/workspaces/"+ws.ID)
	writeJSON(w, http.StatusCreated, ws)
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Store.Get(r.Context(), id); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var t plan.Task
	if err := decode(w, r, &t, false); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	var added plan.Task
	ws, err := s.update(r, func(ws *session.Workspace) error {
		var err error
		added, err = ws.AddTask(t)
		return err
	})
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	w.Header().Set("Location", "/v1/workspaces/"+ws.ID)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	_, err := s.update(r, func(ws *session.Workspace) error {
		if !ws.DeleteTask(taskID) {
			return apperrors.New(apperrors.ErrCodeNotFound, "task %q not found", taskID)
		}
		return nil
	})
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetConstraints(w http.ResponseWriter, r *http.Request) {
	var c plan.Constraints
	if err := decode(w, r, &c, false); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	ws, err := s.update(r, func(ws *session.Workspace) error {
		return ws.SetConstraints(r.Context(), c, s.Runner.SolveNamed)
	})
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

type runRequest struct {
	Strategy string `json:"strategy"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decode(w, r, &req, true); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	if req.Strategy == "" {
		req.Strategy = s.Runner.DefaultStrategy
	}
	ws, err := s.update(r, func(ws *session.Workspace) error {
		return ws.Run(r.Context(), s.Runner.SolveNamed, req.Strategy)
	})
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

// update loads the workspace named in the route, applies fn and stores the
// result. Nothing is stored when fn fails.
func (s *Server) update(r *http.Request, fn func(*session.Workspace) error) (*session.Workspace, error) {
	ws, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	if err := s.Store.Put(r.Context(), ws); err != nil {
		return nil, err
	}
	return ws, nil
}
