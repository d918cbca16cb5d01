package api

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/taskplan/pkg/buildinfo"
	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

type strategyInfo struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Complexity string `json:"complexity"`
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	out := make([]strategyInfo, 0, len(solver.Strategies()))
	for _, st := range solver.Strategies() {
		out = append(out, strategyInfo{Name: st.String(), Slug: st.Slug(), Complexity: st.Complexity()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	out, err := s.Runner.Solve(r.Context(), req)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	if out.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, out.Result)
}

type compareRequest struct {
	Tasks       []plan.Task      `json:"tasks"`
	Constraints plan.Constraints `json:"constraints"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(w, r, &req, false); err != nil {
		writeError(w, s.Logger, err)
		return
	}
	outs, err := s.Runner.Compare(r.Context(), req.Tasks, req.Constraints)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outs)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := intParam(q.Get("n"), "n", 0)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	maxCost, err := intParam(q.Get("maxCost"), "maxCost", 0)
	if err != nil {
		writeError(w, s.Logger, err)
		return
	}
	c := plan.Constraints{MaxCost: maxCost}

	if name := q.Get("strategy"); name != "" {
		e, err := pipeline.EstimateFor(name, n, c)
		if err != nil {
			writeError(w, s.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
		return
	}
	writeJSON(w, http.StatusOK, pipeline.Estimates(n, c))
}

// intParam parses a non-negative integer query parameter, returning def when
// it is absent.
func intParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "%s must be a non-negative integer, got %q", name, raw)
	}
	return v, nil
}
