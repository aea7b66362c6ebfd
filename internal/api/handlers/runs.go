package handlers

import (
	"log"
	"net/http"
	"strconv"
	"vehicle-routing-service/internal/api/dto"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

type RunsHandler struct {
	Service RoutingService
}

// List handles GET /api/runs?limit=N.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	runs, err := h.Service.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("list runs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunResponse{
			ID:          run.ID,
			Vehicles:    run.Vehicles,
			Jobs:        run.Jobs,
			InitialCost: run.InitialCost,
			BestCost:    run.BestCost,
			Iterations:  run.Iterations,
			LocalOptima: run.LocalOptima,
			StopReason:  run.StopReason,
			ElapsedMs:   run.ElapsedMs,
			Outcome:     string(run.Outcome),
			CreatedAt:   run.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
