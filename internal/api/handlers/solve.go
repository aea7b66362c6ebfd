package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
	"vehicle-routing-service/internal/api/dto"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/platform/obs"
	"vehicle-routing-service/internal/services"
	"vehicle-routing-service/internal/solver"
)

// RoutingService is what the handlers need from the service layer.
type RoutingService interface {
	SolveVehicleRoutingProblem(ctx context.Context, p *domain.Problem, extra solver.Tracer) (*services.SolveResult, error)
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

type SolveHandler struct {
	Service RoutingService
	// Timeout bounds a whole solve call, solver budget included.
	Timeout time.Duration
}

func (h *SolveHandler) solveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.Timeout)
}

// Solve handles POST /api/solveVehicleRoutingProblem.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	p, err := dto.DecodeProblem(r.Body)
	if err != nil {
		writeError(w, r, statusFor(err), messageFor(err))
		return
	}

	ctx, cancel := h.solveContext(r.Context())
	defer cancel()

	res, err := h.Service.SolveVehicleRoutingProblem(ctx, p, nil)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("req_id=%s solve failed: %v", obs.RequestID(r.Context()), err)
		}
		writeError(w, r, status, messageFor(err))
		return
	}

	w.Header().Set("X-Run-Id", res.RunID)
	writeJSON(w, r, http.StatusOK, dto.NewSolveResponse(res.Solution))
}
