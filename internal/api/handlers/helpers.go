package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"vehicle-routing-service/internal/api/dto"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/platform/obs"
	"vehicle-routing-service/internal/services"
)

// maxBodyBytes bounds request bodies and websocket messages.
const maxBodyBytes = 16 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// statusFor maps a solve error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrInvalidJSON), errors.Is(err, dto.ErrTrailingData), errors.Is(err, domain.ErrMalformedProblem):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInfeasible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// messageFor is the client-facing text of a solve error. Internal failures
// are not described to the client.
func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusBadRequest:
		var perr *domain.ProblemError
		if errors.As(err, &perr) {
			return perr.Error()
		}
		if errors.Is(err, dto.ErrTrailingData) {
			return dto.ErrTrailingData.Error()
		}
		return dto.ErrInvalidJSON.Error()
	case http.StatusUnprocessableEntity:
		var ierr *domain.InfeasibleError
		if errors.As(err, &ierr) {
			return ierr.Error()
		}
		return domain.ErrInfeasible.Error()
	case http.StatusGatewayTimeout:
		return services.ErrTimeout.Error()
	}
	return "internal server error"
}
