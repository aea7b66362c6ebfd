package handlers

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"
	"vehicle-routing-service/internal/api/dto"
	"vehicle-routing-service/internal/platform/obs"
	"vehicle-routing-service/internal/services"
	"vehicle-routing-service/internal/solver"

	"github.com/gorilla/websocket"
)

// wsMessage is every frame the server sends on the streaming endpoint.
type wsMessage struct {
	Type     string             `json:"type"`
	RunID    string             `json:"run_id,omitempty"`
	Event    *solver.Event      `json:"event,omitempty"`
	Solution *dto.SolveResponse `json:"solution,omitempty"`
	Error    string             `json:"error,omitempty"`
	Status   int                `json:"status,omitempty"`
}

const (
	wsEventBuffer = 256
	wsWriteWait   = 10 * time.Second
	wsReadWait    = 60 * time.Second
)

// StreamHandler serves the websocket variant of the solve endpoint.
// The client sends one problem; the server streams trace events while the
// search runs, then one "solution" or "error" frame, then closes.
type StreamHandler struct {
	Service  RoutingService
	Timeout  time.Duration
	Upgrader websocket.Upgrader
}

type solveDone struct {
	res *services.SolveResult
	err error
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadWait))

	write := func(m wsMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(m)
	}
	fail := func(err error) {
		_ = write(wsMessage{Type: "error", Error: messageFor(err), Status: statusFor(err)})
		closeNormally(conn)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return
	}
	p, err := dto.DecodeProblem(bytes.NewReader(data))
	if err != nil {
		fail(err)
		return
	}

	// The tracer runs on the search goroutine and must never block it, so
	// events are dropped when the client falls behind.
	events := make(chan solver.Event, wsEventBuffer)
	tracer := solver.TracerFunc(func(e solver.Event) {
		select {
		case events <- e:
		default:
		}
	})

	var ctx context.Context
	var cancel context.CancelFunc
	if h.Timeout > 0 {
		ctx, cancel = context.WithTimeout(r.Context(), h.Timeout)
	} else {
		ctx, cancel = context.WithCancel(r.Context())
	}
	defer cancel()

	done := make(chan solveDone, 1)
	go func() {
		res, err := h.Service.SolveVehicleRoutingProblem(ctx, p, tracer)
		done <- solveDone{res: res, err: err}
	}()

	for {
		select {
		case e := <-events:
			if err := write(wsMessage{Type: "event", Event: &e}); err != nil {
				cancel()
				<-done
				return
			}
		case d := <-done:
		drain:
			for {
				select {
				case e := <-events:
					if err := write(wsMessage{Type: "event", Event: &e}); err != nil {
						return
					}
				default:
					break drain
				}
			}
			if d.err != nil {
				if statusFor(d.err) == http.StatusInternalServerError {
					log.Printf("req_id=%s stream solve failed: %v", obs.RequestID(r.Context()), d.err)
				}
				fail(d.err)
				return
			}
			sol := dto.NewSolveResponse(d.res.Solution)
			_ = write(wsMessage{Type: "solution", RunID: d.res.RunID, Solution: &sol})
			closeNormally(conn)
			return
		}
	}
}

func closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
