package events

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"testing"
	"time"
	"vehicle-routing-service/internal/domain"
	"vehicle-routing-service/internal/platform/metrics"
	"vehicle-routing-service/internal/solver"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_PublishesToRunChannel(t *testing.T) {
	srv := miniredis.RunT(t)

	pub, err := NewRedisPublisher("redis://"+srv.Addr(), 16)
	require.NoError(t, err)
	require.NoError(t, pub.Ping(context.Background()))

	sub := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ps := sub.Subscribe(ctx, ChannelName("run-1"))
	defer ps.Close()
	_, err = ps.Receive(ctx)
	require.NoError(t, err)

	pub.Publish("run-1", solver.Event{Kind: solver.EventNewBest, Cost: 12, BestCost: 12})
	pub.Publish("run-1", solver.Event{Kind: solver.EventConverged, Cost: 12, BestCost: 12})

	var got []Message
	for len(got) < 2 {
		msg, err := ps.ReceiveMessage(ctx)
		require.NoError(t, err)
		require.Equal(t, "solve:run-1", msg.Channel)

		var m Message
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &m))
		got = append(got, m)
	}
	require.Equal(t, "run-1", got[0].RunID)
	require.Equal(t, solver.EventNewBest, got[0].Event.Kind)
	require.Equal(t, solver.EventConverged, got[1].Event.Kind)
	require.Equal(t, int64(12), got[1].Event.BestCost)

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())
	pub.Publish("run-1", solver.Event{Kind: solver.EventNewBest})
	require.Zero(t, pub.Dropped())
}

func TestLogPublisher_SkipsMovesAndLogsRoutes(t *testing.T) {
	var buf bytes.Buffer
	pub := LogPublisher{Logger: log.New(&buf, "", 0)}

	pub.Publish("run-7", solver.Event{Kind: solver.EventMoveAccepted, Move: solver.MoveRelocate})
	require.Empty(t, buf.String())

	pub.Publish("run-7", solver.Event{Kind: solver.EventRouteConstructed, Vehicle: "v1", Jobs: []domain.ID{"a", "b"}, Cost: 9})
	require.Equal(t, "run_id=run-7 event=route_constructed vehicle=v1 jobs=[a,b] cost=9\n", buf.String())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsPublisher_CountsMoves(t *testing.T) {
	before := counterValue(t, metrics.SearchMoves.WithLabelValues("exchange"))
	MetricsPublisher{}.Publish("run-1", solver.Event{Kind: solver.EventMoveAccepted, Move: solver.MoveExchange})
	MetricsPublisher{}.Publish("run-1", solver.Event{Kind: solver.EventMoveAccepted, Move: solver.MoveExchange})
	require.Equal(t, before+2, counterValue(t, metrics.SearchMoves.WithLabelValues("exchange")))
}
