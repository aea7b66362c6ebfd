package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
	"vehicle-routing-service/internal/solver"

	"github.com/redis/go-redis/v9"
)

// Message is the payload published for every trace event of a run.
type Message struct {
	RunID string       `json:"run_id"`
	Event solver.Event `json:"event"`
}

// ChannelName is the Redis Pub/Sub channel carrying the events of a run.
func ChannelName(runID string) string { return "solve:" + runID }

type outgoing struct {
	channel string
	payload []byte
}

// RedisPublisher implements the EventPublisher port over Redis Pub/Sub.
// Publish only enqueues; a single goroutine talks to Redis so the search is
// never slowed down by the network. Events are dropped when the queue is full.
type RedisPublisher struct {
	rdb *redis.Client

	mu     sync.RWMutex
	closed bool
	queue  chan outgoing
	done   chan struct{}

	dropped atomic.Int64
}

func NewRedisPublisher(url string, buffer int) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}
	return NewRedisPublisherFromClient(redis.NewClient(opt), buffer), nil
}

func NewRedisPublisherFromClient(rdb *redis.Client, buffer int) *RedisPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &RedisPublisher{
		rdb:   rdb,
		queue: make(chan outgoing, buffer),
		done:  make(chan struct{}),
	}
	go p.loop()
	return p
}

// Ping checks that Redis is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis publisher: ping: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Publish(runID string, evt solver.Event) {
	data, err := json.Marshal(Message{RunID: runID, Event: evt})
	if err != nil {
		log.Printf("run_id=%s op=events.redis.Publish err=%v", runID, err)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- outgoing{channel: ChannelName(runID), payload: data}:
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (p *RedisPublisher) Dropped() int64 { return p.dropped.Load() }

func (p *RedisPublisher) loop() {
	defer close(p.done)
	for m := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := p.rdb.Publish(ctx, m.channel, m.payload).Err(); err != nil {
			log.Printf("op=events.redis.Publish channel=%s err=%v", m.channel, err)
		}
		cancel()
	}
}

// Close flushes queued events and closes the Redis client.
func (p *RedisPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.rdb.Close()
}
