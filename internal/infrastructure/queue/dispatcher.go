// Package queue moves audit events off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/api/metrics"
	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

const (
	defaultWorkers = 4
	shardBuffer    = 256
)

// Dispatcher shards audit events by account email over a fixed set of
// workers, so events for one admin are persisted in the order they happened.
type Dispatcher struct {
	shards []chan domain.AuditEvent
	sink   ports.AuditService
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// NewDispatcher falls back to defaultWorkers when workers <= 0.
func NewDispatcher(workers int, sink ports.AuditService, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	d := &Dispatcher{
		shards: make([]chan domain.AuditEvent, workers),
		sink:   sink,
		log:    log.With().Str("component", "audit_dispatcher").Logger(),
	}
	for i := range d.shards {
		d.shards[i] = make(chan domain.AuditEvent, shardBuffer)
	}
	return d
}

// Start runs one goroutine per shard until ctx is done. Events already
// buffered at that point are still written before the worker exits.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(len(d.shards))
	for i := range d.shards {
		go func(id int) {
			defer d.wg.Done()
			d.consume(ctx, id)
		}(i)
	}
}

// Wait blocks until every worker started by Start has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue never blocks. A full shard drops the event.
func (d *Dispatcher) Enqueue(event domain.AuditEvent) {
	id := d.shard(event.Email)
	select {
	case d.shards[id] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Inc()
	default:
		d.log.Warn().
			Str("action", string(event.Action)).
			Int("shard", id).
			Msg("audit shard full, event dropped")
	}
}

func (d *Dispatcher) shard(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.shards)))
}

func (d *Dispatcher) consume(ctx context.Context, id int) {
	ch := d.shards[id]
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id)
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int) {
	ch := d.shards[id]
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.AuditEvent) {
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Dec()
	if err := d.sink.Process(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("action", string(event.Action)).
			Int("shard", id).
			Msg("audit event not stored")
	}
}
