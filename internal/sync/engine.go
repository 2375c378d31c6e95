// ABOUTME: Sync engine that drains the outbox into a remote document store.
// ABOUTME: Replays records in creation order, marking each one synced as it lands.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/macros/internal/models"
	"github.com/harperreed/macros/internal/remote"
	"github.com/harperreed/macros/internal/storage"
)

// DefaultRecordTimeout bounds each remote call.
const DefaultRecordTimeout = 10 * time.Second

// Summary reports the outcome of one pass.
type Summary struct {
	Synced   int
	Failed   int
	Deferred int
	Offline  bool
}

// Status describes the queue without touching the remote.
type Status struct {
	Pending          int
	RemoteConfigured bool
}

// Opener connects to the remote store. It returns remote.ErrNotConfigured
// when no backend is selected.
type Opener func(ctx context.Context) (remote.Store, error)

// Engine replays unsynced outbox records against a remote store. A nil
// store and nil opener means no remote is configured and every pass
// reports offline.
type Engine struct {
	outbox storage.Outbox
	logger *log.Logger

	mu     gosync.Mutex
	store  remote.Store
	open   Opener
	opened bool

	// RecordTimeout bounds each Ping, Upsert, Delete, and Flush call.
	RecordTimeout time.Duration
}

// NewEngine creates an engine. A nil logger writes to stderr.
func NewEngine(outbox storage.Outbox, store remote.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "sync"})
	}
	return &Engine{
		outbox:        outbox,
		store:         store,
		logger:        logger,
		RecordTimeout: DefaultRecordTimeout,
	}
}

// NewLazyEngine creates an engine that connects through open at the start
// of a pass. A failed connection leaves the pass offline and is retried by
// the next one.
func NewLazyEngine(outbox storage.Outbox, open Opener, logger *log.Logger) *Engine {
	e := NewEngine(outbox, nil, logger)
	e.open = open
	return e
}

// Status returns the pending count and whether a remote is configured.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	n, err := e.outbox.PendingCount(ctx)
	if err != nil {
		return Status{}, err
	}

	e.mu.Lock()
	configured := e.store != nil || e.open != nil
	e.mu.Unlock()
	return Status{Pending: n, RemoteConfigured: configured}, nil
}

// Close releases a store the engine opened itself.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opened || e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	e.opened = false
	return err
}

// connect returns the store for this pass, opening it when needed.
func (e *Engine) connect(ctx context.Context) remote.Store {
	if e.store != nil || e.open == nil {
		return e.store
	}

	octx, cancel := context.WithTimeout(ctx, e.RecordTimeout)
	defer cancel()

	store, err := e.open(octx)
	switch {
	case err == nil:
		e.store = store
		e.opened = true
	case errors.Is(err, remote.ErrNotConfigured):
		e.logger.Debug("remote not configured", "err", err)
	default:
		e.logger.Warn("remote unavailable", "err", err)
	}
	return e.store
}

// Run performs one pass over the queue. Remote failures are counted in the
// summary and recorded on the outbox row; only local storage errors and
// context cancellation are returned. A record whose target already failed
// in this pass is deferred so operations on one document never land out of
// order.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.connect(ctx) == nil {
		e.logger.Debug("no remote available")
		summary.Offline = true
		return summary, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, e.RecordTimeout)
	err := e.store.Ping(pingCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		e.logger.Warn("remote unreachable", "err", err)
		summary.Offline = true
		return summary, nil
	}

	records, err := e.outbox.Unsynced(ctx, 0)
	if err != nil {
		return summary, fmt.Errorf("read outbox: %w", err)
	}
	e.logger.Debug("sync pass started", "pending", len(records))

	blocked := make(map[string]struct{})
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		collection, id, err := r.Target()
		if err != nil {
			if err := e.fail(ctx, &summary, r, err); err != nil {
				return summary, err
			}
			continue
		}

		key := collection + "/" + id
		if _, ok := blocked[key]; ok {
			summary.Deferred++
			e.logger.Debug("deferred", "record", r.ID, "target", key)
			continue
		}

		if err := e.apply(ctx, r, collection, id); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			blocked[key] = struct{}{}
			if err := e.fail(ctx, &summary, r, err); err != nil {
				return summary, err
			}
			continue
		}

		if err := e.outbox.MarkSynced(ctx, r.ID); err != nil {
			return summary, fmt.Errorf("mark synced: %w", err)
		}
		summary.Synced++
		e.logger.Debug("synced", "record", r.ID, "op", r.Operation, "target", key)
	}

	if summary.Synced > 0 {
		e.flush(ctx)
	}

	e.logger.Info("sync pass finished",
		"synced", summary.Synced, "failed", summary.Failed, "deferred", summary.Deferred)
	return summary, nil
}

// apply sends one record to the remote under its own timeout.
func (e *Engine) apply(ctx context.Context, r *models.OutboxRecord, collection, id string) error {
	rctx, cancel := context.WithTimeout(ctx, e.RecordTimeout)
	defer cancel()

	switch r.Operation {
	case models.OpInsert, models.OpUpdate:
		if !json.Valid(r.Payload) {
			return errors.New("payload is not valid JSON")
		}
		return e.store.Upsert(rctx, collection, id, r.Payload)
	case models.OpDelete:
		err := e.store.Delete(rctx, collection, id)
		if errors.Is(err, remote.ErrNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown operation %q", r.Operation)
	}
}

// fail counts a per-record failure and records it on the outbox row.
func (e *Engine) fail(ctx context.Context, summary *Summary, r *models.OutboxRecord, cause error) error {
	summary.Failed++
	e.logger.Warn("record failed", "record", r.ID, "entity", r.EntityType, "op", r.Operation, "err", cause)

	if err := e.outbox.RecordFailure(ctx, r.ID, cause.Error()); err != nil {
		return fmt.Errorf("record failure: %w", err)
	}
	return nil
}

func (e *Engine) flush(ctx context.Context) {
	f, ok := e.store.(remote.Flusher)
	if !ok {
		return
	}
	fctx, cancel := context.WithTimeout(ctx, e.RecordTimeout)
	defer cancel()
	if err := f.Flush(fctx); err != nil {
		e.logger.Warn("flush failed", "err", err)
	}
}
