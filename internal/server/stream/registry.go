package stream

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/highlighter/internal/logging"
)

// Registry tracks open connections for broadcast and shutdown.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	closed bool

	logger   logging.Logger
	observer Observer
}

func NewRegistry(logger logging.Logger, observer Observer) *Registry {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Registry{
		conns:    make(map[string]*Connection),
		logger:   logger.With("module", "registry"),
		observer: observer,
	}
}

// Register adds c. It returns false if the registry is already shut down,
// in which case c is closed.
func (r *Registry) Register(c *Connection) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = c.Close()
		return false
	}
	r.conns[c.ID()] = c
	r.mu.Unlock()

	r.observer.ConnectionOpened()
	return true
}

// Unregister removes c. Removing an absent connection is a no-op.
func (r *Registry) Unregister(c *Connection) {
	r.mu.Lock()
	_, ok := r.conns[c.ID()]
	delete(r.conns, c.ID())
	r.mu.Unlock()

	if ok {
		r.observer.ConnectionClosed()
	}
}

// Broadcast sends msg to every connection and returns how many deliveries
// succeeded. Failed connections are collected during the pass and removed
// after it, so one bad peer never stops delivery to the others.
func (r *Registry) Broadcast(ctx context.Context, msg string) int {
	r.mu.RLock()
	targets := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	var failed []*Connection
	delivered := 0
	for _, c := range targets {
		if err := c.Send(ctx, msg); err != nil {
			r.logger.Warn(ctx, "broadcast send failed, dropping connection", "conn_id", c.ID(), "error", err)
			failed = append(failed, c)
			continue
		}
		delivered++
	}

	for _, c := range failed {
		r.Unregister(c)
		_ = c.Close()
	}
	if len(failed) > 0 {
		r.observer.RecordBroadcastFailures(len(failed))
	}

	return delivered
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Close shuts every connection and rejects later registrations.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	conns := r.conns
	r.conns = make(map[string]*Connection)
	r.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
		r.observer.ConnectionClosed()
	}
	r.logger.Info(context.Background(), "registry closed", "connections", len(conns))
}
