package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/nikolayk812/foodcart/internal/domain"
)

var ErrStoreClosed = errors.New("cart store is closed")

type snapshot struct {
	userID  string
	items   []domain.LineItem
	cleared bool
}

// writer runs persistence in one goroutine. Only the newest unwritten
// snapshot is kept, each write overwrites the whole cart anyway.
type writer struct {
	write func(snapshot)

	mu      sync.Mutex
	pending *snapshot
	// bumped on enqueue and on write completion, flush waits for written == queued
	queued  uint64
	written uint64
	idle    chan struct{}

	wake    chan struct{}
	stop    chan struct{}
	stopped chan struct{}
	closed  bool
}

func startWriter(write func(snapshot)) *writer {
	w := &writer{
		write:   write,
		idle:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	close(w.idle)

	go w.run()

	return w
}

// enqueue reports false once the writer is closed and the snapshot is dropped.
func (w *writer) enqueue(snap snapshot) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}

	if w.queued == w.written {
		w.idle = make(chan struct{})
	}
	w.pending = &snap
	w.queued++

	select {
	case w.wake <- struct{}{}:
	default:
	}

	return true
}

func (w *writer) run() {
	defer close(w.stopped)

	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		snap, seq := w.pending, w.queued
		w.pending = nil
		w.mu.Unlock()

		if snap == nil {
			return
		}

		w.write(*snap)

		w.mu.Lock()
		w.written = seq
		if w.written == w.queued {
			close(w.idle)
		}
		w.mu.Unlock()
	}
}

func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	idle := w.idle
	w.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrStoreClosed
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)

	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
