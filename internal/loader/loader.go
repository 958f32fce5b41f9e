// Package loader fetches a remote resource in the background and exposes its
// data, loading and error state.
package loader

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// FetchFunc reads the resource at path. It must honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context, path string) (T, error)

// Result is a snapshot of the loader state.
type Result[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// Loader applies at most one response at a time: every path change, reload
// or close bumps the generation, cancels the request in flight and causes
// its late result to be dropped.
type Loader[T any] struct {
	fetch FetchFunc[T]
	log   *zap.Logger

	mu        sync.Mutex
	path      string
	gen       uint64
	cancel    context.CancelFunc
	result    Result[T]
	listeners []func(Result[T])
	closed    bool
	version   uint64

	notifyMu sync.Mutex
	notified uint64

	wg sync.WaitGroup
}

func New[T any](fetch FetchFunc[T], log *zap.Logger) *Loader[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader[T]{
		fetch: fetch,
		log:   log.With(zap.String("component", "loader")),
	}
}

// OnChange registers fn to be called with every new snapshot.
func (l *Loader[T]) OnChange(fn func(Result[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// SetPath points the loader at path and fetches it. An empty path leaves the
// loader idle. Setting the current path again does nothing.
func (l *Loader[T]) SetPath(path string) {
	l.mu.Lock()
	if l.closed || (path == l.path && l.gen > 0) {
		l.mu.Unlock()
		return
	}
	l.path = path
	ev := l.startLocked()
	l.mu.Unlock()

	l.emit(ev)
}

// Reload fetches the current path again.
func (l *Loader[T]) Reload() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	ev := l.startLocked()
	l.mu.Unlock()

	l.emit(ev)
}

// Snapshot returns the current state.
func (l *Loader[T]) Snapshot() Result[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

func (l *Loader[T]) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Wait blocks until no fetch goroutine is running.
func (l *Loader[T]) Wait() {
	l.wg.Wait()
}

// Close cancels any request in flight. Results arriving afterwards are
// discarded.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader[T]) startLocked() event[T] {
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	if l.path == "" {
		l.result = Result[T]{}
		return l.eventLocked()
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.result.Loading = true
	l.result.Err = nil

	gen, path := l.gen, l.path
	l.wg.Add(1)
	go l.run(ctx, gen, path)

	return l.eventLocked()
}

func (l *Loader[T]) run(ctx context.Context, gen uint64, path string) {
	defer l.wg.Done()

	data, err := l.safeFetch(ctx, path)

	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		l.log.Debug("discarding stale response", zap.String("path", path), zap.Uint64("generation", gen))
		return
	}
	l.cancel()
	l.cancel = nil

	if err != nil {
		var zero T
		l.result = Result[T]{Data: zero, Err: err}
		l.log.Debug("fetch failed", zap.String("path", path), zap.Error(err))
	} else {
		l.result = Result[T]{Data: data}
	}
	ev := l.eventLocked()
	l.mu.Unlock()

	l.emit(ev)
}

func (l *Loader[T]) safeFetch(ctx context.Context, path string) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch %s panicked: %v", path, r)
		}
	}()
	return l.fetch(ctx, path)
}

type event[T any] struct {
	version   uint64
	snap      Result[T]
	listeners []func(Result[T])
}

func (l *Loader[T]) eventLocked() event[T] {
	l.version++
	return event[T]{
		version:   l.version,
		snap:      l.result,
		listeners: append([]func(Result[T]){}, l.listeners...),
	}
}

// emit delivers ev unless a newer snapshot has already been delivered, so
// listeners never observe state going backwards.
func (l *Loader[T]) emit(ev event[T]) {
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()

	if ev.version <= l.notified {
		return
	}
	l.notified = ev.version
	for _, fn := range ev.listeners {
		fn(ev.snap)
	}
}
