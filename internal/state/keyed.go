// Package state binds in-memory values to a kvstore key.
//
// A Keyed value starts at its initial value and only reads the store when
// Activate is called, so whatever is rendered before activation is the same
// for every client. After that every change is written back. Storage is best
// effort: failures are logged and dropped and the in-memory value stays
// authoritative for the session.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"study-booking/pkg/kvstore"

	"go.uber.org/zap"
)

type Keyed[T any] struct {
	store kvstore.Store
	key   string
	log   *zap.Logger

	mu     sync.Mutex
	value  T
	active bool
}

func New[T any](store kvstore.Store, key string, initial T, log *zap.Logger) *Keyed[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Keyed[T]{
		store: store,
		key:   key,
		log:   log.With(zap.String("state_key", key)),
		value: initial,
	}
}

func (k *Keyed[T]) Key() string {
	return k.key
}

// Activate loads the stored value once. A missing or unparsable entry keeps
// the current value. Later calls are no-ops.
func (k *Keyed[T]) Activate(ctx context.Context) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.active {
		return
	}
	k.active = true

	if v, ok := load[T](ctx, k.store, k.key, k.log); ok {
		k.value = v
	}
}

// Active reports whether Activate has run.
func (k *Keyed[T]) Active() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.active
}

// Value returns the current value. Slices and maps are shared with the
// binding and must not be modified in place.
func (k *Keyed[T]) Value() T {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.value
}

// Set replaces the value and writes it to the store.
func (k *Keyed[T]) Set(ctx context.Context, v T) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.value = v
	k.persist(ctx)
}

// Update applies fn to the current value under the binding's lock and stores
// the result.
func (k *Keyed[T]) Update(ctx context.Context, fn func(T) T) T {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.value = fn(k.value)
	k.persist(ctx)
	return k.value
}

func (k *Keyed[T]) persist(ctx context.Context) {
	raw, err := json.Marshal(k.value)
	if err != nil {
		k.log.Debug("encode state failed", zap.Error(err))
		return
	}
	if err := k.store.Set(ctx, k.key, raw); err != nil {
		k.log.Debug("save state failed", zap.Error(err))
	}
}

// Load reads key once without binding it, returning fallback when the entry
// is missing or unreadable.
func Load[T any](ctx context.Context, store kvstore.Store, key string, fallback T) T {
	if v, ok := load[T](ctx, store, key, zap.NewNop()); ok {
		return v
	}
	return fallback
}

func load[T any](ctx context.Context, store kvstore.Store, key string, log *zap.Logger) (T, bool) {
	var zero T

	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return zero, false
	}
	if err != nil {
		log.Debug("load state failed", zap.Error(err))
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Debug("decode state failed", zap.Error(err))
		return zero, false
	}
	return v, true
}
