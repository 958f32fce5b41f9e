package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetcher blocks each request until the test releases it.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan string
	calls   []string
	ctxs    map[string]context.Context
	started chan string
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		gates:   make(map[string]chan string),
		ctxs:    make(map[string]context.Context),
		started: make(chan string, 16),
	}
}

func (g *gatedFetcher) gate(path string) chan string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[path]
	if !ok {
		ch = make(chan string, 1)
		g.gates[path] = ch
	}
	return ch
}

func (g *gatedFetcher) fetch(ctx context.Context, path string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, path)
	g.ctxs[path] = ctx
	g.mu.Unlock()
	g.started <- path

	v := <-g.gate(path)
	if v == "error" {
		return "", errors.New("boom")
	}
	return v, nil
}

func (g *gatedFetcher) ctx(path string) context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctxs[path]
}

func waitStarted(t *testing.T, g *gatedFetcher, path string) {
	t.Helper()
	select {
	case got := <-g.started:
		require.Equal(t, path, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch for %s never started", path)
	}
}

func TestLoaderIdleWithoutPath(t *testing.T) {
	calls := 0
	l := New(func(context.Context, string) (int, error) {
		calls++
		return 1, nil
	}, nil)
	defer l.Close()

	l.SetPath("")
	l.Reload()
	l.Wait()

	assert.Equal(t, Result[int]{}, l.Snapshot())
	assert.Zero(t, calls)
}

func TestLoaderSuccess(t *testing.T) {
	g := newGatedFetcher()
	l := New(g.fetch, nil)
	defer l.Close()

	l.SetPath("/rooms")
	assert.True(t, l.Snapshot().Loading)

	waitStarted(t, g, "/rooms")
	g.gate("/rooms") <- "rooms"
	l.Wait()

	snap := l.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
	assert.Equal(t, "rooms", snap.Data)
}

func TestLoaderFailureClearsData(t *testing.T) {
	g := newGatedFetcher()
	l := New(g.fetch, nil)
	defer l.Close()

	l.SetPath("/blogs")
	waitStarted(t, g, "/blogs")
	g.gate("/blogs") <- "first"
	l.Wait()
	require.Equal(t, "first", l.Snapshot().Data)

	l.Reload()
	waitStarted(t, g, "/blogs")
	g.gate("/blogs") <- "error"
	l.Wait()

	snap := l.Snapshot()
	assert.False(t, snap.Loading)
	assert.EqualError(t, snap.Err, "boom")
	assert.Empty(t, snap.Data)
}

func TestLoaderDiscardsStaleResponse(t *testing.T) {
	g := newGatedFetcher()
	l := New(g.fetch, nil)
	defer l.Close()

	l.SetPath("/rooms?category=reading")
	waitStarted(t, g, "/rooms?category=reading")

	l.SetPath("/classes?category=nmcle")
	waitStarted(t, g, "/classes?category=nmcle")

	assert.ErrorIs(t, g.ctx("/rooms?category=reading").Err(), context.Canceled)

	g.gate("/classes?category=nmcle") <- "classes"
	g.gate("/rooms?category=reading") <- "rooms"
	l.Wait()

	snap := l.Snapshot()
	assert.Equal(t, "classes", snap.Data)
	assert.False(t, snap.Loading)
}

func TestLoaderSamePathDoesNotRefetch(t *testing.T) {
	g := newGatedFetcher()
	l := New(g.fetch, nil)
	defer l.Close()

	l.SetPath("/blogs")
	waitStarted(t, g, "/blogs")
	l.SetPath("/blogs")
	g.gate("/blogs") <- "posts"
	l.Wait()

	assert.Equal(t, []string{"/blogs"}, g.calls)
}

func TestLoaderReloadRefetchesSamePath(t *testing.T) {
	g := newGatedFetcher()
	l := New(g.fetch, nil)
	defer l.Close()

	l.SetPath("/blogs")
	waitStarted(t, g, "/blogs")
	g.gate("/blogs") <- "v1"
	l.Wait()

	l.Reload()
	waitStarted(t, g, "/blogs")
	assert.True(t, l.Snapshot().Loading)
	assert.Equal(t, "v1", l.Snapshot().Data)

	g.gate("/blogs") <- "v2"
	l.Wait()
	assert.Equal(t, "v2", l.Snapshot().Data)
	assert.Equal(t, []string{"/blogs", "/blogs"}, g.calls)
}

func TestLoaderCloseDiscardsInFlight(t *testing.T) {
	g := newGatedFetcher()
	l := New(g.fetch, nil)

	var seen []Result[string]
	var mu sync.Mutex
	l.OnChange(func(r Result[string]) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r)
	})

	l.SetPath("/rooms")
	waitStarted(t, g, "/rooms")
	l.Close()
	assert.ErrorIs(t, g.ctx("/rooms").Err(), context.Canceled)

	g.gate("/rooms") <- "late"
	l.Wait()

	assert.Empty(t, l.Snapshot().Data)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Loading)

	l.SetPath("/classes")
	l.Wait()
	assert.Equal(t, "/rooms", l.Path())
}

func TestLoaderRecoversFromPanickingFetch(t *testing.T) {
	l := New(func(context.Context, string) ([]int, error) {
		panic("bad decoder")
	}, nil)
	defer l.Close()

	l.SetPath("/rooms")
	l.Wait()

	snap := l.Snapshot()
	assert.Error(t, snap.Err)
	assert.Nil(t, snap.Data)
}

func TestLoaderListenersSeeMonotonicStates(t *testing.T) {
	done := make(chan struct{})
	l := New(func(ctx context.Context, path string) (string, error) {
		return path, nil
	}, nil)
	defer l.Close()

	var mu sync.Mutex
	var states []Result[string]
	l.OnChange(func(r Result[string]) {
		mu.Lock()
		states = append(states, r)
		mu.Unlock()
		if !r.Loading {
			close(done)
		}
	})

	l.SetPath("/blogs")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener never saw the loaded state")
	}
	l.Wait()

	mu.Lock()
	defer mu.Unlock()
	last := states[len(states)-1]
	assert.False(t, last.Loading)
	assert.Equal(t, "/blogs", last.Data)
}
