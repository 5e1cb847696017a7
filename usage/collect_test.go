package usage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/sembrowse/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBackend struct {
	access    Access
	accessErr error
	datasets  []string
	listErr   error
	columns   map[string][]Column
	failing   map[string]bool

	mu       sync.Mutex
	since    time.Time
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func (f *fakeBackend) CheckAccess(ctx context.Context) (Access, error) {
	return f.access, f.accessErr
}

func (f *fakeBackend) ListDatasets(ctx context.Context, since time.Time) ([]string, error) {
	f.mu.Lock()
	f.since = since
	f.mu.Unlock()
	return f.datasets, f.listErr
}

func (f *fakeBackend) ListColumns(ctx context.Context, dataset string) ([]Column, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failing[dataset] {
		return nil, fmt.Errorf("boom: %s", dataset)
	}
	return f.columns[dataset], nil
}

var fullAccess = Access{Columns: true, CreateDatasets: true, Queries: true}

func cols(names ...string) []Column {
	out := make([]Column, len(names))
	for i, name := range names {
		out[i] = Column{Name: name, Type: "string"}
	}
	return out
}

func TestAccess_Missing(t *testing.T) {
	assert.True(t, fullAccess.Sufficient())
	assert.Empty(t, fullAccess.Missing())

	partial := Access{Columns: true}
	assert.False(t, partial.Sufficient())
	assert.Equal(t, []string{"createDatasets", "queries"}, partial.Missing())
}

func TestCollect(t *testing.T) {
	backend := &fakeBackend{
		access:   fullAccess,
		datasets: []string{"api", "web"},
		columns: map[string][]Column{
			"api": cols("http.request.method"),
			"web": cols("http.request.method", "http.request.header.accept"),
		},
	}

	collection, err := NewCollector(backend, Options{Concurrency: 2}, nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Observed{
		"api": cols("http.request.method"),
		"web": cols("http.request.method", "http.request.header.accept"),
	}, collection.Observed)
	assert.Empty(t, collection.Failed)
}

func TestCollect_RecencyWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	backend := &fakeBackend{access: fullAccess}

	_, err := NewCollector(backend, Options{
		RecentWithin: 48 * time.Hour,
		Now:          func() time.Time { return now },
	}, nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now.Add(-48*time.Hour), backend.since)
}

func TestCollect_DatasetFailureIsolated(t *testing.T) {
	backend := &fakeBackend{
		access:   fullAccess,
		datasets: []string{"d", "a", "b", "c"},
		columns: map[string][]Column{
			"a": cols("x"),
			"c": cols("y"),
		},
		failing: map[string]bool{"b": true, "d": true},
	}

	core, logs := observer.New(zapcore.WarnLevel)
	collection, err := NewCollector(backend, Options{Concurrency: 3}, zap.New(core).Sugar()).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Observed{"a": cols("x"), "c": cols("y")}, collection.Observed)
	assert.NotContains(t, collection.Observed, "b", "a failed dataset is not counted as observed")
	assert.Equal(t, []string{"b", "d"}, collection.Failed)

	warnings := logs.FilterMessage("Failed to fetch dataset columns").All()
	require.Len(t, warnings, 2)
	var warned []string
	for _, w := range warnings {
		warned = append(warned, w.ContextMap()["dataset"].(string))
	}
	assert.ElementsMatch(t, []string{"b", "d"}, warned)
}

func TestCollect_InsufficientAccess(t *testing.T) {
	backend := &fakeBackend{access: Access{Columns: true, Queries: true}}

	_, err := NewCollector(backend, Options{}, nil).Collect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	assert.Contains(t, err.Error(), "createDatasets")
}

func TestCollect_AccessCheckError(t *testing.T) {
	backend := &fakeBackend{accessErr: errors.Wrap(errors.ErrUnauthorized, "bad key")}

	_, err := NewCollector(backend, Options{}, nil).Collect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsBackendError(err))
}

func TestCollect_ListDatasetsError(t *testing.T) {
	backend := &fakeBackend{access: fullAccess, listErr: errors.New("down")}

	_, err := NewCollector(backend, Options{}, nil).Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list datasets")
}

func TestCollect_BoundedConcurrency(t *testing.T) {
	datasets := make([]string, 20)
	for i := range datasets {
		datasets[i] = fmt.Sprintf("ds-%02d", i)
	}
	backend := &fakeBackend{
		access:   fullAccess,
		datasets: datasets,
		delay:    5 * time.Millisecond,
	}

	collection, err := NewCollector(backend, Options{Concurrency: 3}, nil).Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, collection.Observed, 20)
	assert.LessOrEqual(t, backend.maxSeen.Load(), int32(3))
}

func TestCollect_Cancelled(t *testing.T) {
	backend := &fakeBackend{
		access:   fullAccess,
		datasets: []string{"a", "b"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCollector(backend, Options{RequestsPerSecond: 1}, nil).Collect(ctx)
	assert.Error(t, err)
}
