package honeycomb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/internal/httpclient"
	"github.com/teranos/sembrowse/usage"
)

const testKey = "test-key"

// fakeAPI serves a minimal Honeycomb API.
func fakeAPI(t *testing.T, access usage.Access) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(TeamHeader) != testKey {
				http.Error(w, `{"error":"unknown API key"}`, http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("GET /1/auth", auth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id":             "key-1",
			"type":           "configuration",
			"api_key_access": access,
			"team":           map[string]string{"name": "Acme", "slug": "acme"},
			"environment":    map[string]string{"name": "Prod", "slug": "prod"},
		})
	}))
	mux.HandleFunc("GET /1/datasets", auth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"slug": "web", "name": "Web", "last_written_at": "2024-04-30T10:00:00Z"},
			{"slug": "api", "name": "API", "last_written_at": "2024-04-29T10:00:00Z"},
			{"slug": "legacy", "name": "Legacy", "last_written_at": "2023-01-01T00:00:00Z"},
			{"slug": "empty", "name": "Empty", "last_written_at": nil},
		})
	}))
	mux.HandleFunc("GET /1/columns/{dataset}", auth(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("dataset") != "web" {
			http.Error(w, `{"error":"dataset not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, []map[string]any{
			{"id": "c1", "key_name": "http.request.method", "type": "string"},
			{"id": "c2", "key_name": "http.request.header.accept", "type": "string", "hidden": true},
		})
	}))
	mux.HandleFunc("POST /1/queries/{dataset}", auth(func(w http.ResponseWriter, r *http.Request) {
		var q map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, []any{"http.request.method"}, q["breakdowns"])
		assert.Equal(t, float64(7200), q["time_range"])
		assert.Equal(t, []any{map[string]any{"column": "http.request.method", "op": "exists"}}, q["filters"])
		writeJSON(w, map[string]string{"id": "q-42"})
	}))
	mux.HandleFunc("POST /1/query_results/{dataset}", auth(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "q-42", req["query_id"])
		assert.Equal(t, false, req["disable_series"])
		assert.Equal(t, float64(10000), req["limit"])
		writeJSON(w, map[string]any{
			"id":    "r-1",
			"links": map[string]string{"query_url": "https://ui.honeycomb.io/acme/datasets/" + r.PathValue("dataset") + "/result/r-1"},
		})
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server, key string) *Client {
	t.Helper()
	c, err := NewClientWithHTTP(Config{APIKey: key, BaseURL: server.URL + "/1"},
		httpclient.WrapClient(&http.Client{Timeout: 5 * time.Second}), nil)
	require.NoError(t, err)
	return c
}

var full = usage.Access{Columns: true, CreateDatasets: true, Queries: true}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, errors.FlattenHints(err), APIKeyEnv)
}

func TestNewClient_KeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")
	c, err := NewClient(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.apiKey)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestNewClient_RejectsPrivateBaseURL(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k", BaseURL: "http://10.0.0.5/1/"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))

	_, err = NewClient(Config{APIKey: "k", BaseURL: "http://10.0.0.5/1/", AllowPrivate: true}, nil)
	assert.NoError(t, err)
}

func TestAuth(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, full), testKey)

	info, err := c.Auth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme", info.Team.Slug)
	assert.Equal(t, "prod", info.Environment.Slug)
	assert.True(t, info.Access.Sufficient())
}

func TestAuth_BadKey(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, full), "wrong")

	_, err := c.CheckAccess(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestListDatasets_Recent(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, full), testKey)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	slugs, err := c.ListDatasets(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "web"}, slugs)
}

func TestListColumns(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, full), testKey)

	columns, err := c.ListColumns(context.Background(), "web")
	require.NoError(t, err)
	assert.Equal(t, []usage.Column{
		{Name: "http.request.method", Type: "string"},
		{Name: "http.request.header.accept", Type: "string"},
	}, columns)

	_, err = c.ListColumns(context.Background(), "api")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestExistsQueryURL(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, full), testKey)

	link, err := c.ExistsQueryURL(context.Background(), "web", "http.request.method")
	require.NoError(t, err)
	assert.Equal(t, "https://ui.honeycomb.io/acme/datasets/web/result/r-1", link)
}

func TestCollectThroughClient(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, full), testKey)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	collection, err := usage.NewCollector(c, usage.Options{
		Concurrency: 2,
		Now:         func() time.Time { return now },
	}, nil).Collect(context.Background())
	require.NoError(t, err)

	web := collection.Observed["web"]
	require.Len(t, web, 2)
	assert.Equal(t, "http.request.method", web[0].Name)
	assert.NotContains(t, collection.Observed, "api")
	assert.Equal(t, []string{"api"}, collection.Failed)
	assert.NotContains(t, collection.Observed, "legacy")
}

func TestCollectThroughClient_InsufficientAccess(t *testing.T) {
	c := newTestClient(t, fakeAPI(t, usage.Access{Columns: true}), testKey)

	_, err := usage.NewCollector(c, usage.Options{}, nil).Collect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}
