package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig("test-token")
	cfg.BaseURL = baseURL
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

// page builds one collection envelope; next == "" means last page.
func page(next string, records ...any) map[string]any {
	data := make([]any, len(records))
	copy(data, records)
	pages := map[string]any{"next_url": nil}
	if next != "" {
		pages["next_url"] = next
	}
	return map[string]any{"data": data, "pages": pages}
}

func TestPager_FollowsPagesToCompletion(t *testing.T) {
	var server *httptest.Server
	requests := 0
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page_after_id") {
		case "":
			json.NewEncoder(w).Encode(page(server.URL+"/things?page_after_id=2",
				map[string]any{"id": 1}, map[string]any{"id": 2}))
		case "2":
			json.NewEncoder(w).Encode(page(server.URL+"/things?page_after_id=3",
				map[string]any{"id": 3}))
		default:
			json.NewEncoder(w).Encode(page("", map[string]any{"id": 4}, map[string]any{"id": 5}))
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var ids []int
	p := c.pager(server.URL + "/things")
	for p.Next(context.Background()) {
		var rec struct {
			ID int `json:"id"`
		}
		require.NoError(t, json.Unmarshal(p.Record(), &rec))
		ids = append(ids, rec.ID)
	}
	require.NoError(t, p.Err())

	// Total yielded equals the sum of per-page counts, in page order.
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, 3, requests)
}

func TestPager_EmptyMiddlePage(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("p") {
		case "":
			json.NewEncoder(w).Encode(page(server.URL + "/things?p=2"))
		default:
			json.NewEncoder(w).Encode(page("", map[string]any{"id": 9}))
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	count := 0
	p := c.pager(server.URL + "/things")
	for p.Next(context.Background()) {
		count++
	}
	require.NoError(t, p.Err())
	assert.Equal(t, 1, count)
}

func TestPager_ServerErrorIsEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	p := c.pager(server.URL + "/reviews")
	assert.False(t, p.Next(context.Background()))
	assert.ErrorIs(t, p.Err(), ErrEndpointDown)
}

func TestPager_TimeoutIsEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(page(""))
	}))
	defer server.Close()

	cfg := DefaultConfig("test-token")
	cfg.BaseURL = server.URL
	cfg.Timeout = 50 * time.Millisecond
	c, err := NewClient(cfg)
	require.NoError(t, err)

	p := c.pager(server.URL + "/reviews")
	assert.False(t, p.Next(context.Background()))
	assert.ErrorIs(t, p.Err(), ErrEndpointDown)
}

func TestPager_ConnectionRefusedIsEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url)

	p := c.pager(url + "/reviews")
	assert.False(t, p.Next(context.Background()))
	assert.ErrorIs(t, p.Err(), ErrEndpointDown)
}

func TestPager_ClientErrorIsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	p := c.pager(server.URL + "/nope")
	assert.False(t, p.Next(context.Background()))

	var statusErr *StatusError
	require.ErrorAs(t, p.Err(), &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	// A 404 is a plain request error, never an availability signal.
	assert.NotErrorIs(t, p.Err(), ErrEndpointDown)
}

func TestPager_ErrorAbortsWalk(t *testing.T) {
	var server *httptest.Server
	requests := 0
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			json.NewEncoder(w).Encode(page(server.URL+"/things?p=2", map[string]any{"id": 1}))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	var yielded int
	p := c.pager(server.URL + "/things")
	for p.Next(context.Background()) {
		yielded++
	}
	assert.Equal(t, 1, yielded)
	assert.ErrorIs(t, p.Err(), ErrEndpointDown)
	// Next stays false after the failure.
	assert.False(t, p.Next(context.Background()))
}

func TestPager_IsLazy(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(page("", map[string]any{"id": 1}))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	p := c.pager(server.URL + "/things")
	assert.Equal(t, 0, requests, "constructing a pager must not issue requests")

	require.True(t, p.Next(context.Background()))
	assert.Equal(t, 1, requests)
}

func TestNewClient_RequiresToken(t *testing.T) {
	for _, token := range []string{"", "   "} {
		t.Run(fmt.Sprintf("token=%q", token), func(t *testing.T) {
			_, err := NewClient(DefaultConfig(token))
			assert.ErrorIs(t, err, ErrMissingToken)
		})
	}
}
