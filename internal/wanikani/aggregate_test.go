package wanikani

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aggregateServer wires /assignments and /subjects handlers behind one mux.
func aggregateServer(t *testing.T, assignments, subjects http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/assignments", assignments)
	mux.HandleFunc("/subjects", subjects)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRecentVocabulary_Success(t *testing.T) {
	server := aggregateServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(page("", activity(101), activity(102)))
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "101,102", r.URL.Query().Get("ids"))
			json.NewEncoder(w).Encode(page("",
				subject(101, "vocabulary", "neko"),
				subject(102, "vocabulary", "inu"),
			))
		})

	c := newTestClient(t, server.URL)

	terms, err := c.RecentVocabulary(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"inu", "neko"}, terms)
}

func TestRecentVocabulary_NoActivity(t *testing.T) {
	subjectCalls := 0
	server := aggregateServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(page(""))
		},
		func(w http.ResponseWriter, r *http.Request) {
			subjectCalls++
			json.NewEncoder(w).Encode(page(""))
		})

	c := newTestClient(t, server.URL)

	_, err := c.RecentVocabulary(context.Background(), 30)
	assert.ErrorIs(t, err, ErrNoActivity)
	assert.Equal(t, 0, subjectCalls, "lookup must not run when nothing was studied")
}

func TestRecentVocabulary_NoVocabulary(t *testing.T) {
	server := aggregateServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(page("", activity(101)))
		},
		func(w http.ResponseWriter, r *http.Request) {
			// Activity existed, but only a radical was touched.
			json.NewEncoder(w).Encode(page("", subject(101, "radical", "ground")))
		})

	c := newTestClient(t, server.URL)

	_, err := c.RecentVocabulary(context.Background(), 30)
	assert.ErrorIs(t, err, ErrNoVocabulary)
	assert.NotErrorIs(t, err, ErrNoActivity)
}

func TestRecentVocabulary_EndpointDown(t *testing.T) {
	server := aggregateServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("subjects endpoint must not be called")
		})

	c := newTestClient(t, server.URL)

	_, err := c.RecentVocabulary(context.Background(), 30)
	assert.ErrorIs(t, err, ErrEndpointDown)
	assert.NotErrorIs(t, err, ErrNoActivity)
	assert.NotErrorIs(t, err, ErrNoVocabulary)
}
