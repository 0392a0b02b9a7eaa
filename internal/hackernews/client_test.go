package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3,4]`))
	})
	mux.HandleFunc("/v0/item/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v0/item/"), ".json")
		if id == "3" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"id":%s,"type":"story","by":"pg","title":"Story %s","text":"<p>GPU &amp; CUDA</p>","score":10,"descendants":2,"time":1700000000}`, id, id)
	})
	mux.HandleFunc("/algolia/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tinygrad", r.URL.Query().Get("query"))
		assert.Equal(t, "story", r.URL.Query().Get("tags"))
		_, _ = w.Write([]byte(`{"hits":[{"objectID":"42","title":"tinygrad 1.0","author":"geohot","points":300,"num_comments":80,"created_at":"2024-01-02T03:04:05Z"}]}`))
	})
	return httptest.NewServer(mux)
}

func TestTopStoryIDsRespectsLimit(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL+"/v0", srv.URL+"/algolia")
	ids, err := c.TopStoryIDs(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestItemsByIDsSkipsFailuresAndKeepsOrder(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	c := NewClient(srv.URL+"/v0", srv.URL+"/algolia")
	var mu sync.Mutex
	var failed []int
	items := c.ItemsByIDs(context.Background(), []int{4, 3, 1}, func(id int, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, id)
	})
	require.Len(t, items, 2)
	assert.Equal(t, 4, items[0].ID)
	assert.Equal(t, 1, items[1].ID)
	assert.Equal(t, []int{3}, failed)
	assert.Equal(t, "GPU & CUDA", items[0].PlainText())
	assert.True(t, items[0].IsStory())
	assert.Equal(t, "https://news.ycombinator.com/item?id=4", items[0].Link())
}

func TestSearchStories(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	hits, err := NewClient(srv.URL+"/v0", srv.URL+"/algolia").SearchStories(context.Background(), "tinygrad", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 300, hits[0].Points)
	assert.Equal(t, 2024, hits[0].Created().Year())
	assert.Equal(t, "https://news.ycombinator.com/item?id=42", hits[0].Link())
}
