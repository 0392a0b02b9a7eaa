package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotDecodesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/LocalLLaMA/hot.json", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"children":[
			{"data":{"id":"a1","title":"H100 prices","selftext":"too expensive","score":120,"num_comments":4,"author":"bob","permalink":"/r/LocalLLaMA/comments/a1/x/","created_utc":1700000000}}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent")
	posts, err := c.Hot(context.Background(), "LocalLLaMA", 25)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "a1", p.ID)
	assert.Equal(t, 120, p.Score)
	assert.Equal(t, "https://reddit.com/r/LocalLLaMA/comments/a1/x/", p.Link())
	assert.Equal(t, int64(1700000000), p.Created().Unix())
}

func TestSearchSendsRestrictedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/MachineLearning/search.json", r.URL.Path)
		assert.Equal(t, "tinygrad", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("restrict_sr"))
		_, _ = w.Write([]byte(`{"data":{"children":[]}}`))
	}))
	defer srv.Close()

	posts, err := NewClient(srv.URL, "").Search(context.Background(), "MachineLearning", "tinygrad", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Hot(context.Background(), "hardware", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
