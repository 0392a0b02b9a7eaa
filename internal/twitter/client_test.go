package twitter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRecentMergesAuthors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "tinygrad vs pytorch -is:retweet lang:en", r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer b", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"data":[
				{"id":"1","text":"tinygrad is fast","author_id":"u1","created_at":"2024-05-01T10:00:00.000Z","public_metrics":{"like_count":5,"reply_count":2,"retweet_count":1}},
				{"id":"2","text":"who am i","author_id":"missing","created_at":"2024-05-01T10:00:00.000Z"}
			],
			"includes":{"users":[{"id":"u1","username":"geo","verified":true}]}
		}`))
	}))
	defer srv.Close()

	tweets, err := NewClient(srv.URL, "b").SearchRecent(context.Background(), "tinygrad vs pytorch", 20)
	require.NoError(t, err)
	require.Len(t, tweets, 2)

	assert.Equal(t, "geo", tweets[0].Username())
	assert.True(t, tweets[0].Verified())
	assert.Equal(t, 8, tweets[0].Engagement())
	assert.Equal(t, "https://twitter.com/geo/status/1", tweets[0].Link())

	assert.Equal(t, "TwitterUser", tweets[1].Username())
	assert.False(t, tweets[1].Verified())
}

func TestSearchRecentStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "b").SearchRecent(context.Background(), "x", 10)
	require.Error(t, err)
}
