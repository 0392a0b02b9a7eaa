package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsByAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		switch r.URL.Path {
		case "/people/~":
			_, _ = w.Write([]byte(`{"id":"me123"}`))
		case "/ugcPosts":
			assert.Equal(t, "List((person:me123))", r.URL.Query().Get("authors"))
			assert.Equal(t, "0", r.URL.Query().Get("start"))
			_, _ = w.Write([]byte(`{"elements":[
				{"id":"urn:li:share:1","author":"urn:li:person:jane","created":{"time":1700000000000},
				 "specificContent":{"com.linkedin.ugc.ShareContent":{"shareCommentary":{"text":"Our CTO wants GPU alternatives"}}},
				 "socialDetail":{"totalSocialActivityCounts":{"numLikes":12,"numComments":3}}},
				{"id":"urn:li:share:2","author":"urn:li:organization:9",
				 "specificContent":{"com.linkedin.ugc.ShareContent":{"shareMediaCategory":"ARTICLE","media":[{"title":{"text":"AI chips"},"description":{"text":"a survey"}}]}}}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	me, err := c.Me(context.Background())
	require.NoError(t, err)
	posts, err := c.PostsByAuthor(context.Background(), me, 0, 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "Our CTO wants GPU alternatives", posts[0].Text())
	assert.Equal(t, "jane", posts[0].AuthorName())
	assert.Equal(t, 12, posts[0].Likes())
	assert.Equal(t, 3, posts[0].Comments())
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:1", posts[0].Link())
	assert.Equal(t, int64(1700000000), posts[0].CreatedAt().Unix())

	assert.Equal(t, "AI chips - a survey", posts[1].Text())
	assert.Equal(t, "LinkedIn User", posts[1].AuthorName())
	assert.True(t, posts[1].CreatedAt().IsZero())
}
