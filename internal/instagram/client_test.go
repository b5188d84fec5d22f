package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCache struct {
	posts  map[string][]Post
	getErr error
}

func newMapCache() *mapCache { return &mapCache{posts: map[string][]Post{}} }

func (m *mapCache) Get(ctx context.Context, key string) ([]Post, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	posts, ok := m.posts[key]
	return posts, ok, nil
}

func (m *mapCache) Set(ctx context.Context, key string, posts []Post, ttl time.Duration) error {
	m.posts[key] = posts
	return nil
}

func graphServer(t *testing.T, hits *int32, status int, posts []Post) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/1784/media", r.URL.Path)
		assert.Equal(t, "token", r.URL.Query().Get("access_token"))
		assert.Equal(t, mediaFields, r.URL.Query().Get("fields"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": posts})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFeedWithoutCredentialsUsesFallback(t *testing.T) {
	c := NewClient(Config{}, nil, zap.NewNop())

	feed := c.Feed(context.Background())

	assert.True(t, feed.Fallback)
	assert.Len(t, feed.Posts, 6)
	assert.Equal(t, "fallback-1", feed.Posts[0].ID)
	assert.NotEmpty(t, feed.Posts[0].Timestamp)
}

func TestFeedFetchesAndCaches(t *testing.T) {
	var hits int32
	posts := []Post{{ID: "1", MediaType: "IMAGE"}, {ID: "2", MediaType: "VIDEO"}}
	srv := graphServer(t, &hits, http.StatusOK, posts)
	cache := newMapCache()

	c := NewClient(Config{AccessToken: "token", UserID: "1784", Limit: 2, CacheTTL: time.Minute, BaseURL: srv.URL}, cache, zap.NewNop())

	first := c.Feed(context.Background())
	second := c.Feed(context.Background())

	assert.False(t, first.Fallback)
	assert.Equal(t, posts, first.Posts)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFeedUpstreamFailureUsesFallback(t *testing.T) {
	var hits int32
	srv := graphServer(t, &hits, http.StatusBadRequest, nil)

	c := NewClient(Config{AccessToken: "token", UserID: "1784", Limit: 2, BaseURL: srv.URL}, nil, zap.NewNop())
	feed := c.Feed(context.Background())

	assert.True(t, feed.Fallback)
	assert.Len(t, feed.Posts, 2)
}

func TestFeedCacheErrorFallsThroughToUpstream(t *testing.T) {
	var hits int32
	srv := graphServer(t, &hits, http.StatusOK, []Post{{ID: "1"}})
	cache := newMapCache()
	cache.getErr = errors.New("redis down")

	c := NewClient(Config{AccessToken: "token", UserID: "1784", Limit: 2, BaseURL: srv.URL}, cache, zap.NewNop())
	feed := c.Feed(context.Background())

	require.Len(t, feed.Posts, 1)
	assert.False(t, feed.Fallback)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
