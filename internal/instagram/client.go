// Package instagram proxies the studio's recent Instagram media, falling back
// to a fixed set of portfolio posts when the Graph API is unavailable.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://graph.instagram.com"

const mediaFields = "id,media_type,media_url,permalink,caption,timestamp"

type Post struct {
	ID        string `json:"id"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
	Permalink string `json:"permalink"`
	Caption   string `json:"caption,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Feed struct {
	Posts    []Post `json:"data"`
	Fallback bool   `json:"fallback"`
}

type Config struct {
	AccessToken string
	UserID      string
	Limit       int
	CacheTTL    time.Duration
	BaseURL     string
}

type Client struct {
	cfg   Config
	http  *http.Client
	cache Cache
	log   *zap.Logger
	now   func() time.Time
}

// NewClient returns a feed client. cache may be nil.
func NewClient(cfg Config, cache Cache, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 6
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

func (c *Client) Configured() bool {
	return c.cfg.AccessToken != "" && c.cfg.UserID != ""
}

// Feed never fails: upstream and cache errors are logged and answered with
// the fallback posts.
func (c *Client) Feed(ctx context.Context) Feed {
	if !c.Configured() {
		return c.fallback()
	}

	key := c.cacheKey()
	if c.cache != nil {
		posts, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("instagram cache read failed", zap.Error(err))
		}
		if ok {
			return Feed{Posts: limit(posts, c.cfg.Limit)}
		}
	}

	posts, err := c.fetch(ctx)
	if err != nil {
		c.log.Error("instagram fetch failed", zap.Error(err))
		return c.fallback()
	}
	if len(posts) == 0 {
		return c.fallback()
	}

	if c.cache != nil && c.cfg.CacheTTL > 0 {
		if err := c.cache.Set(ctx, key, posts, c.cfg.CacheTTL); err != nil {
			c.log.Warn("instagram cache write failed", zap.Error(err))
		}
	}
	return Feed{Posts: limit(posts, c.cfg.Limit)}
}

func (c *Client) fetch(ctx context.Context) ([]Post, error) {
	params := url.Values{}
	params.Set("fields", mediaFields)
	params.Set("access_token", c.cfg.AccessToken)
	params.Set("limit", strconv.Itoa(c.cfg.Limit))
	endpoint := fmt.Sprintf("%s/%s/media?%s", c.cfg.BaseURL, url.PathEscape(c.cfg.UserID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from instagram", resp.StatusCode)
	}

	var body struct {
		Data []Post `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode media: %w", err)
	}
	return body.Data, nil
}

func (c *Client) cacheKey() string {
	return fmt.Sprintf("dg:instagram:%s:%d", c.cfg.UserID, c.cfg.Limit)
}

func (c *Client) fallback() Feed {
	ts := c.now().UTC().Format(time.RFC3339)
	posts := make([]Post, len(fallbackPosts))
	for i, p := range fallbackPosts {
		p.Timestamp = ts
		posts[i] = p
	}
	return Feed{Posts: limit(posts, c.cfg.Limit), Fallback: true}
}

func limit(posts []Post, n int) []Post {
	if len(posts) > n {
		return posts[:n]
	}
	return posts
}
