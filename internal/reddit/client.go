package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client reads public subreddit listings through Reddit's JSON endpoints.
// No authentication is needed for public posts.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(baseURL, userAgent string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.reddit.com"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "LeadScout/1.0"
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Post is the subset of a Reddit link's fields we use.
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
}

// Link returns the canonical reddit.com URL for the post.
func (p Post) Link() string {
	if p.Permalink != "" {
		return "https://reddit.com" + p.Permalink
	}
	return p.URL
}

// Created converts the epoch timestamp.
func (p Post) Created() time.Time {
	return time.Unix(int64(p.CreatedUTC), 0).UTC()
}

type listing struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Hot returns the hot listing of a subreddit.
// API: GET /r/{subreddit}/hot.json?limit={limit}
func (c *Client) Hot(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	return c.get(ctx, fmt.Sprintf("/r/%s/hot.json", url.PathEscape(subreddit)), q)
}

// Search runs a restricted search inside a subreddit.
// API: GET /r/{subreddit}/search.json?q=...&restrict_sr=1&sort=hot&limit=N
func (c *Client) Search(ctx context.Context, subreddit, query string, limit int) ([]Post, error) {
	q := url.Values{
		"q":           {query},
		"restrict_sr": {"1"},
		"sort":        {"hot"},
		"limit":       {strconv.Itoa(limit)},
	}
	return c.get(ctx, fmt.Sprintf("/r/%s/search.json", url.PathEscape(subreddit)), q)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("reddit: %s status %d", path, resp.StatusCode)
	}
	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("reddit: decode %s: %w", path, err)
	}
	posts := make([]Post, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		posts = append(posts, ch.Data)
	}
	return posts, nil
}
