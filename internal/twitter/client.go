package twitter

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

// Client calls the X/Twitter API v2 with an app bearer token.
type Client struct {
	baseURL string
	bearer  string
	client  *http.Client
}

func NewClient(baseURL, bearer string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.twitter.com/2"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		bearer:  bearer,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// User is an expanded tweet author.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Tweet is a recent-search result with its author merged in.
type Tweet struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	AuthorID      string    `json:"author_id"`
	CreatedAt     time.Time `json:"created_at"`
	PublicMetrics struct {
		LikeCount    int `json:"like_count"`
		ReplyCount   int `json:"reply_count"`
		RetweetCount int `json:"retweet_count"`
	} `json:"public_metrics"`
	Author *User `json:"-"`
}

// Username of the author, or a placeholder when the expansion was missing.
func (t Tweet) Username() string {
	if t.Author != nil && t.Author.Username != "" {
		return t.Author.Username
	}
	return "TwitterUser"
}

// Verified reports whether the author is verified.
func (t Tweet) Verified() bool {
	return t.Author != nil && t.Author.Verified
}

// Engagement is likes + replies + retweets.
func (t Tweet) Engagement() int {
	m := t.PublicMetrics
	return m.LikeCount + m.ReplyCount + m.RetweetCount
}

// Link is the public status URL.
func (t Tweet) Link() string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", t.Username(), t.ID)
}

// SearchRecent searches the last seven days of English tweets, excluding retweets.
// API: GET /tweets/search/recent
func (c *Client) SearchRecent(ctx context.Context, query string, maxResults int) ([]Tweet, error) {
	q := url.Values{
		"query":        {query + " -is:retweet lang:en"},
		"max_results":  {strconv.Itoa(maxResults)},
		"tweet.fields": {"created_at,author_id,public_metrics,context_annotations"},
		"user.fields":  {"username,name,verified"},
		"expansions":   {"author_id"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tweets/search/recent?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter: search status %d", resp.StatusCode)
	}
	var body struct {
		Data     []Tweet `json:"data"`
		Includes struct {
			Users []User `json:"users"`
		} `json:"includes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	users := make(map[string]*User, len(body.Includes.Users))
	for i := range body.Includes.Users {
		u := &body.Includes.Users[i]
		users[u.ID] = u
	}
	for i := range body.Data {
		body.Data[i].Author = users[body.Data[i].AuthorID]
	}
	return body.Data, nil
}
