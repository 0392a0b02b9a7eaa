package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Client is a minimal Hacker News API client.
// Docs: https://github.com/HackerNews/API and https://hn.algolia.com/api
type Client struct {
	baseAPI    string
	algoliaAPI string
	client     *http.Client
}

// NewClient creates a new Hacker News client. baseAPI should be something like
// "https://hacker-news.firebaseio.com/v0". If empty, it defaults to the v0 endpoint.
// algoliaAPI defaults to "https://hn.algolia.com/api/v1".
func NewClient(baseAPI, algoliaAPI string) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if strings.TrimSpace(algoliaAPI) == "" {
		algoliaAPI = "https://hn.algolia.com/api/v1"
	}
	return &Client{
		baseAPI:    strings.TrimRight(baseAPI, "/"),
		algoliaAPI: strings.TrimRight(algoliaAPI, "/"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Item mirrors the subset of HN item fields we care about.
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type"` // story, job, poll, comment
	By          string `json:"by"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Time        int64  `json:"time"`
	Kids        []int  `json:"kids"`
	Descendants int    `json:"descendants"`
	Score       int    `json:"score"`
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

// Link returns the story URL, falling back to the discussion page.
func (it Item) Link() string {
	if u := strings.TrimSpace(it.URL); u != "" {
		return u
	}
	return "https://news.ycombinator.com/item?id=" + strconv.Itoa(it.ID)
}

// PlainText returns the HTML text body stripped to plain text.
func (it Item) PlainText() string {
	return stripHTML(it.Text)
}

// IsStory reports whether the item is a live story.
func (it Item) IsStory() bool {
	return it.ID != 0 && !it.Deleted && !it.Dead && it.Type == "story"
}

// TopStoryIDs returns up to limit ids of the current top stories.
func (c *Client) TopStoryIDs(ctx context.Context, limit int) ([]int, error) {
	ids, err := c.fetchIDs(ctx, "topstories")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Item fetches a single HN item by ID.
func (c *Client) Item(ctx context.Context, id int) (Item, error) {
	var it Item
	endpoint := fmt.Sprintf("%s/item/%d.json", c.baseAPI, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return it, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return it, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return it, fmt.Errorf("hackernews: item %d status %d", id, resp.StatusCode)
	}
	// deleted items may come back as JSON null
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		return it, err
	}
	return it, nil
}

// ItemsByIDs resolves ids concurrently. Items that fail to load are reported
// through onErr and left out; the order of ids is preserved.
func (c *Client) ItemsByIDs(ctx context.Context, ids []int, onErr func(id int, err error)) []Item {
	if len(ids) == 0 {
		return nil
	}
	// bounded concurrency
	const maxWorkers = 8
	type result struct {
		idx  int
		item Item
		err  error
	}
	out := make([]result, len(ids))
	sem := make(chan struct{}, maxWorkers)
	done := make(chan result, len(ids))
	for i, id := range ids {
		i, id := i, id
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			// Per-item timeout to avoid hanging
			ictx, cancel := context.WithTimeout(ctx, 8*time.Second)
			defer cancel()
			it, err := c.Item(ictx, id)
			done <- result{idx: i, item: it, err: err}
		}()
	}
	for i := 0; i < len(ids); i++ {
		r := <-done
		if r.err != nil {
			if onErr != nil {
				onErr(ids[r.idx], r.err)
			}
			continue
		}
		out[r.idx] = r
	}
	items := make([]Item, 0, len(ids))
	for _, r := range out {
		if r.item.ID != 0 {
			items = append(items, r.item)
		}
	}
	return items
}

// Hit is one Algolia search result.
type Hit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	StoryText   string `json:"story_text"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAt   string `json:"created_at"`
}

// Link returns the story URL, falling back to the discussion page.
func (h Hit) Link() string {
	if u := strings.TrimSpace(h.URL); u != "" {
		return u
	}
	return "https://news.ycombinator.com/item?id=" + h.ObjectID
}

// Created parses the RFC3339 creation time; zero if malformed.
func (h Hit) Created() time.Time {
	t, err := time.Parse(time.RFC3339, h.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SearchStories queries the Algolia HN index for stories matching query.
// API: GET /search?query=...&tags=story&hitsPerPage=N
func (c *Client) SearchStories(ctx context.Context, query string, hitsPerPage int) ([]Hit, error) {
	q := url.Values{
		"query":       {query},
		"tags":        {"story"},
		"hitsPerPage": {strconv.Itoa(hitsPerPage)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.algoliaAPI+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hackernews: search status %d", resp.StatusCode)
	}
	var body struct {
		Hits []Hit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	for i := range body.Hits {
		body.Hits[i].StoryText = stripHTML(body.Hits[i].StoryText)
	}
	return body.Hits, nil
}

// fetchIDs loads a list endpoint such as topstories/newstories/etc.
func (c *Client) fetchIDs(ctx context.Context, list string) ([]int, error) {
	path := fmt.Sprintf("%s/%s.json", c.baseAPI, url.PathEscape(list))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hackernews: %s status %d", list, resp.StatusCode)
	}
	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`) // best-effort removal

func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "<p>", "\n")
	s = htmlTagRe.ReplaceAllString(s, "")
	replacer := strings.NewReplacer(
		"&quot;", "\"",
		"&#x27;", "'",
		"&#x2F;", "/",
		"&apos;", "'",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
	return strings.TrimSpace(replacer.Replace(s))
}
