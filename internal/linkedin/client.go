package linkedin

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

const shareContentKey = "com.linkedin.ugc.ShareContent"

// Client talks to the LinkedIn v2 REST API with a member access token.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.linkedin.com/v2"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Post is a UGC post as returned by /ugcPosts.
type Post struct {
	ID              string                     `json:"id"`
	Author          string                     `json:"author"`
	Created         struct{ Time int64 }       `json:"created"`
	SpecificContent map[string]json.RawMessage `json:"specificContent"`
	SocialDetail    struct {
		TotalSocialActivityCounts struct {
			NumLikes    int `json:"numLikes"`
			NumComments int `json:"numComments"`
		} `json:"totalSocialActivityCounts"`
	} `json:"socialDetail"`
}

type shareContent struct {
	ShareCommentary struct {
		Text string `json:"text"`
	} `json:"shareCommentary"`
	ShareMediaCategory string `json:"shareMediaCategory"`
	Media              []struct {
		Title       struct{ Text string } `json:"title"`
		Description struct{ Text string } `json:"description"`
	} `json:"media"`
}

// Text extracts the share commentary, or "title - description" of a shared article.
func (p Post) Text() string {
	raw, ok := p.SpecificContent[shareContentKey]
	if !ok {
		return ""
	}
	var sc shareContent
	if err := json.Unmarshal(raw, &sc); err != nil {
		return ""
	}
	if t := strings.TrimSpace(sc.ShareCommentary.Text); t != "" {
		return t
	}
	if sc.ShareMediaCategory == "ARTICLE" && len(sc.Media) > 0 && sc.Media[0].Title.Text != "" {
		out := sc.Media[0].Title.Text
		if d := sc.Media[0].Description.Text; d != "" {
			out += " - " + d
		}
		return out
	}
	return ""
}

// AuthorName turns "urn:li:person:abc" into "abc".
func (p Post) AuthorName() string {
	if _, after, ok := strings.Cut(p.Author, "person:"); ok && after != "" {
		return after
	}
	return "LinkedIn User"
}

// Link returns the public feed URL of the post.
func (p Post) Link() string {
	if p.ID != "" {
		return "https://www.linkedin.com/feed/update/" + p.ID
	}
	return "https://www.linkedin.com/feed/"
}

// CreatedAt converts the millisecond timestamp; zero when absent.
func (p Post) CreatedAt() time.Time {
	if p.Created.Time == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.Created.Time).UTC()
}

// Likes is the like count.
func (p Post) Likes() int { return p.SocialDetail.TotalSocialActivityCounts.NumLikes }

// Comments is the comment count.
func (p Post) Comments() int { return p.SocialDetail.TotalSocialActivityCounts.NumComments }

// Me returns the id of the member owning the token.
// API: GET /people/~
func (c *Client) Me(ctx context.Context) (string, error) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, "/people/~", nil, &body); err != nil {
		return "", err
	}
	return body.ID, nil
}

// PostsByAuthor lists one page of UGC posts authored by the given person id.
// API: GET /ugcPosts?q=authors&authors=List((person:{id}))&start=S&count=N
func (c *Client) PostsByAuthor(ctx context.Context, personID string, start, count int) ([]Post, error) {
	q := url.Values{
		"q":       {"authors"},
		"authors": {"List((person:" + personID + "))"},
		"start":   {strconv.Itoa(start)},
		"count":   {strconv.Itoa(count)},
	}
	var body struct {
		Elements []Post `json:"elements"`
	}
	if err := c.get(ctx, "/ugcPosts", q, &body); err != nil {
		return nil, err
	}
	return body.Elements, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("linkedin: %s status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
