package model

import (
	"strings"
	"time"
)

// Platform identifies the external service a Signal was collected from.
type Platform string

const (
	PlatformReddit     Platform = "Reddit"     // discussion forum
	PlatformHackerNews Platform = "HackerNews" // technical news aggregator
	PlatformLinkedIn   Platform = "LinkedIn"   // B2B social network
	PlatformTwitter    Platform = "Twitter"    // high-engagement social network
)

// Platforms lists every supported platform in scan order.
var Platforms = []Platform{PlatformReddit, PlatformHackerNews, PlatformLinkedIn, PlatformTwitter}

// Key is the lower-case identifier used in config, counters and API payloads.
func (p Platform) Key() string {
	return strings.ToLower(string(p))
}

// ParsePlatform resolves a platform from its name or key, case-insensitively.
func ParsePlatform(s string) (Platform, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "x":
		return PlatformTwitter, true
	case "hn":
		return PlatformHackerNews, true
	}
	for _, p := range Platforms {
		if p.Key() == s {
			return p, true
		}
	}
	return "", false
}

// Priority is the coarse ingestion-time tier of a Signal.
type Priority string

const (
	PriorityMedium  Priority = "medium"
	PriorityHigh    Priority = "high"
	PriorityHighest Priority = "highest"
)

// Rank orders priorities; unknown values rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHighest:
		return 2
	case PriorityHigh:
		return 1
	default:
		return 0
	}
}

// ParsePriority resolves a priority name case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityMedium, PriorityHigh, PriorityHighest:
		return p, true
	}
	return "", false
}

// AtLeast lists the priorities ranked at or above p.
func (p Priority) AtLeast() []Priority {
	var out []Priority
	for _, q := range []Priority{PriorityMedium, PriorityHigh, PriorityHighest} {
		if q.Rank() >= p.Rank() {
			out = append(out, q)
		}
	}
	return out
}

// Escalate returns the higher of p and to. A priority is never downgraded.
func (p Priority) Escalate(to Priority) Priority {
	if to.Rank() > p.Rank() {
		return to
	}
	if p == "" {
		return PriorityMedium
	}
	return p
}

// IsHigh reports whether the priority is high or highest.
func (p Priority) IsHigh() bool {
	return p.Rank() >= PriorityHigh.Rank()
}

// Status tracks downstream sales follow-up on a Signal.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusResponded Status = "responded"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusResponded:
		return true
	}
	return false
}

// AnonymousAuthor is used when a source does not expose an author.
const AnonymousAuthor = "anonymous"

// Signal is a normalized mention of the target product/competitor space.
type Signal struct {
	ID              int64     `json:"id"`
	Platform        Platform  `json:"platform"`
	ExternalID      string    `json:"external_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	URL             string    `json:"url"`
	Author          string    `json:"author"`
	EngagementScore int       `json:"score"`
	CommentCount    int       `json:"comments_count"`
	Priority        Priority  `json:"priority"`
	Keywords        []string  `json:"keywords"`
	Subgroup        string    `json:"subgroup,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	IngestedAt      time.Time `json:"ingested_at"`
}

// DedupKey identifies the original post across scan cycles.
func (s Signal) DedupKey() string {
	id := s.ExternalID
	if id == "" {
		id = s.URL
	}
	return s.Platform.Key() + ":" + id
}

// Text is the title and content joined for keyword analysis.
func (s Signal) Text() string {
	if s.Content == s.Title {
		return s.Title
	}
	return s.Title + " " + s.Content
}

// Engagement is likes/upvotes plus comments.
func (s Signal) Engagement() int {
	return s.EngagementScore + s.CommentCount
}

// HasKeyword reports whether term appears in the signal's text or matched keywords.
func (s Signal) HasKeyword(term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(s.Text()), term) {
		return true
	}
	for _, k := range s.Keywords {
		if strings.Contains(strings.ToLower(k), term) {
			return true
		}
	}
	return false
}

// OutreachResponse is generated outreach text tied to exactly one Signal.
type OutreachResponse struct {
	ID          int64     `json:"id"`
	SignalID    int64     `json:"signal_id"`
	Text        string    `json:"response_text"`
	GeneratedAt time.Time `json:"generated_at"`
	// Joined from the signal when listing.
	SignalTitle    string   `json:"title,omitempty"`
	SignalPlatform Platform `json:"platform,omitempty"`
}

// Urgency is the time pressure detected in a Signal.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// ScoredLead wraps a Signal with on-demand scoring results. It is never persisted.
type ScoredLead struct {
	Signal
	LeadScore int     `json:"leadScore"`
	Persona   string  `json:"persona"`
	Urgency   Urgency `json:"urgency"`
}
