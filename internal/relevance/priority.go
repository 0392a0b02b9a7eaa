// Package relevance decides at ingestion time whether a raw post is relevant
// and which coarse priority tier it gets.
package relevance

import (
	"leadscout/internal/model"
	"leadscout/internal/textmatch"
)

// Threshold is one escalation step. A zero field disables that criterion.
// All comparisons are strict (value > threshold).
type Threshold struct {
	Score      int
	Comments   int
	Engagement int
	Relevance  float64
	PainPoints int
}

// Profile describes how one source family filters and prioritizes posts.
type Profile struct {
	Keywords   []string
	PainPoints []string
	// Boosts adds extra relevance, in tenths, when a term is present.
	Boosts map[string]int
	// MinRelevance drops posts below this fraction. Zero disables the gate.
	MinRelevance float64
	// MaxKeywords caps the stored keyword list. Zero keeps all matches.
	MaxKeywords       int
	High              Threshold
	Highest           Threshold
	VerifiedIsHighest bool
}

// Input is the source-neutral view of a raw post.
type Input struct {
	Text       string
	Score      int
	Comments   int
	Engagement int
	Verified   bool
}

// Assessment is the outcome of evaluating an Input against a Profile.
type Assessment struct {
	Keep       bool
	Keywords   []string
	PainPoints []string
	Relevance  float64
	Priority   model.Priority
}

// Assess applies the keyword filter, the relevance gate and the priority rules.
// A post matching no keyword is never kept.
func (p Profile) Assess(in Input) Assessment {
	kws := textmatch.Match(in.Text, p.Keywords)
	pains := textmatch.Match(in.Text, p.PainPoints)
	a := Assessment{
		Keywords:   kws,
		PainPoints: pains,
		Relevance:  p.relevance(in.Text, len(kws), len(pains)),
	}
	if len(kws) == 0 {
		return a
	}
	if p.MinRelevance > 0 && a.Relevance < p.MinRelevance {
		return a
	}
	if p.MaxKeywords > 0 && len(a.Keywords) > p.MaxKeywords {
		a.Keywords = a.Keywords[:p.MaxKeywords]
	}
	a.Keep = true
	a.Priority = p.priority(in, len(pains), a.Relevance)
	return a
}

// relevance is 0.1 per keyword and 0.2 per pain point plus boosts, capped at 1.0.
// It is accumulated in tenths to keep threshold comparisons exact.
func (p Profile) relevance(text string, keywords, pains int) float64 {
	tenths := keywords + 2*pains
	for term, boost := range p.Boosts {
		if textmatch.Any(text, []string{term}) {
			tenths += boost
		}
	}
	if tenths > 10 {
		tenths = 10
	}
	return float64(tenths) / 10
}

func (p Profile) priority(in Input, pains int, rel float64) model.Priority {
	prio := model.PriorityMedium
	if p.High.crossed(in, pains, rel) {
		prio = prio.Escalate(model.PriorityHigh)
	}
	if p.Highest.crossed(in, pains, rel) || (p.VerifiedIsHighest && in.Verified) {
		prio = prio.Escalate(model.PriorityHighest)
	}
	return prio
}

func (t Threshold) crossed(in Input, pains int, rel float64) bool {
	switch {
	case t.Score > 0 && in.Score > t.Score:
		return true
	case t.Comments > 0 && in.Comments > t.Comments:
		return true
	case t.Engagement > 0 && in.Engagement > t.Engagement:
		return true
	case t.Relevance > 0 && rel > t.Relevance:
		return true
	case t.PainPoints > 0 && pains > t.PainPoints:
		return true
	}
	return false
}

// Forum is the profile for the discussion forum (Reddit).
func Forum() Profile {
	return Profile{
		Keywords:   HardwareKeywords,
		PainPoints: HardwarePainPoints,
		High:       Threshold{Score: 100, Comments: 50, PainPoints: 2},
		Highest:    Threshold{Score: 500, Comments: 200, PainPoints: 4},
	}
}

// News is the profile for the technical news aggregator (Hacker News).
func News() Profile {
	return Profile{
		Keywords:   HardwareKeywords,
		PainPoints: HardwarePainPoints,
		High:       Threshold{Score: 100, Comments: 30, PainPoints: 2},
		Highest:    Threshold{Score: 300, Comments: 100, PainPoints: 4},
	}
}

// LinkedIn is the profile for the B2B social network.
func LinkedIn() Profile {
	return Profile{
		Keywords:     LinkedInKeywords,
		PainPoints:   LinkedInPainPoints,
		MinRelevance: 0.3,
		MaxKeywords:  5,
		High:         Threshold{Relevance: 0.5, Engagement: 10, PainPoints: 2},
		Highest:      Threshold{Relevance: 0.7, Engagement: 50, PainPoints: 4},
	}
}

// Twitter is the profile for the high-engagement social network.
func Twitter() Profile {
	return Profile{
		Keywords:          TwitterKeywords,
		PainPoints:        TwitterPainPoints,
		Boosts:            map[string]int{"tinygrad": 3},
		MinRelevance:      0.2,
		MaxKeywords:       5,
		High:              Threshold{Relevance: 0.5, Engagement: 20, PainPoints: 2},
		Highest:           Threshold{Relevance: 0.7, Engagement: 100, PainPoints: 4},
		VerifiedIsHighest: true,
	}
}

// ForPlatform returns the profile for p.
func ForPlatform(p model.Platform) Profile {
	switch p {
	case model.PlatformHackerNews:
		return News()
	case model.PlatformLinkedIn:
		return LinkedIn()
	case model.PlatformTwitter:
		return Twitter()
	default:
		return Forum()
	}
}
