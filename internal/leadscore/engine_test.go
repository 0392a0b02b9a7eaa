package leadscore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/model"
)

const exampleContent = "We love tinygrad's performance vs pytorch but the budget for NVIDIA H100s is too expensive for our startup, our VP of Engineering approved switching"

func newTestEngine() *Engine {
	return NewEngine(nil, nil, nil)
}

func TestExampleSignalBaseScore(t *testing.T) {
	e := newTestEngine()
	res := e.Compute(model.Signal{Platform: model.PlatformReddit, Content: exampleContent, Author: "someone"})

	bd := res.Breakdown
	assert.Equal(t, 190, bd.Flagship)
	assert.Equal(t, 50, bd.Groups["financial"])
	assert.ElementsMatch(t, []string{"too expensive", "budget"}, bd.Matched["financial"])
	assert.Equal(t, 30, bd.Groups["alternative"])
	assert.Equal(t, 35, bd.Groups["decision_maker"])
	assert.Equal(t, 20, bd.Groups["enterprise"])
	assert.Equal(t, 325, bd.Base)
	assert.Equal(t, 325, res.LeadScore)
	assert.GreaterOrEqual(t, res.LeadScore, HotScore)
	assert.Equal(t, map[string]int{"nvidia": 1}, res.CompetitorMentions)
}

func TestMultipliersApplyOnceAndMultiply(t *testing.T) {
	e := newTestEngine()
	s := model.Signal{Platform: model.PlatformLinkedIn, Content: exampleContent, EngagementScore: 100, CommentCount: 20}
	res := e.Compute(s)
	assert.Equal(t, 150, res.Breakdown.EngagementPercent)
	assert.Equal(t, 140, res.Breakdown.PlatformPercent)
	// 325 * 1.5 * 1.4 = 682.5
	assert.Equal(t, 683, res.LeadScore)
}

func TestMultiplierIndependence(t *testing.T) {
	e := newTestEngine()
	engagements := []int{0, 11, 51, 101}
	platforms := model.Platforms

	base := e.Compute(model.Signal{Platform: model.PlatformReddit, Content: exampleContent}).Breakdown.Base
	for _, eng := range engagements {
		for _, p := range platforms {
			res := e.Compute(model.Signal{Platform: p, Content: exampleContent, EngagementScore: eng})
			alone := e.Compute(model.Signal{Platform: model.PlatformReddit, Content: exampleContent, EngagementScore: eng})
			still := e.Compute(model.Signal{Platform: p, Content: exampleContent})

			// each multiplier only depends on its own input
			assert.Equal(t, alone.Breakdown.EngagementPercent, res.Breakdown.EngagementPercent)
			assert.Equal(t, still.Breakdown.PlatformPercent, res.Breakdown.PlatformPercent)
			assert.Equal(t, base, res.Breakdown.Base)

			want := float64(base) * float64(res.Breakdown.EngagementPercent) / 100 * float64(res.Breakdown.PlatformPercent) / 100
			assert.InDelta(t, want, float64(res.LeadScore), 0.5, "engagement=%d platform=%s", eng, p)
		}
	}
}

func TestEngagementBracketsDoNotStack(t *testing.T) {
	r := DefaultRules()
	cases := map[int]int{0: 100, 10: 100, 11: 110, 50: 110, 51: 130, 100: 130, 101: 150, 5000: 150}
	for eng, want := range cases {
		assert.Equal(t, want, r.engagementPercent(eng), "engagement %d", eng)
	}
}

func TestScoreMonotonicInTerms(t *testing.T) {
	e := newTestEngine()
	r := e.Rules()
	var terms []string
	terms = append(terms, r.Flagship.Term)
	for _, b := range r.Flagship.Bonuses {
		terms = append(terms, b.Terms...)
	}
	for _, g := range r.Groups {
		terms = append(terms, g.Terms...)
	}

	for _, seed := range []string{"GPU chat", "tinygrad on a budget", exampleContent} {
		before := e.Compute(model.Signal{Platform: model.PlatformTwitter, Content: seed, EngagementScore: 30}).LeadScore
		for _, term := range terms {
			after := e.Compute(model.Signal{Platform: model.PlatformTwitter, Content: seed + " " + term + ".", EngagementScore: 30}).LeadScore
			assert.GreaterOrEqual(t, after, before, "adding %q to %q", term, seed)
		}
	}
}

func TestScoreNeverNegative(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, 0, e.Compute(model.Signal{Content: "hello"}).LeadScore)
	assert.Equal(t, 0, e.Compute(model.Signal{}).LeadScore)
}

func TestDecisionMakerInAuthor(t *testing.T) {
	e := newTestEngine()
	res := e.Compute(model.Signal{Platform: model.PlatformReddit, Author: "Director of AI", Content: "thoughts on chips"})
	// "director" holds "cto" and both count
	assert.Equal(t, []string{"cto", "director"}, res.Breakdown.Matched["decision_maker"])
	assert.Equal(t, 70, res.Breakdown.Groups["decision_maker"])
}

func TestOverlappingFinancialTerms(t *testing.T) {
	e := newTestEngine()
	res := e.Compute(model.Signal{Platform: model.PlatformReddit, Content: "a costly rig"})
	assert.Equal(t, 50, res.Breakdown.Groups["financial"])

	res = e.Compute(model.Signal{Platform: model.PlatformReddit, Content: "way too expensive"})
	assert.Equal(t, []string{"too expensive"}, res.Breakdown.Matched["financial"])
	assert.Equal(t, 25, res.Breakdown.Groups["financial"])
}

func TestRulesRejectBadSubsumption(t *testing.T) {
	cases := map[string]string{
		"unknown long":  `{name: g, weight: 1, terms: [a, b], subsumes: {c: [a]}}`,
		"not contained": `{name: g, weight: 1, terms: [cost, budget], subsumes: {budget: [cost]}}`,
	}
	for name, group := range cases {
		t.Run(name, func(t *testing.T) {
			src := "default_persona: p\ngroups:\n  - " + group + "\n"
			_, err := LoadRules(strings.NewReader(src))
			assert.ErrorContains(t, err, "subsum")
		})
	}
}

func TestPersona(t *testing.T) {
	e := newTestEngine()
	cases := []struct {
		author, content, want string
	}{
		{"ml-engineer-joe", "pytorch on rocm", "ML Engineer"},
		{"jane_dev", "CUDA kernels", "Technical Individual Contributor"},
		{"data_scientist", "tensorflow models", "Data Scientist"},
		{"bob", "pytorch research lab", "Data Scientist"},
		{"the_cto", "budget review", "Technical Decision Maker"},
		{"alice", "our procurement process", "Procurement/Finance"},
		{"alice", "founder here, new chip", "Startup Founder/Executive"},
		{"alice", "cool chip", "Technical Enthusiast"},
	}
	for _, c := range cases {
		got := e.Persona(model.Signal{Author: c.author, Content: c.content})
		assert.Equal(t, c.want, got, "%s / %s", c.author, c.content)
	}
}

func TestUrgency(t *testing.T) {
	e := newTestEngine()
	cases := map[string]model.Urgency{
		"urgent, help needed":       model.UrgencyHigh,
		"launch date is this week":  model.UrgencyMedium,
		"hard deadline":             model.UrgencyMedium,
		"we go live soon":           model.UrgencyLow,
		"nothing special":           model.UrgencyLow,
		"stuck before quarter end":  model.UrgencyHigh,
	}
	for content, want := range cases {
		assert.Equal(t, want, e.Urgency(model.Signal{Content: content}), content)
	}
}

func TestScoreAllPartitions(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()
	signals := []model.Signal{
		{ID: 1, Platform: model.PlatformReddit, Content: "plain GPU talk"},
		{ID: 2, Platform: model.PlatformReddit, Content: exampleContent},
		{ID: 3, Platform: model.PlatformReddit, Content: "tinygrad is neat"},
		{ID: 4, Platform: model.PlatformReddit, Content: "tinygrad is cool"},
	}
	p := e.ScoreAll(ctx, signals)

	require.Len(t, p.All, 4)
	assert.Equal(t, int64(2), p.All[0].ID)
	// equal scores keep input order
	assert.Equal(t, int64(3), p.All[1].ID)
	assert.Equal(t, int64(4), p.All[2].ID)
	require.Len(t, p.Hot, 1)
	assert.Equal(t, 325, p.Hot[0].LeadScore)
	assert.Len(t, p.Warm, 2)
	for i := 1; i < len(p.All); i++ {
		assert.GreaterOrEqual(t, p.All[i-1].LeadScore, p.All[i].LeadScore)
	}
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine()
	e.ScoreAll(ctx, []model.Signal{
		{ID: 1, Content: exampleContent},
		{ID: 2, Content: "tinygrad on amd and nvidia"},
		{ID: 3, Content: "intel and amd chips"},
		{ID: 4, Content: "nothing"},
	})
	// rescoring the same id does not double count
	e.Score(ctx, model.Signal{ID: 3, Content: "intel and amd chips"})

	a, err := e.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, a.TotalLeads)
	assert.Equal(t, 1, a.HotLeads)
	assert.Equal(t, 1, a.WarmLeads)
	assert.Equal(t, 50.0, a.ConversionRate)
	assert.Equal(t, (325+100+0+0+2)/4, a.AverageLeadScore)
	require.NotEmpty(t, a.TopCompetitors)
	assert.Equal(t, CompetitorCount{Name: "amd", Mentions: 2}, a.TopCompetitors[0])
	assert.Equal(t, CompetitorCount{Name: "nvidia", Mentions: 2}, a.TopCompetitors[1])
}

func TestAnalyticsSharedMemo(t *testing.T) {
	ctx := context.Background()
	memo := NewMemoryMemo()
	scorer := NewEngine(nil, memo, nil)
	reader := NewEngine(nil, memo, nil)

	scorer.Score(ctx, model.Signal{ID: 1, Content: "tinygrad on amd and nvidia"})
	scorer.Score(ctx, model.Signal{ID: 2, Content: "amd chips"})

	a, err := reader.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, a.TotalLeads)
	assert.Equal(t, []CompetitorCount{{Name: "amd", Mentions: 2}, {Name: "nvidia", Mentions: 1}}, a.TopCompetitors)

	// a rescore that drops a competitor is visible to the other engine
	reader.Score(ctx, model.Signal{ID: 2, Content: "chips"})
	a, err = scorer.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CompetitorCount{{Name: "amd", Mentions: 1}, {Name: "nvidia", Mentions: 1}}, a.TopCompetitors)
}

func TestDecodeEntry(t *testing.T) {
	e, ok := decodeEntry("42")
	require.True(t, ok)
	assert.Equal(t, Entry{Score: 42}, e)

	e, ok = decodeEntry(`{"score":7,"competitors":["amd"]}`)
	require.True(t, ok)
	assert.Equal(t, Entry{Score: 7, Competitors: []string{"amd"}}, e)

	_, ok = decodeEntry("nope")
	assert.False(t, ok)
}

func TestMonitorFlagship(t *testing.T) {
	e := newTestEngine()
	rep := e.MonitorFlagship([]model.Signal{
		{Content: "tinygrad is fast and efficient"},
		{Content: "tinygrad docs have issues, broken api"},
		{Content: "tinygrad vs pytorch for our company"},
		{Content: "pytorch only"},
	})
	assert.Equal(t, 3, rep.TotalMentions)
	assert.Equal(t, Sentiment{Positive: 1, Negative: 1, Neutral: 1}, rep.Sentiment)
	assert.Len(t, rep.CompetitorComparisons, 1)
	assert.Len(t, rep.TechnicalDiscussions, 1)
	assert.Len(t, rep.BusinessOpportunities, 1)
}

func TestLoadRules(t *testing.T) {
	_, err := LoadRules(strings.NewReader(string(defaultRules)))
	require.NoError(t, err)

	_, err = LoadRules(strings.NewReader("flagship: {term: x, weight: 1}\nbogus: 1\ndefault_persona: p\n"))
	assert.Error(t, err)

	_, err = LoadRules(strings.NewReader("groups: [{name: g, weight: -5, terms: [a]}]\ndefault_persona: p\n"))
	assert.ErrorContains(t, err, "negative weight")

	_, err = LoadRules(strings.NewReader("platforms: {Myspace: 2}\ndefault_persona: p\n"))
	assert.ErrorContains(t, err, "unknown platform")
}
