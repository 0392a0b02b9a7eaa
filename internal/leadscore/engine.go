package leadscore

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"leadscout/internal/model"
	"leadscout/internal/textmatch"
)

// Thresholds shared with the opportunity tiers.
const (
	HotScore  = 150
	WarmScore = 100
)

// Breakdown explains how a score was reached.
type Breakdown struct {
	Flagship          int                 `json:"flagship"`
	Groups            map[string]int      `json:"groups"`
	Matched           map[string][]string `json:"matched"`
	Base              int                 `json:"base"`
	EngagementPercent int                 `json:"engagementPercent"`
	PlatformPercent   int                 `json:"platformPercent"`
}

// Result is the outcome of scoring one signal.
type Result struct {
	LeadScore          int            `json:"leadScore"`
	Persona            string         `json:"persona"`
	Urgency            model.Urgency  `json:"urgency"`
	CompetitorMentions map[string]int `json:"competitorMentions"`
	Breakdown          Breakdown      `json:"breakdown"`
}

// Lead wraps the signal with the result.
func (r Result) Lead(s model.Signal) model.ScoredLead {
	return model.ScoredLead{Signal: s, LeadScore: r.LeadScore, Persona: r.Persona, Urgency: r.Urgency}
}

// Engine scores signals. Scoring itself is pure; the engine additionally
// records the latest score and competitor mentions per signal id in its memo.
type Engine struct {
	rules  *Rules
	memo   Memo
	logger *slog.Logger
}

// NewEngine builds an engine. A nil rules uses the embedded table, a nil memo an in-memory one.
func NewEngine(rules *Rules, memo Memo, logger *slog.Logger) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	if memo == nil {
		memo = NewMemoryMemo()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rules: rules, memo: memo, logger: logger}
}

// Rules exposes the table in use.
func (e *Engine) Rules() *Rules { return e.rules }

// Compute scores s without recording anything.
func (e *Engine) Compute(s model.Signal) Result {
	content := s.Content
	author := s.Author
	r := e.rules

	bd := Breakdown{Groups: map[string]int{}, Matched: map[string][]string{}}
	if r.Flagship.Term != "" && textmatch.Any(content, []string{r.Flagship.Term}) {
		bd.Flagship = r.Flagship.Weight
		for _, b := range r.Flagship.Bonuses {
			if textmatch.Any(content, b.Terms) {
				bd.Flagship += b.Weight
			}
		}
	}
	bd.Base = bd.Flagship
	for _, g := range r.Groups {
		text := content
		if g.Author {
			// separate with a newline so terms never span author and content
			text = author + "\n" + content
		}
		hits := textmatch.MatchDistinct(text, g.Terms, g.Subsumes)
		if len(hits) == 0 {
			continue
		}
		bd.Matched[g.Name] = hits
		bd.Groups[g.Name] = g.Weight * len(hits)
		bd.Base += bd.Groups[g.Name]
	}
	bd.EngagementPercent = r.engagementPercent(s.Engagement())
	bd.PlatformPercent = r.platformPercent(s.Platform)

	return Result{
		LeadScore:          applyMultipliers(bd.Base, bd.EngagementPercent, bd.PlatformPercent),
		Persona:            e.Persona(s),
		Urgency:            e.Urgency(s),
		CompetitorMentions: e.CompetitorMentions(s),
		Breakdown:          bd,
	}
}

// applyMultipliers returns round(base * e/100 * p/100) using integer math.
func applyMultipliers(base, ePct, pPct int) int {
	if base <= 0 {
		return 0
	}
	num := base * ePct * pPct
	return (num + 5000) / 10000
}

// Score computes s and records the result under s.ID (when set).
func (e *Engine) Score(ctx context.Context, s model.Signal) Result {
	res := e.Compute(s)
	if s.ID != 0 {
		names := make([]string, 0, len(res.CompetitorMentions))
		for name := range res.CompetitorMentions {
			names = append(names, name)
		}
		sort.Strings(names)
		if err := e.memo.Put(ctx, s.ID, Entry{Score: res.LeadScore, Competitors: names}); err != nil {
			e.logger.Warn("leadscore: memo write failed", "id", s.ID, "err", err)
		}
	}
	return res
}

// Persona walks the decision list; the first matching rule wins.
func (e *Engine) Persona(s model.Signal) string {
	for _, rule := range e.rules.Personas {
		if len(rule.When) > 0 && !textmatch.Any(s.Content, rule.When) {
			continue
		}
		if len(rule.Author) == 0 && len(rule.Content) == 0 {
			return rule.Persona
		}
		if textmatch.Any(s.Author, rule.Author) || textmatch.Any(s.Content, rule.Content) {
			return rule.Persona
		}
	}
	return e.rules.DefaultPersona
}

// Urgency sums the weights of matched urgent and time-bound terms.
func (e *Engine) Urgency(s model.Signal) model.Urgency {
	total := 0
	for _, g := range e.rules.Urgency.Terms {
		total += g.Weight * textmatch.Count(s.Content, g.Terms)
	}
	switch {
	case total >= e.rules.Urgency.High:
		return model.UrgencyHigh
	case total >= e.rules.Urgency.Medium:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}

// CompetitorMentions counts occurrences of each competitor name in the content.
func (e *Engine) CompetitorMentions(s model.Signal) map[string]int {
	lower := strings.ToLower(s.Content)
	out := map[string]int{}
	for _, c := range e.rules.Competitors {
		if n := strings.Count(lower, strings.ToLower(c)); n > 0 {
			out[c] = n
		}
	}
	return out
}

// Partition is a bulk scoring result, each slice sorted by score descending.
type Partition struct {
	Hot  []model.ScoredLead `json:"hotLeads"`
	Warm []model.ScoredLead `json:"warmLeads"`
	All  []model.ScoredLead `json:"allLeads"`
}

// ScoreAll scores every signal and partitions the leads into hot and warm.
// Ties keep input order.
func (e *Engine) ScoreAll(ctx context.Context, signals []model.Signal) Partition {
	all := make([]model.ScoredLead, 0, len(signals))
	for _, s := range signals {
		all = append(all, e.Score(ctx, s).Lead(s))
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].LeadScore > all[j].LeadScore })
	p := Partition{All: all, Hot: []model.ScoredLead{}, Warm: []model.ScoredLead{}}
	for _, l := range all {
		switch {
		case l.LeadScore >= HotScore:
			p.Hot = append(p.Hot, l)
		case l.LeadScore >= WarmScore:
			p.Warm = append(p.Warm, l)
		}
	}
	return p
}

// CompetitorCount is one row of the competitor leaderboard.
type CompetitorCount struct {
	Name     string `json:"name"`
	Mentions int    `json:"mentions"`
}

// Analytics summarizes every signal recorded in the memo.
type Analytics struct {
	TotalLeads       int               `json:"totalLeads"`
	HotLeads         int               `json:"hotLeads"`
	WarmLeads        int               `json:"warmLeads"`
	ConversionRate   float64           `json:"conversionRate"`
	TopCompetitors   []CompetitorCount `json:"topCompetitors"`
	AverageLeadScore int               `json:"averageLeadScore"`
}

// Analytics aggregates the recorded scores. Competitors count signals, not occurrences.
func (e *Engine) Analytics(ctx context.Context) (Analytics, error) {
	entries, err := e.memo.Entries(ctx)
	if err != nil {
		return Analytics{}, err
	}
	a := Analytics{TotalLeads: len(entries), TopCompetitors: []CompetitorCount{}}
	sum := 0
	counts := map[string]int{}
	for _, en := range entries {
		for _, n := range en.Competitors {
			counts[n]++
		}
		sc := en.Score
		sum += sc
		switch {
		case sc >= HotScore:
			a.HotLeads++
		case sc >= WarmScore:
			a.WarmLeads++
		}
	}
	if a.TotalLeads > 0 {
		rate := float64(a.HotLeads+a.WarmLeads) / float64(a.TotalLeads) * 100
		a.ConversionRate = float64(int(rate*10+0.5)) / 10
		a.AverageLeadScore = (sum + a.TotalLeads/2) / a.TotalLeads
	}

	for name, n := range counts {
		a.TopCompetitors = append(a.TopCompetitors, CompetitorCount{Name: name, Mentions: n})
	}
	sort.Slice(a.TopCompetitors, func(i, j int) bool {
		if a.TopCompetitors[i].Mentions != a.TopCompetitors[j].Mentions {
			return a.TopCompetitors[i].Mentions > a.TopCompetitors[j].Mentions
		}
		return a.TopCompetitors[i].Name < a.TopCompetitors[j].Name
	})
	if len(a.TopCompetitors) > 5 {
		a.TopCompetitors = a.TopCompetitors[:5]
	}
	return a, nil
}
