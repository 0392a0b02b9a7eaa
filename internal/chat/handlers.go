package chat

import (
	"context"
	"fmt"
	"strings"

	"leadscout/internal/leadscore"
	"leadscout/internal/model"
	"leadscout/internal/scan"
	"leadscout/internal/storage"
	"leadscout/internal/textmatch"
)

var (
	decisionTerms    = []string{"cto", "vp", "director", "manager", "head of", "chief"}
	budgetTerms      = []string{"budget", "expensive", "cost", "cheap", "affordable", "price"}
	alternativeTerms = []string{"alternative", "alternatives", "instead of", "replace", "switch from"}

	// searched on the forum and news sources when a social source yields nothing
	socialFallbackTerms = map[model.Platform][]string{
		model.PlatformLinkedIn: {"tinygrad", "NVIDIA alternatives", "AI hardware"},
		model.PlatformTwitter:  {"tinygrad", "NVIDIA expensive", "GPU alternatives"},
	}
)

const (
	scoreLimit  = 20
	recentLimit = 10
)

const helpText = "I'm here to help you find leads and analyze signals! Try asking me to:\n\n" +
	"• 'Show me LinkedIn signals'\n" +
	"• 'Find tinygrad mentions'\n" +
	"• 'Score all leads'\n" +
	"• 'Find decision makers'\n" +
	"• 'Show budget-conscious leads'\n\n" +
	"What would you like me to help you with?"

const generalPreamble = `You are an AI sales assistant for Tenstorrent, a company that makes open-source AI hardware alternatives to NVIDIA.
Acknowledge the user's question, suggest concrete actions you can take (searching LinkedIn, scoring leads,
finding tinygrad mentions), stay conversational and sales-focused and keep it concise.`

// social scans one social platform. When it is disabled or finds nothing the
// forum and news sources are searched with platform-flavoured terms instead.
func (r *Router) social(p model.Platform) handler {
	label := socialLabel(p)
	typ := p.Key() + "_results"
	return func(ctx context.Context, _ string) (Reply, error) {
		res := r.scanner.Source(ctx, p)
		if msg, failed := res.Failed[p.Key()]; failed {
			r.logger.Warn("chat: social scan failed, searching instead", "source", p.Key(), "err", msg)
		}
		signals := res.Signals
		how := ""
		if len(signals) == 0 {
			res = r.scanner.Search(ctx, socialFallbackTerms[p], scan.QuickPlatforms...)
			if len(res.Failed) == len(scan.QuickPlatforms) {
				return Reply{}, &HandlerError{
					Intent:  p.Key(),
					Message: fmt.Sprintf("I encountered an issue accessing %s data. This might be due to API limitations. Would you like me to try alternative search methods?", label),
					Err:     fmt.Errorf("search fallback failed: %v", res.Failed),
				}
			}
			signals = res.Signals
			how = " through keyword search"
		}
		return Reply{
			Text: fmt.Sprintf("I found %d %s signals%s! Here are the highlights:\n\n%s", len(signals), label, how, summarize(signals)),
			Type: typ,
			Data: nonNil(signals),
		}, nil
	}
}

func socialLabel(p model.Platform) string {
	if p == model.PlatformTwitter {
		return "Twitter/X"
	}
	return string(p)
}

// FlagshipAnalysis is the data of a tinygrad_analysis reply.
type FlagshipAnalysis struct {
	Signals  []model.Signal           `json:"signals"`
	Analysis leadscore.FlagshipReport `json:"analysis"`
}

func (r *Router) flagship(ctx context.Context, _ string) (Reply, error) {
	term := r.engine.Rules().Flagship.Term
	all, err := r.store.ListAll(ctx, storage.DefaultLimit)
	if err != nil {
		return Reply{}, err
	}
	var mentions []model.Signal
	for _, s := range all {
		if s.HasKeyword(term) {
			mentions = append(mentions, s)
		}
	}
	if len(mentions) == 0 {
		res := r.scanner.Search(ctx, []string{term}, model.Platforms...)
		return Reply{
			Text: fmt.Sprintf("I searched across all platforms for %q and found %d new mentions! Here's what I discovered:\n\n%s",
				term, len(res.Signals), summarize(res.Signals)),
			Type: term + "_results",
			Data: nonNil(res.Signals),
		}, nil
	}
	report := r.engine.MonitorFlagship(all)
	return Reply{
		Text: fmt.Sprintf("I found %d %s mentions! Here's the analysis:\n\n"+
			"**Sentiment**: %d positive, %d negative, %d neutral\n"+
			"**Technical Discussions**: %d posts\n"+
			"**Business Opportunities**: %d potential leads\n\n%s",
			len(mentions), term,
			report.Sentiment.Positive, report.Sentiment.Negative, report.Sentiment.Neutral,
			len(report.TechnicalDiscussions), len(report.BusinessOpportunities),
			summarize(mentions)),
		Type: term + "_analysis",
		Data: FlagshipAnalysis{Signals: mentions, Analysis: report},
	}, nil
}

func (r *Router) scoreLeads(ctx context.Context, _ string) (Reply, error) {
	signals, err := r.store.ListAll(ctx, scoreLimit)
	if err != nil {
		return Reply{}, err
	}
	p := r.engine.ScoreAll(ctx, signals)
	return Reply{
		Text: fmt.Sprintf("Lead scoring complete! Here's what I found:\n\n"+
			"**Hot Leads**: %d (150+ points)\n**Warm Leads**: %d (100-149 points)\n\n**Top 5 Hot Leads:**\n%s",
			len(p.Hot), len(p.Warm), summarizeLeads(p.Hot)),
		Type: "lead_scoring_results",
		Data: p,
	}, nil
}

func (r *Router) highPriority(ctx context.Context, _ string) (Reply, error) {
	all, err := r.store.ListAll(ctx, storage.DefaultLimit)
	if err != nil {
		return Reply{}, err
	}
	var high []model.Signal
	for _, s := range all {
		if s.Priority.IsHigh() {
			high = append(high, s)
		}
	}
	return Reply{
		Text: fmt.Sprintf("I found %d high-priority signals:\n\n%s", len(high), summarize(high)),
		Type: "high_priority_results",
		Data: nonNil(high),
	}, nil
}

// filtered lists stored signals whose content (and author, when withAuthor)
// contains any of terms.
func (r *Router) filtered(typ, what string, terms []string, withAuthor bool) handler {
	return func(ctx context.Context, _ string) (Reply, error) {
		all, err := r.store.ListAll(ctx, storage.DefaultLimit)
		if err != nil {
			return Reply{}, err
		}
		var hits []model.Signal
		for _, s := range all {
			text := s.Content
			if withAuthor {
				text += " " + s.Author
			}
			if textmatch.Any(text, terms) {
				hits = append(hits, s)
			}
		}
		return Reply{
			Text: fmt.Sprintf("I found %d %s:\n\n%s", len(hits), what, summarize(hits)),
			Type: typ,
			Data: nonNil(hits),
		}, nil
	}
}

func (r *Router) recentSignals(ctx context.Context, _ string) (Reply, error) {
	recent, err := r.store.ListAll(ctx, recentLimit)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Text: fmt.Sprintf("Here are the %d most recent signals:\n\n%s", len(recent), summarize(recent)),
		Type: "signals_results",
		Data: nonNil(recent),
	}, nil
}

func (r *Router) analytics(ctx context.Context, _ string) (Reply, error) {
	a, err := r.engine.Analytics(ctx)
	if err != nil {
		return Reply{}, err
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "**Sales Analytics Overview:**\n\n")
	fmt.Fprintf(b, "**Total Leads**: %d\n**Hot Leads**: %d\n**Warm Leads**: %d\n", a.TotalLeads, a.HotLeads, a.WarmLeads)
	fmt.Fprintf(b, "**Conversion Rate**: %.1f%%\n**Average Lead Score**: %d\n\n", a.ConversionRate, a.AverageLeadScore)
	b.WriteString("**Top Competitors Mentioned:**\n")
	for _, c := range a.TopCompetitors {
		fmt.Fprintf(b, "• %s: %d mentions\n", c.Name, c.Mentions)
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Type: "analytics_results", Data: a}, nil
}

func (r *Router) scanPlatforms(ctx context.Context, _ string) (Reply, error) {
	res := r.scanner.Comprehensive(ctx)
	return Reply{
		Text: fmt.Sprintf("Comprehensive scan complete! I found %d new signals across all platforms:\n\n%s\n\n**Top Signals:**\n%s",
			res.Total, breakdown(res), summarize(res.Signals)),
		Type: "scan_results",
		Data: res,
	}, nil
}

// general forwards the message to the generator; its failure is not an error.
func (r *Router) general(ctx context.Context, msg string) (Reply, error) {
	out, err := r.gen.Generate(ctx, generalPreamble, msg)
	if err != nil {
		r.logger.Warn("chat: general query generation failed", "err", err)
		return Reply{Text: helpText, Type: "fallback"}, nil
	}
	return Reply{Text: out, Type: "general_response"}, nil
}

func nonNil(s []model.Signal) []model.Signal {
	if s == nil {
		return []model.Signal{}
	}
	return s
}
