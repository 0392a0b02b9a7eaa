package chat

import "strings"

// Intent is one routable capability and the phrases that select it.
type Intent struct {
	Name     string
	Keywords []string
}

const GeneralQuery = "general_query"

// Intents is the routing table. Order is precedence: the first intent with a
// keyword contained in the message wins.
var Intents = []Intent{
	{"linkedin_signals", []string{"linkedin", "linkedin signals", "linkedin posts", "linkedin leads", "show me linkedin"}},
	{"linkedin_search", []string{"search linkedin", "find linkedin", "linkedin mentions"}},
	{"twitter_signals", []string{"twitter", "x signals", "twitter posts", "twitter mentions", "show me twitter", "x posts"}},
	{"twitter_search", []string{"search twitter", "find twitter", "twitter mentions", "x mentions"}},
	{"tinygrad_search", []string{"tinygrad", "find tinygrad", "tinygrad mentions", "search tinygrad", "tinygrad signals"}},
	{"tinygrad_analysis", []string{"tinygrad analysis", "analyze tinygrad", "tinygrad sentiment", "tinygrad trends"}},
	{"score_leads", []string{"score leads", "lead scoring", "ai scoring", "rank leads", "prioritize leads"}},
	{"high_priority", []string{"high priority", "hot leads", "urgent leads", "highest priority", "important leads"}},
	{"decision_makers", []string{"decision makers", "ctos", "vps", "directors", "managers", "executives"}},
	{"budget_leads", []string{"budget", "cost conscious", "cheap", "affordable", "budget constraints", "expensive"}},
	{"alternatives", []string{"alternatives", "nvidia alternatives", "gpu alternatives", "competitors", "options"}},
	{"show_signals", []string{"show signals", "all signals", "recent signals", "latest signals", "signals"}},
	{"analytics", []string{"analytics", "stats", "statistics", "performance", "metrics"}},
	{"scan_platforms", []string{"scan", "search platforms", "find leads", "scrape", "get signals"}},
}

// Recognize returns the intent name for msg, or GeneralQuery.
func Recognize(msg string) string {
	m := strings.ToLower(msg)
	for _, in := range Intents {
		for _, k := range in.Keywords {
			if strings.Contains(m, k) {
				return in.Name
			}
		}
	}
	return GeneralQuery
}
