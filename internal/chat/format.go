package chat

import (
	"fmt"
	"strings"

	"leadscout/internal/model"
	"leadscout/internal/scan"
)

const summaryCount = 5

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// summarize renders the first five signals.
func summarize(signals []model.Signal) string {
	parts := make([]string, 0, summaryCount)
	for i, s := range signals {
		if i == summaryCount {
			break
		}
		parts = append(parts, fmt.Sprintf("%d. **%s** - %s\n   \"%s...\"\n   Priority: %s | %d comments",
			i+1, s.Platform, s.Author, truncate(s.Content, 100), s.Priority, s.CommentCount))
	}
	return strings.Join(parts, "\n\n")
}

func summarizeLeads(leads []model.ScoredLead) string {
	parts := make([]string, 0, summaryCount)
	for i, l := range leads {
		if i == summaryCount {
			break
		}
		parts = append(parts, fmt.Sprintf("%d. **%d points** - %s (%s)\n   \"%s...\"\n   Urgency: %s",
			i+1, l.LeadScore, l.Author, l.Persona, truncate(l.Content, 80), l.Urgency))
	}
	return strings.Join(parts, "\n\n")
}

// breakdown lists per-platform counts in scan order.
func breakdown(res scan.Result) string {
	var lines []string
	for _, p := range model.Platforms {
		n, ok := res.PerSource[p.Key()]
		if !ok {
			continue
		}
		line := fmt.Sprintf("• **%s**: %d signals", p, n)
		if reason, failed := res.Failed[p.Key()]; failed {
			line += " (failed: " + reason + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
