// Package opportunity maps a lead score to a sales opportunity tier.
package opportunity

// Tier is a fixed sales recommendation.
type Tier struct {
	Type     string `json:"type"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
	Timeline string `json:"timeline"`
	Approach string `json:"approach"`
}

var (
	Hot = Tier{
		Type:     "Hot Lead",
		Action:   "Immediate Outreach",
		Priority: "Highest",
		Timeline: "Within 24 hours",
		Approach: "Direct technical discussion",
	}
	Warm = Tier{
		Type:     "Warm Lead",
		Action:   "Engage with Value",
		Priority: "High",
		Timeline: "Within 48 hours",
		Approach: "Educational content + soft pitch",
	}
	Qualified = Tier{
		Type:     "Qualified Prospect",
		Action:   "Nurture Campaign",
		Priority: "Medium",
		Timeline: "Within 1 week",
		Approach: "Content marketing + follow",
	}
	Cold = Tier{
		Type:     "Cold Prospect",
		Action:   "Monitor",
		Priority: "Low",
		Timeline: "Monitor for changes",
		Approach: "Add to nurture sequence",
	}
)

// Classify returns the tier for score.
func Classify(score int) Tier {
	switch {
	case score >= 150:
		return Hot
	case score >= 100:
		return Warm
	case score >= 50:
		return Qualified
	default:
		return Cold
	}
}
