package leadscore

import (
	"leadscout/internal/model"
	"leadscout/internal/textmatch"
)

// Sentiment counts signals by word-list polarity.
type Sentiment struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// FlagshipReport summarizes the signals mentioning the flagship project.
type FlagshipReport struct {
	TotalMentions         int            `json:"totalMentions"`
	Sentiment             Sentiment      `json:"sentiment"`
	Mentions              []model.Signal `json:"-"`
	CompetitorComparisons []model.Signal `json:"competitorComparisons"`
	TechnicalDiscussions  []model.Signal `json:"technicalDiscussions"`
	BusinessOpportunities []model.Signal `json:"businessOpportunities"`
}

// MonitorFlagship filters signals whose content mentions the flagship term
// and classifies them with the fixed word lists.
func (e *Engine) MonitorFlagship(signals []model.Signal) FlagshipReport {
	sr := e.rules.Sentiment
	rep := FlagshipReport{
		Mentions:              []model.Signal{},
		CompetitorComparisons: []model.Signal{},
		TechnicalDiscussions:  []model.Signal{},
		BusinessOpportunities: []model.Signal{},
	}
	for _, s := range signals {
		if !textmatch.Any(s.Content, []string{e.rules.Flagship.Term}) {
			continue
		}
		rep.Mentions = append(rep.Mentions, s)

		pos := textmatch.Count(s.Content, sr.Positive)
		neg := textmatch.Count(s.Content, sr.Negative)
		switch {
		case pos > neg:
			rep.Sentiment.Positive++
		case neg > pos:
			rep.Sentiment.Negative++
		default:
			rep.Sentiment.Neutral++
		}

		if textmatch.Any(s.Content, sr.Comparison) {
			rep.CompetitorComparisons = append(rep.CompetitorComparisons, s)
		}
		if textmatch.Any(s.Content, sr.Technical) {
			rep.TechnicalDiscussions = append(rep.TechnicalDiscussions, s)
		}
		if textmatch.Any(s.Content, sr.Business) {
			rep.BusinessOpportunities = append(rep.BusinessOpportunities, s)
		}
	}
	rep.TotalMentions = len(rep.Mentions)
	return rep
}
