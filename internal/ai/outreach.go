package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadscout/internal/model"
	"leadscout/internal/opportunity"
)

// Product is the offering outreach text is written for.
const Product = "Tenstorrent"

// Draft is generated outreach material for one discussion.
type Draft struct {
	Analysis string `json:"analysis"`
	Response string `json:"response"`
	Context  string `json:"context"`
	Fallback bool   `json:"fallback"`
}

var (
	analysisPrompt = `You are a ` + Product + ` AI sales analyst. Analyze how this discussion relates to ` + Product + `'s AI hardware.
Cover the pain points mentioned (cost, performance, availability), how an open-source approach addresses them,
the selling points that fit this situation and likely objections. Answer in 2-3 sentences.`

	responsePrompt = `You are a ` + Product + ` sales representative. Write a natural reply to this discussion that
addresses the pain points mentioned, mentions ` + Product + `'s open-source AI hardware and ends with a soft,
conversational call to action. Sound like a helpful colleague, not a salesperson.`

	contextPrompt = `You are a sales strategist. From this discussion give practical context for outreach:
the best first contact, what to emphasize in follow-up, resources to offer and timeline considerations.`

	strategyPrompt = `Generate a personalized sales outreach strategy for this lead. Include a subject line,
a 2-3 sentence opening, a value proposition for their pain point, a call to action, a follow-up plan and
technical talking points. Focus on ` + Product + `'s open-source approach.`
)

// Outreach drafts sales text through a Generator, falling back to canned text.
type Outreach struct {
	gen    Generator
	logger *slog.Logger
}

// NewOutreach returns an Outreach. A nil gen always uses the fallback.
func NewOutreach(gen Generator, logger *slog.Logger) *Outreach {
	if gen == nil {
		gen = Unavailable{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Outreach{gen: gen, logger: logger}
}

// Generator returns the underlying collaborator.
func (o *Outreach) Generator() Generator { return o.gen }

// Draft produces analysis, response and context for content. Any generation
// failure yields the full fallback triple, never a mix.
func (o *Outreach) Draft(ctx context.Context, content string) Draft {
	discussion := fmt.Sprintf("Discussion: %q", content)
	var d Draft
	steps := []struct {
		prompt string
		dst    *string
	}{
		{analysisPrompt, &d.Analysis},
		{responsePrompt, &d.Response},
		{contextPrompt, &d.Context},
	}
	for _, st := range steps {
		out, err := o.gen.Generate(ctx, st.prompt, discussion)
		if err != nil {
			o.logger.Warn("ai: outreach draft failed, using fallback", "err", err)
			return Fallback(content)
		}
		*st.dst = out
	}
	return d
}

// Fallback returns the rule-based triple for content.
func Fallback(content string) Draft {
	c := strings.ToLower(content)
	switch {
	case containsAny(c, "expensive", "cost", "budget", "price"):
		return Draft{
			Analysis: "Strong cost-focused opportunity. The discussion highlights budget constraints that " + Product + "'s transparent pricing directly addresses.",
			Response: "If budget is a concern, " + Product + "'s open-source AI hardware might be worth exploring as a cost-effective alternative to premium GPU pricing. Happy to share some cost comparisons if that helps.",
			Context:  "Lead with pricing transparency and cost savings. Offer a detailed cost analysis and ROI numbers.",
			Fallback: true,
		}
	case containsAny(c, "performance", "slow", "bottleneck"):
		return Draft{
			Analysis: "Performance-focused opportunity. The author is hitting limits that " + Product + "'s architecture could address.",
			Response: "Have you looked at " + Product + "? Its open-source AI architecture offers competitive performance with more transparent pricing than the usual GPU vendors. Glad to talk through how it might fit your performance needs.",
			Context:  "Focus on technical performance. Offer benchmarks and a technical deep-dive session.",
			Fallback: true,
		}
	case containsAny(c, "shortage", "waitlist", "backorder", "availability"):
		return Draft{
			Analysis: "Availability-driven opportunity. Supply issues with incumbent vendors open the door for " + Product + ".",
			Response: "While GPUs are hard to get right now, " + Product + "'s AI hardware might fit your timeline and requirements better. Worth a look if you are exploring alternatives.",
			Context:  "Emphasize availability and delivery timelines. Highlight supply chain advantages.",
			Fallback: true,
		}
	}
	return Draft{
		Analysis: "This discussion is an opportunity to introduce " + Product + "'s open-source AI hardware as an alternative to traditional GPU vendors.",
		Response: Product + "'s open-source AI hardware could be an interesting alternative. The focus is transparent pricing and accessible AI compute.",
		Context:  "Reach out with technical documentation and cost comparison data. Follow up with benchmarks relevant to their use case.",
		Fallback: true,
	}
}

// Strategy is the recommended outreach for a scored lead.
type Strategy struct {
	opportunity.Tier
	Urgency    model.Urgency `json:"urgency,omitempty"`
	Persona    string        `json:"persona,omitempty"`
	AIStrategy string        `json:"aiStrategy,omitempty"`
}

// Strategy classifies score into a tier and asks the generator for a plan.
// On generation failure only the tier is returned.
func (o *Outreach) Strategy(ctx context.Context, s model.Signal, score int, persona string, urgency model.Urgency) Strategy {
	tier := opportunity.Classify(score)
	lead := fmt.Sprintf("Signal: %q\nAuthor: %s\nPlatform: %s\nLead Score: %d\nPersona: %s\nUrgency: %s\nOpportunity Type: %s",
		s.Content, s.Author, s.Platform, score, persona, urgency, tier.Type)
	out, err := o.gen.Generate(ctx, strategyPrompt, lead)
	if err != nil {
		o.logger.Warn("ai: strategy generation failed", "id", s.ID, "err", err)
		return Strategy{Tier: tier}
	}
	return Strategy{Tier: tier, Urgency: urgency, Persona: persona, AIStrategy: out}
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// ResponseStore persists generated outreach text.
type ResponseStore interface {
	InsertResponse(ctx context.Context, signalID int64, text string) (int64, error)
}

// Respond drafts outreach for s and stores the draft, JSON encoded, as a response.
func (o *Outreach) Respond(ctx context.Context, store ResponseStore, s model.Signal) (model.OutreachResponse, Draft, error) {
	d := o.Draft(ctx, s.Content)
	text, err := json.Marshal(d)
	if err != nil {
		return model.OutreachResponse{}, d, err
	}
	id, err := store.InsertResponse(ctx, s.ID, string(text))
	if err != nil {
		return model.OutreachResponse{}, d, fmt.Errorf("ai: store response for signal %d: %w", s.ID, err)
	}
	return model.OutreachResponse{
		ID:             id,
		SignalID:       s.ID,
		Text:           string(text),
		GeneratedAt:    time.Now().UTC(),
		SignalTitle:    s.Title,
		SignalPlatform: s.Platform,
	}, d, nil
}
