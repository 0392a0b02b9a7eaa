// Package chat routes free-text questions to scans, scoring and signal queries.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/panics"

	"leadscout/internal/ai"
	"leadscout/internal/leadscore"
	"leadscout/internal/model"
	"leadscout/internal/scan"
	"leadscout/internal/storage"
)

// Reply is what the router returns for one message.
type Reply struct {
	Text string `json:"text"`
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ApologyText is shown for any handler failure.
const ApologyText = "I apologize, but I encountered an error while processing your request. Please try again or rephrase your question."

// HandlerError is a failure inside an intent handler. Message, when set,
// replaces the generic apology shown to the user.
type HandlerError struct {
	Intent  string
	Message string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("chat: %s: %v", e.Intent, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Scanner is the part of the scan orchestrator the router drives.
type Scanner interface {
	Source(ctx context.Context, p model.Platform) scan.Result
	Search(ctx context.Context, terms []string, platforms ...model.Platform) scan.Result
	Comprehensive(ctx context.Context) scan.Result
}

type handler func(ctx context.Context, msg string) (Reply, error)

// Router dispatches messages through the intent table.
type Router struct {
	scanner Scanner
	store   storage.Store
	engine  *leadscore.Engine
	gen     ai.Generator
	logger  *slog.Logger

	sessions *Sessions
	handlers map[string]handler
}

// NewRouter wires the collaborators. A nil gen makes general queries use the help text.
func NewRouter(scanner Scanner, store storage.Store, engine *leadscore.Engine, gen ai.Generator, logger *slog.Logger) *Router {
	if gen == nil {
		gen = ai.Unavailable{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		scanner:  scanner,
		store:    store,
		engine:   engine,
		gen:      gen,
		logger:   logger,
		sessions: NewSessions(),
	}
	r.handlers = map[string]handler{
		"linkedin_signals":  r.social(model.PlatformLinkedIn),
		"linkedin_search":   r.social(model.PlatformLinkedIn),
		"twitter_signals":   r.social(model.PlatformTwitter),
		"twitter_search":    r.social(model.PlatformTwitter),
		"tinygrad_search":   r.flagship,
		"tinygrad_analysis": r.flagship,
		"score_leads":       r.scoreLeads,
		"high_priority":     r.highPriority,
		"decision_makers":   r.filtered("decision_maker_results", "signals from potential decision makers", decisionTerms, true),
		"budget_leads":      r.filtered("budget_results", "budget-conscious leads", budgetTerms, false),
		"alternatives":      r.filtered("alternatives_results", "people looking for alternatives", alternativeTerms, false),
		"show_signals":      r.recentSignals,
		"analytics":         r.analytics,
		"scan_platforms":    r.scanPlatforms,
		GeneralQuery:        r.general,
	}
	return r
}

// Sessions exposes the router's session index.
func (r *Router) Sessions() *Sessions { return r.sessions }

// Handle answers msg within sess (the default session when nil). It never
// fails: handler errors and panics become an apology reply of type "error".
func (r *Router) Handle(ctx context.Context, sess *Session, msg string) Reply {
	if sess == nil {
		sess = r.sessions.Get("")
	}
	sess.append(RoleUser, msg, "")

	intent := Recognize(msg)
	r.logger.Debug("chat: intent recognized", "intent", intent, "session", sess.ID)

	var (
		reply Reply
		err   error
		pc    panics.Catcher
	)
	pc.Try(func() { reply, err = r.handlers[intent](ctx, msg) })
	if rec := pc.Recovered(); rec != nil {
		err = rec.AsError()
	}
	if err != nil {
		reply = r.failure(intent, err)
	}

	sess.append(RoleAssistant, reply.Text, reply.Type)
	return reply
}

func (r *Router) failure(intent string, err error) Reply {
	var he *HandlerError
	if !errors.As(err, &he) {
		he = &HandlerError{Intent: intent, Err: err}
	}
	r.logger.Error("chat: handler failed", "intent", intent, "err", he)
	text := ApologyText
	if he.Message != "" {
		text = he.Message
	}
	return Reply{Text: text, Type: "error"}
}
