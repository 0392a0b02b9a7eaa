package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"leadscout/internal/ai"
	"leadscout/internal/leadscore"
	"leadscout/internal/model"
	"leadscout/internal/scan"
	"leadscout/internal/storage"
	storagemocks "leadscout/internal/storage/mocks"
)

type fakeScanner struct {
	source   map[model.Platform][]model.Signal
	search   []model.Signal
	panicOn  model.Platform
	sources  []model.Platform
	searches [][]string
}

func (f *fakeScanner) Source(_ context.Context, p model.Platform) scan.Result {
	if p == f.panicOn {
		panic("adapter exploded")
	}
	f.sources = append(f.sources, p)
	sigs := f.source[p]
	return scan.Result{PerSource: map[string]int{p.Key(): len(sigs)}, Total: len(sigs), Signals: sigs}
}

func (f *fakeScanner) Search(_ context.Context, terms []string, _ ...model.Platform) scan.Result {
	f.searches = append(f.searches, terms)
	return scan.Result{Total: len(f.search), Signals: f.search}
}

func (f *fakeScanner) Comprehensive(context.Context) scan.Result {
	return scan.Result{
		PerSource: map[string]int{"reddit": 1, "linkedin": 0},
		Failed:    map[string]string{"linkedin": "boom"},
		Total:     1,
		Signals:   []model.Signal{{Platform: model.PlatformReddit, Author: "a", Content: "x"}},
	}
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, string) (string, error) {
	return "", ai.ErrGenerationFailed
}

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, _ string, msg string) (string, error) {
	return "echo: " + msg, nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(t *testing.T, sc Scanner, store storage.Store, gen ai.Generator) *Router {
	t.Helper()
	return NewRouter(sc, store, leadscore.NewEngine(nil, nil, quiet), gen, quiet)
}

func seed(t *testing.T, store storage.Store, sigs ...model.Signal) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range sigs {
		if sigs[i].CreatedAt.IsZero() {
			sigs[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		}
		_, err := store.Insert(context.Background(), &sigs[i])
		require.NoError(t, err)
	}
}

func TestRecognize(t *testing.T) {
	cases := map[string]string{
		"show me linkedin signals":  "linkedin_signals",
		"Search LinkedIn please":    "linkedin_signals",
		"any x posts today?":        "twitter_signals",
		"Find TINYGRAD mentions":    "tinygrad_search",
		"score leads":               "score_leads",
		"show hot leads":            "high_priority",
		"who are the CTOs":          "decision_makers",
		"it is too expensive":       "budget_leads",
		"gpu alternatives":          "alternatives",
		"latest signals":            "show_signals",
		"give me stats":             "analytics",
		"run a scan":                "scan_platforms",
		"":                          GeneralQuery,
		"hello, what can you do?":   GeneralQuery,
	}
	for msg, want := range cases {
		assert.Equal(t, want, Recognize(msg), "message %q", msg)
	}
}

func TestLinkedInSignalsRouteToLinkedInHandler(t *testing.T) {
	sc := &fakeScanner{source: map[model.Platform][]model.Signal{
		model.PlatformLinkedIn: {
			{Platform: model.PlatformLinkedIn, Author: "cto", Content: "evaluating AI chips", Priority: model.PriorityHigh},
			{Platform: model.PlatformLinkedIn, Author: "vp", Content: "GPU budget", Priority: model.PriorityMedium},
		},
	}}
	r := newRouter(t, sc, storage.NewMemoryStore(), failingGenerator{})

	reply := r.Handle(context.Background(), nil, "show me linkedin signals")
	assert.Equal(t, "linkedin_results", reply.Type)
	assert.Contains(t, reply.Text, "I found 2 LinkedIn signals!")
	assert.Len(t, reply.Data, 2)
	assert.Equal(t, []model.Platform{model.PlatformLinkedIn}, sc.sources)
	assert.Empty(t, sc.searches)
}

func TestSocialFallsBackToSearch(t *testing.T) {
	sc := &fakeScanner{search: []model.Signal{{Platform: model.PlatformReddit, Author: "u", Content: "nvidia alternatives?"}}}
	r := newRouter(t, sc, storage.NewMemoryStore(), nil)

	reply := r.Handle(context.Background(), nil, "twitter")
	assert.Equal(t, "twitter_results", reply.Type)
	assert.Contains(t, reply.Text, "1 Twitter/X signals through keyword search")
	require.Len(t, sc.searches, 1)
	assert.Equal(t, socialFallbackTerms[model.PlatformTwitter], sc.searches[0])
}

func TestGeneralQueryFallsBackWhenGeneratorFails(t *testing.T) {
	r := newRouter(t, &fakeScanner{}, storage.NewMemoryStore(), failingGenerator{})
	sess := NewSession()

	reply := r.Handle(context.Background(), sess, "")
	assert.Equal(t, "fallback", reply.Type)
	assert.Equal(t, helpText, reply.Text)

	h := sess.History()
	require.Len(t, h, 2)
	assert.Equal(t, RoleUser, h[0].Role)
	assert.Equal(t, RoleAssistant, h[1].Role)
	assert.Equal(t, "fallback", h[1].Type)
}

func TestGeneralQueryReturnsGeneratorOutput(t *testing.T) {
	r := newRouter(t, &fakeScanner{}, storage.NewMemoryStore(), echoGenerator{})
	reply := r.Handle(context.Background(), nil, "hello")
	assert.Equal(t, Reply{Text: "echo: hello", Type: "general_response"}, reply)
}

func TestHandlerErrorBecomesApology(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storagemocks.NewMockStore(ctrl)
	store.EXPECT().ListAll(gomock.Any(), recentLimit).Return(nil, errors.New("db down"))

	r := newRouter(t, &fakeScanner{}, store, nil)
	reply := r.Handle(context.Background(), nil, "show signals")
	assert.Equal(t, Reply{Text: ApologyText, Type: "error"}, reply)
}

func TestHandlerPanicBecomesApology(t *testing.T) {
	r := newRouter(t, &fakeScanner{panicOn: model.PlatformLinkedIn}, storage.NewMemoryStore(), nil)
	var reply Reply
	require.NotPanics(t, func() { reply = r.Handle(context.Background(), nil, "linkedin") })
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, ApologyText, reply.Text)
}

func TestFilteredHandlers(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store,
		model.Signal{Platform: model.PlatformReddit, Author: "Director of ML", Content: "chips"},
		model.Signal{Platform: model.PlatformReddit, Author: "dev", Content: "H100 price is wild"},
		model.Signal{Platform: model.PlatformReddit, Author: "dev", Content: "looking to switch from CUDA", Priority: model.PriorityHighest},
	)
	r := newRouter(t, &fakeScanner{}, store, nil)
	ctx := context.Background()

	dm := r.Handle(ctx, nil, "decision makers")
	assert.Equal(t, "decision_maker_results", dm.Type)
	assert.Len(t, dm.Data, 1)

	budget := r.Handle(ctx, nil, "budget")
	assert.Equal(t, "budget_results", budget.Type)
	assert.Len(t, budget.Data, 1)

	alt := r.Handle(ctx, nil, "alternatives")
	assert.Equal(t, "alternatives_results", alt.Type)
	assert.Len(t, alt.Data, 1)

	hp := r.Handle(ctx, nil, "high priority")
	assert.Equal(t, "high_priority_results", hp.Type)
	assert.Len(t, hp.Data, 1)
}

func TestScoreLeads(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store,
		model.Signal{Platform: model.PlatformHackerNews, Author: "x", Content: "We love tinygrad's performance vs pytorch but the budget for NVIDIA H100s is too expensive for our startup, our VP of Engineering approved switching"},
		model.Signal{Platform: model.PlatformReddit, Author: "y", Content: "nothing relevant"},
	)
	r := newRouter(t, &fakeScanner{}, store, nil)

	reply := r.Handle(context.Background(), nil, "score leads")
	require.Equal(t, "lead_scoring_results", reply.Type)
	p, ok := reply.Data.(leadscore.Partition)
	require.True(t, ok)
	assert.Len(t, p.All, 2)
	assert.Len(t, p.Hot, 1)
	assert.Contains(t, reply.Text, "**Hot Leads**: 1")
}

func TestFlagshipSearchesWhenNothingStored(t *testing.T) {
	sc := &fakeScanner{search: []model.Signal{{Platform: model.PlatformHackerNews, Author: "a", Content: "tinygrad 1.0"}}}
	r := newRouter(t, sc, storage.NewMemoryStore(), nil)

	reply := r.Handle(context.Background(), nil, "find tinygrad")
	assert.Equal(t, "tinygrad_results", reply.Type)
	require.Len(t, sc.searches, 1)
	assert.Equal(t, []string{"tinygrad"}, sc.searches[0])
}

func TestFlagshipAnalysisFromStore(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, model.Signal{Platform: model.PlatformReddit, Author: "a", Content: "tinygrad is fast"})
	r := newRouter(t, &fakeScanner{}, store, nil)

	reply := r.Handle(context.Background(), nil, "tinygrad")
	assert.Equal(t, "tinygrad_analysis", reply.Type)
	assert.Contains(t, reply.Text, "1 positive")
}

func TestScanPlatforms(t *testing.T) {
	r := newRouter(t, &fakeScanner{}, storage.NewMemoryStore(), nil)
	reply := r.Handle(context.Background(), nil, "scan everything")
	assert.Equal(t, "scan_results", reply.Type)
	assert.Contains(t, reply.Text, "• **Reddit**: 1 signals")
	assert.Contains(t, reply.Text, "• **LinkedIn**: 0 signals (failed: boom)")
}

func TestAnalyticsReply(t *testing.T) {
	r := newRouter(t, &fakeScanner{}, storage.NewMemoryStore(), nil)
	reply := r.Handle(context.Background(), nil, "analytics")
	assert.Equal(t, "analytics_results", reply.Type)
	assert.Contains(t, reply.Text, "**Total Leads**: 0")
}

func TestSessions(t *testing.T) {
	ss := NewSessions()
	def := ss.Get("")
	assert.Equal(t, DefaultSessionID, def.ID)
	assert.Same(t, def, ss.Get(DefaultSessionID))

	fresh := ss.New()
	assert.NotEqual(t, DefaultSessionID, fresh.ID)
	assert.Same(t, fresh, ss.Get(fresh.ID))

	def.append(RoleUser, "hi", "")
	def.Clear()
	assert.Empty(t, def.History())

	ss.Delete(fresh.ID)
	assert.NotSame(t, fresh, ss.Get(fresh.ID))
}
