package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/ai"
	"leadscout/internal/chat"
	"leadscout/internal/leadscore"
	"leadscout/internal/model"
	"leadscout/internal/scan"
	"leadscout/internal/storage"
)

const exampleContent = "We love tinygrad's performance vs pytorch but the budget for NVIDIA H100s is too expensive for our startup, our VP of Engineering approved switching"

type fakeScanner struct {
	modes []scan.Mode
}

func (f *fakeScanner) result(m scan.Mode) scan.Result {
	f.modes = append(f.modes, m)
	return scan.Result{Mode: m, PerSource: map[string]int{"reddit": 2}, Total: 2, HighPriority: 1}
}

func (f *fakeScanner) Quick(context.Context) scan.Result         { return f.result(scan.ModeQuick) }
func (f *fakeScanner) Comprehensive(context.Context) scan.Result { return f.result(scan.ModeComprehensive) }
func (f *fakeScanner) Search(context.Context, []string, ...model.Platform) scan.Result {
	return f.result(scan.ModeSearch)
}
func (f *fakeScanner) Source(_ context.Context, p model.Platform) scan.Result {
	f.modes = append(f.modes, scan.ModeSource)
	return scan.Result{Signals: []model.Signal{{Platform: p, Author: "a", Content: "AI chips"}}}
}

type apiFixture struct {
	router  *gin.Engine
	store   *storage.MemoryStore
	scanner *fakeScanner
	ids     []int64
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStore()
	sc := &fakeScanner{}
	engine := leadscore.NewEngine(nil, nil, logger)

	f := &apiFixture{store: store, scanner: sc}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, s := range []model.Signal{
		{Platform: model.PlatformHackerNews, Title: "hn", Content: exampleContent, Author: "x", Priority: model.PriorityHigh},
		{Platform: model.PlatformReddit, Title: "r", Content: "AMD GPUs for training", Author: "y", Priority: model.PriorityMedium},
	} {
		s.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		id, err := store.Insert(context.Background(), &s)
		require.NoError(t, err)
		f.ids = append(f.ids, id)
	}

	f.router = NewRouter(Deps{
		Store:    store,
		Scanner:  sc,
		Engine:   engine,
		Outreach: ai.NewOutreach(nil, logger),
		Chatbot:  chat.NewRouter(sc, store, engine, nil, logger),
		Logger:   logger,
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListSignalsFilters(t *testing.T) {
	f := newFixture(t)

	all := decode[[]model.Signal](t, f.do(t, http.MethodGet, "/api/signals", nil))
	require.Len(t, all, 2)
	assert.Equal(t, model.PlatformReddit, all[0].Platform, "newest first")

	hn := decode[[]model.Signal](t, f.do(t, http.MethodGet, "/api/signals?platform=hn", nil))
	require.Len(t, hn, 1)
	assert.Equal(t, model.PlatformHackerNews, hn[0].Platform)

	high := decode[[]model.Signal](t, f.do(t, http.MethodGet, "/api/signals?priority=high", nil))
	assert.Len(t, high, 1)

	w := f.do(t, http.MethodGet, "/api/signals?platform=myspace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSignalsLimitCountsMatches(t *testing.T) {
	f := newFixture(t)

	// the newest signal is medium, so the only high one sits past limit=1
	high := decode[[]model.Signal](t, f.do(t, http.MethodGet, "/api/signals?priority=HIGH&limit=1", nil))
	require.Len(t, high, 1)
	assert.Equal(t, f.ids[0], high[0].ID)

	hn := decode[[]model.Signal](t, f.do(t, http.MethodGet, "/api/signals?platform=hackernews&limit=1", nil))
	require.Len(t, hn, 1)
	assert.Equal(t, model.PlatformHackerNews, hn[0].Platform)
}

func TestListSignalsRejectsUnknownPriority(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/signals?priority=urgent", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown priority")
}

func TestGetSignalErrors(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/signals/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/signals/12345", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/signals/"+strconv.FormatInt(f.ids[0], 10), nil).Code)
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	path := "/api/signals/" + strconv.FormatInt(f.ids[0], 10) + "/status"

	w := f.do(t, http.MethodPatch, path, map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s, err := f.store.Get(context.Background(), f.ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.StatusContacted, s.Status)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPatch, path, map[string]string{"status": "won"}).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPatch, "/api/signals/99/status", map[string]string{"status": "new"}).Code)
}

func TestRespondStoresResponse(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/signals/"+strconv.FormatInt(f.ids[0], 10)+"/respond", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		ResponseText ai.Draft `json:"response_text"`
	}](t, w)
	assert.True(t, body.ResponseText.Fallback)
	assert.Contains(t, body.ResponseText.Analysis, "cost-focused")

	responses := decode[[]model.OutreachResponse](t, f.do(t, http.MethodGet, "/api/responses", nil))
	require.Len(t, responses, 1)
	assert.Equal(t, f.ids[0], responses[0].SignalID)
}

func TestScanModes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/scan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Success bool        `json:"success"`
		Results scan.Result `json:"results"`
	}](t, w)
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Results.Total)
	assert.Equal(t, 1, body.Results.HighPriority)
	assert.Equal(t, 2, body.Results.PerSource["reddit"])

	f.do(t, http.MethodPost, "/api/scan?mode=comprehensive", nil)
	assert.Equal(t, []scan.Mode{scan.ModeQuick, scan.ModeComprehensive}, f.scanner.modes)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/scan?mode=slow", nil).Code)
}

func TestSearchValidates(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/search", map[string]any{"terms": []string{}}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/search", map[string]any{"terms": []string{"x"}, "platforms": []string{"bogus"}}).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/search", map[string]any{"terms": []string{"tinygrad"}}).Code)
}

func TestLeadScore(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/lead-score/"+strconv.FormatInt(f.ids[0], 10), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		LeadScore   int               `json:"leadScore"`
		Opportunity map[string]string `json:"opportunity"`
		Strategy    map[string]any    `json:"strategy"`
	}](t, w)
	assert.Equal(t, 423, body.LeadScore)
	assert.Equal(t, "Hot Lead", body.Opportunity["type"])
	assert.Equal(t, "Hot Lead", body.Strategy["type"])
}

func TestScoreAllAndAnalytics(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/score-all-leads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		TotalLeads int                `json:"totalLeads"`
		HotLeads   []model.ScoredLead `json:"hotLeads"`
		AllLeads   []model.ScoredLead `json:"allLeads"`
	}](t, w)
	assert.Equal(t, 2, body.TotalLeads)
	require.Len(t, body.HotLeads, 1)
	assert.Equal(t, 423, body.HotLeads[0].LeadScore)
	assert.Equal(t, 423, body.AllLeads[0].LeadScore)

	a := decode[leadscore.Analytics](t, f.do(t, http.MethodGet, "/api/sales-analytics", nil))
	assert.Equal(t, 2, a.TotalLeads)
	assert.Equal(t, 1, a.HotLeads)
}

func TestChatEndpoints(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "   "}).Code)

	w := f.do(t, http.MethodPost, "/api/chat", map[string]string{"message": "show me linkedin signals"})
	require.Equal(t, http.StatusOK, w.Code)
	reply := decode[struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}](t, w)
	assert.Equal(t, "linkedin_results", reply.Type)
	assert.Equal(t, chat.DefaultSessionID, reply.SessionID)

	history := decode[[]chat.Turn](t, f.do(t, http.MethodGet, "/api/chat/history", nil))
	assert.Len(t, history, 2)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/chat/history", nil).Code)
	history = decode[[]chat.Turn](t, f.do(t, http.MethodGet, "/api/chat/history", nil))
	assert.Empty(t, history)
}
