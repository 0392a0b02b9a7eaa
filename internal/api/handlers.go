package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"leadscout/internal/model"
	"leadscout/internal/opportunity"
	"leadscout/internal/scan"
	"leadscout/internal/storage"
)

func signalID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal id"})
		return 0, false
	}
	return id, true
}

// loadSignal writes the error response itself when ok is false.
func (h *Handler) loadSignal(c *gin.Context) (model.Signal, bool) {
	id, ok := signalID(c)
	if !ok {
		return model.Signal{}, false
	}
	s, err := h.Store.Get(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Signal not found"})
		return model.Signal{}, false
	}
	if err != nil {
		h.Logger.Error("api: load signal failed", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch signal"})
		return model.Signal{}, false
	}
	return s, true
}

// ListSignals returns stored signals newest first, optionally filtered by
// platform and minimum priority. The limit counts matching signals.
func (h *Handler) ListSignals(c *gin.Context) {
	var f storage.Filter
	if q := c.Query("platform"); q != "" {
		p, ok := model.ParsePlatform(q)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform"})
			return
		}
		f.Platform = p
	}
	if q := c.Query("priority"); q != "" {
		p, ok := model.ParsePriority(q)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority"})
			return
		}
		f.MinPriority = p
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(storage.DefaultLimit)))
	signals, err := h.Store.List(c.Request.Context(), f, limit)
	if err != nil {
		h.Logger.Error("api: list signals failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch signals"})
		return
	}
	c.JSON(http.StatusOK, signals)
}

func (h *Handler) GetSignal(c *gin.Context) {
	s, ok := h.loadSignal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s)
}

type statusRequest struct {
	Status model.Status `json:"status" binding:"required"`
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := signalID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be new, contacted or responded"})
		return
	}
	err := h.Store.SetStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Signal not found"})
	case err != nil:
		h.Logger.Error("api: set status failed", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
	default:
		c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
	}
}

// Respond drafts outreach text for a signal and stores it.
func (h *Handler) Respond(c *gin.Context) {
	s, ok := h.loadSignal(c)
	if !ok {
		return
	}
	resp, draft, err := h.Outreach.Respond(c.Request.Context(), h.Store, s)
	if err != nil {
		h.Logger.Error("api: store response failed", "id", s.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate response"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            resp.ID,
		"signal_id":     resp.SignalID,
		"generated_at":  resp.GeneratedAt,
		"response_text": draft,
	})
}

func (h *Handler) ListResponses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(storage.DefaultLimit)))
	out, err := h.Store.ListResponses(c.Request.Context(), limit)
	if err != nil {
		h.Logger.Error("api: list responses failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch responses"})
		return
	}
	if out == nil {
		out = []model.OutreachResponse{}
	}
	c.JSON(http.StatusOK, out)
}

// Scan runs the quick scan, or the comprehensive one with ?mode=comprehensive.
func (h *Handler) Scan(c *gin.Context) {
	var res scan.Result
	switch c.DefaultQuery("mode", string(scan.ModeQuick)) {
	case string(scan.ModeQuick):
		res = h.Scanner.Quick(c.Request.Context())
	case string(scan.ModeComprehensive):
		res = h.Scanner.Comprehensive(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be quick or comprehensive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "results": res})
}

type searchRequest struct {
	Terms     []string `json:"terms" binding:"required,min=1"`
	Platforms []string `json:"platforms"`
}

// Search runs a keyword search on the searchable sources.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	platforms := model.Platforms
	if len(req.Platforms) > 0 {
		platforms = make([]model.Platform, 0, len(req.Platforms))
		for _, name := range req.Platforms {
			p, ok := model.ParsePlatform(name)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform " + name})
				return
			}
			platforms = append(platforms, p)
		}
	}
	res := h.Scanner.Search(c.Request.Context(), req.Terms, platforms...)
	signals := res.Signals
	if signals == nil {
		signals = []model.Signal{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "results": res, "signals": signals})
}

// LeadScore scores one signal and recommends a strategy.
func (h *Handler) LeadScore(c *gin.Context) {
	s, ok := h.loadSignal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	r := h.Engine.Score(ctx, s)
	c.JSON(http.StatusOK, gin.H{
		"signalId":    s.ID,
		"leadScore":   r.LeadScore,
		"persona":     r.Persona,
		"urgency":     r.Urgency,
		"competitors": r.CompetitorMentions,
		"breakdown":   r.Breakdown,
		"opportunity": opportunity.Classify(r.LeadScore),
		"strategy":    h.Outreach.Strategy(ctx, s, r.LeadScore, r.Persona, r.Urgency),
	})
}

const leadPreviewLen = 200

// ScoreAll scores every stored signal and partitions the leads.
func (h *Handler) ScoreAll(c *gin.Context) {
	ctx := c.Request.Context()
	signals, err := h.Store.ListAll(ctx, storage.DefaultLimit)
	if err != nil {
		h.Logger.Error("api: list signals failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to score leads"})
		return
	}
	p := h.Engine.ScoreAll(ctx, signals)
	c.JSON(http.StatusOK, gin.H{
		"totalLeads": len(p.All),
		"hotLeads":   previews(p.Hot),
		"warmLeads":  previews(p.Warm),
		"allLeads":   previews(p.All),
	})
}

func previews(leads []model.ScoredLead) []model.ScoredLead {
	out := make([]model.ScoredLead, len(leads))
	for i, l := range leads {
		if r := []rune(l.Content); len(r) > leadPreviewLen {
			l.Content = string(r[:leadPreviewLen]) + "..."
		}
		out[i] = l
	}
	return out
}

func (h *Handler) Analytics(c *gin.Context) {
	a, err := h.Engine.Analytics(c.Request.Context())
	if err != nil {
		h.Logger.Error("api: analytics failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales analytics"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) FlagshipAnalysis(c *gin.Context) {
	signals, err := h.Store.ListAll(c.Request.Context(), storage.DefaultLimit)
	if err != nil {
		h.Logger.Error("api: list signals failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze mentions"})
		return
	}
	c.JSON(http.StatusOK, h.Engine.MonitorFlagship(signals))
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	sess := h.Chatbot.Sessions().Get(req.SessionID)
	reply := h.Chatbot.Handle(c.Request.Context(), sess, msg)
	c.JSON(http.StatusOK, gin.H{"text": reply.Text, "type": reply.Type, "data": reply.Data, "sessionId": sess.ID})
}

func (h *Handler) ChatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.Chatbot.Sessions().Get(c.Query("session")).History())
}

func (h *Handler) ClearChatHistory(c *gin.Context) {
	h.Chatbot.Sessions().Get(c.Query("session")).Clear()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat history cleared"})
}
