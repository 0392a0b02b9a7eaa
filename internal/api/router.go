// Package api exposes signals, scans, scoring and chat over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leadscout/internal/ai"
	"leadscout/internal/chat"
	"leadscout/internal/leadscore"
	"leadscout/internal/model"
	"leadscout/internal/scan"
	"leadscout/internal/storage"
)

// Scanner is the part of the scan orchestrator the API triggers.
type Scanner interface {
	Quick(ctx context.Context) scan.Result
	Comprehensive(ctx context.Context) scan.Result
	Search(ctx context.Context, terms []string, platforms ...model.Platform) scan.Result
}

// Deps are the collaborators behind the routes.
type Deps struct {
	Store    storage.Store
	Scanner  Scanner
	Engine   *leadscore.Engine
	Outreach *ai.Outreach
	Chatbot  *chat.Router
	Logger   *slog.Logger
}

type Handler struct {
	Deps
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	h := &Handler{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v := r.Group("/api")
	{
		v.GET("/signals", h.ListSignals)
		v.GET("/signals/:id", h.GetSignal)
		v.PATCH("/signals/:id/status", h.SetStatus)
		v.POST("/signals/:id/respond", h.Respond)
		v.GET("/responses", h.ListResponses)

		v.POST("/scan", h.Scan)
		v.POST("/search", h.Search)

		v.GET("/lead-score/:id", h.LeadScore)
		v.POST("/score-all-leads", h.ScoreAll)
		v.GET("/sales-analytics", h.Analytics)
		v.GET("/tinygrad-analysis", h.FlagshipAnalysis)

		v.POST("/chat", h.Chat)
		v.GET("/chat/history", h.ChatHistory)
		v.DELETE("/chat/history", h.ClearChatHistory)
	}
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("api: request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Millisecond),
		)
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
