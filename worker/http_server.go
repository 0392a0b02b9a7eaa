package worker

import (
	"context"
	"net/http"

	"leadscout/internal/api"
)

// HTTPServer serves the API until the context is cancelled.
type HTTPServer struct {
	Addr    string
	Handler http.Handler
}

func (w *HTTPServer) Start(ctx context.Context) error {
	return api.Serve(ctx, w.Addr, w.Handler)
}
