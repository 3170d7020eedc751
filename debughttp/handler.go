// Package debughttp serves allocator diagnostics over HTTP.
//
//	GET /debug/alloc   JSON snapshot, active context and stack depth
//	GET /metrics       Prometheus exposition of the same counters
package debughttp

import (
	"log"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/pavanmanishd/allocctx"
	"github.com/pavanmanishd/allocctx/allocmetrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status is the body of /debug/alloc.
type Status struct {
	Active string                  `json:"active"`
	Depth  int                     `json:"depth"`
	Info   allocctx.AllocationInfo `json:"info"`
}

// Handler serves the diagnostic routes for one Manager.
type Handler struct {
	m       *allocctx.Manager
	metrics fasthttp.RequestHandler
	logger  *log.Logger
}

// NewHandler builds a handler for m. A nil logger discards request errors.
func NewHandler(m *allocctx.Manager, logger *log.Logger) (*Handler, error) {
	reg := prometheus.NewRegistry()
	if err := allocmetrics.Register(reg, m); err != nil {
		return nil, err
	}
	return &Handler{
		m:       m,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		logger:  logger,
	}, nil
}

// Status returns the current diagnostic view.
func (h *Handler) Status() Status {
	return Status{
		Active: h.m.Current().String(),
		Depth:  h.m.Depth(),
		Info:   h.m.Info(),
	}
}

// Serve is a fasthttp.RequestHandler.
func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	switch string(ctx.Path()) {
	case "/debug/alloc":
		h.serveStatus(ctx)
	case "/metrics":
		h.metrics(ctx)
	default:
		ctx.NotFound()
	}
}

func (h *Handler) serveStatus(ctx *fasthttp.RequestCtx) {
	body, err := json.Marshal(h.Status())
	if err != nil {
		if h.logger != nil {
			h.logger.Print(err)
		}
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// ListenAndServe serves h on addr until the listener fails.
func ListenAndServe(addr string, h *Handler) error {
	return fasthttp.ListenAndServe(addr, h.Serve)
}
