// Package stream implements Server-Sent Events (SSE) streaming of sun views
// across a range of days. Clients connect via GET /api/v1/stream/sweep and
// receive one view per day, which animates the track through the seasons.
//
// SSE message format:
//
//	data: {"type":"sun_view","seq":0,"latitude":45,"day":172,...}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","model":{...},"latitude":45,"from":1,"to":366,"days":366,"interval_ms":200}\n\n
//
// The last message is {"type":"done"}. Keep-alive comments (:\n\n) are sent
// every KeepaliveInterval while waiting between views.
package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/star/sunpath/internal/httputil"
	"github.com/star/sunpath/internal/metrics"
	"github.com/star/sunpath/internal/solar"
	"github.com/star/sunpath/internal/sunview"
)

// DefaultInterval is the pause between views when the client gives none.
const DefaultInterval = 200 * time.Millisecond

// Config holds streaming configuration.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 10).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 30s).
	MaxInterval        time.Duration // Longest pause between views a client may ask for (default: 5s).
	TrustProxy         bool          // Use X-Forwarded-For / X-Real-IP for the per-IP limit.
	DefaultLatitude    float64
	DefaultRadius      float64
}

// Handler manages SSE streaming connections.
type Handler struct {
	model   solar.Model
	config  Config
	limiter *streamLimiter
	logger  *slog.Logger
}

// NewHandler creates a new streaming handler.
func NewHandler(model solar.Model, config Config, logger *slog.Logger) *Handler {
	return &Handler{
		model:   model,
		config:  config,
		limiter: newStreamLimiter(config.MaxConcurrentPerIP),
		logger:  logger,
	}
}

// sweepRequest is a validated sweep query.
type sweepRequest struct {
	latitude float64
	radius   float64
	from     int
	to       int
	interval time.Duration
}

func (h *Handler) parseSweep(r *http.Request) (sweepRequest, error) {
	q := r.URL.Query()
	var (
		req sweepRequest
		err error
	)

	if req.latitude, err = httputil.FloatParam(q, "lat", h.config.DefaultLatitude, -90, 90); err != nil {
		return req, err
	}
	if req.radius, err = httputil.FloatParam(q, "radius", h.config.DefaultRadius, 0, 100); err != nil {
		return req, err
	}
	if req.radius <= 0 {
		return req, errors.New("invalid radius parameter, must be greater than 0")
	}
	if req.from, err = httputil.IntParam(q, "from", solar.MinDay, solar.MinDay, solar.MaxDay); err != nil {
		return req, err
	}
	if req.to, err = httputil.IntParam(q, "to", solar.MaxDay, solar.MinDay, solar.MaxDay); err != nil {
		return req, err
	}

	maxMs := int(h.config.MaxInterval / time.Millisecond)
	defMs := min(int(DefaultInterval/time.Millisecond), maxMs)
	ms, err := httputil.IntParam(q, "interval_ms", defMs, 0, maxMs)
	if err != nil {
		return req, err
	}
	req.interval = time.Duration(ms) * time.Millisecond

	return req, nil
}

// sweepDays lists the days from..to inclusive, wrapping past MaxDay to MinDay.
func sweepDays(from, to int) []int {
	n := to - from + 1
	if n <= 0 {
		n += solar.MaxDay
	}
	days := make([]int, n)
	for i := range days {
		days[i] = (from-solar.MinDay+i)%solar.MaxDay + solar.MinDay
	}
	return days
}

// HandleSweep serves the SSE day sweep.
// GET /api/v1/stream/sweep?lat=45&from=1&to=366&interval_ms=200
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSweep(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Rate limiting: enforce concurrent stream limit per IP.
	ip := httputil.ClientIP(r, h.config.TrustProxy)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
		)
		w.Header().Set("Retry-After", "30")
		httputil.WriteError(w, http.StatusTooManyRequests, "too many concurrent streams")
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	days := sweepDays(req.from, req.to)
	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"user_agent", r.Header.Get("User-Agent"),
		"latitude", req.latitude,
		"from", req.from,
		"to", req.to,
		"interval_ms", req.interval.Milliseconds(),
	)

	c := &client{ip: ip, logger: h.logger}
	defer func() {
		h.limiter.release(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"duration_seconds", int(time.Since(startTime).Seconds()),
			"messages_sent", c.messagesSent,
		)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// A sweep outlives the server's WriteTimeout; deadlines are extended per write.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}
	c.w, c.flusher, c.rc = w, flusher, rc

	// Jittered retry interval (3-7s) spreads reconnects after a restart.
	fmt.Fprintf(w, "retry: %d\n\n", 3000+rand.Intn(4000))
	flusher.Flush()

	meta := metadataMessage{
		Type:       "metadata",
		Model:      h.model,
		Latitude:   req.latitude,
		Radius:     req.radius,
		From:       req.from,
		To:         req.to,
		Days:       len(days),
		IntervalMs: req.interval.Milliseconds(),
	}
	if err := c.sendJSON(meta); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error (metadata)", "remote_ip", ip, "error", err)
		return
	}

	var tick <-chan time.Time
	if req.interval > 0 {
		ticker := time.NewTicker(req.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	ctx := r.Context()
	for seq, day := range days {
		if seq > 0 && tick != nil {
		wait:
			for {
				select {
				case <-ctx.Done():
					return
				case <-tick:
					break wait
				case <-keepaliveTicker.C:
					if err := c.sendKeepalive(); err != nil {
						metrics.IncStreamErrors("send_error")
						h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
						return
					}
				}
			}
		} else if ctx.Err() != nil {
			return
		}

		view, err := sunview.Build(h.model, req.latitude, day, req.radius)
		if err != nil {
			metrics.IncStreamErrors("build_error")
			h.logger.Warn("stream view error", "remote_ip", ip, "day", day, "error", err)
			return
		}
		if err := c.sendJSON(sunViewMessage{Type: "sun_view", Seq: seq, View: view}); err != nil {
			metrics.IncStreamErrors("send_error")
			h.logger.Warn("stream send error", "remote_ip", ip, "error", err)
			return
		}
		keepaliveTicker.Reset(h.config.KeepaliveInterval)
	}

	if err := c.sendJSON(doneMessage{Type: "done", Days: len(days)}); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error (done)", "remote_ip", ip, "error", err)
	}
}

// SSE message payload types.

type metadataMessage struct {
	Type       string      `json:"type"`
	Model      solar.Model `json:"model"`
	Latitude   float64     `json:"latitude"`
	Radius     float64     `json:"radius"`
	From       int         `json:"from"`
	To         int         `json:"to"`
	Days       int         `json:"days"`
	IntervalMs int64       `json:"interval_ms"`
}

type sunViewMessage struct {
	Type string `json:"type"`
	Seq  int    `json:"seq"`
	sunview.View
}

type doneMessage struct {
	Type string `json:"type"`
	Days int    `json:"days"`
}
