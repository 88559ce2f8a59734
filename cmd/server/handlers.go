package main

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/baditaflorin/l"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/baditaflorin/go_edit_similarity/pkg/revision"
)

// RatioRequest carries a draft and its operator revision.
type RatioRequest struct {
	Base    string `json:"base"`
	Revised string `json:"revised"`
}

// ReviewRequest optionally overrides the review threshold.
type ReviewRequest struct {
	RatioRequest
	Threshold *float64 `json:"threshold,omitempty"`
}

// RatioResponse is the minimal score returned to the console.
type RatioResponse struct {
	Ratio   float64 `json:"ratio"`
	Percent float64 `json:"percent"`
}

// ReviewResponse is the full score with its display diff.
type ReviewResponse struct {
	Ratio          float64            `json:"ratio"`
	Percent        float64            `json:"percent"`
	Distance       int                `json:"distance"`
	BaseLength     int                `json:"base_length"`
	RevisedLength  int                `json:"revised_length"`
	Flagged        bool               `json:"flagged"`
	Threshold      float64            `json:"threshold"`
	Inserted       int                `json:"inserted"`
	Deleted        int                `json:"deleted"`
	Segments       []revision.Segment `json:"segments"`
	ProcessingTime string             `json:"processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

type server struct {
	scorer         *revision.Scorer
	logger         l.Logger
	metrics        fasthttp.RequestHandler
	maxTextLength  int
	computeTimeout time.Duration
}

func newServer(scorer *revision.Scorer, logger l.Logger, gatherer prometheus.Gatherer, maxTextLength int) *server {
	return &server{
		scorer:         scorer,
		logger:         logger,
		metrics:        fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		maxTextLength:  maxTextLength,
		computeTimeout: 10 * time.Second,
	}
}

// requestHandler is the main fasthttp request handler
func (s *server) requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Server", "EditSimilarityServer")

	switch string(ctx.Path()) {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/ratio":
		s.handleRatio(ctx)
	case "/review":
		s.handleReview(ctx)
	case "/metrics":
		s.metrics(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		s.writeJSONError(ctx, "Not found")
	}

	s.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

func (s *server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *server) handleRatio(ctx *fasthttp.RequestCtx) {
	var req RatioRequest
	if !s.decode(ctx, &req) || !s.checkLengths(ctx, req) {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), s.computeTimeout)
	defer cancel()

	result := s.scorer.Compute(c, req.Base, req.Revised)
	if result.Cancelled() {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		s.writeJSONError(ctx, "Computation cancelled")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, RatioResponse{Ratio: result.Ratio, Percent: result.Percent})
}

func (s *server) handleReview(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	var req ReviewRequest
	if !s.decode(ctx, &req) || !s.checkLengths(ctx, req.RatioRequest) {
		return
	}
	if req.Threshold != nil && (*req.Threshold < 0 || *req.Threshold > 1) {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "threshold must be between 0 and 1")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), s.computeTimeout)
	defer cancel()

	review := s.scorer.Review(c, req.Base, req.Revised)
	if review.Cancelled() {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		s.writeJSONError(ctx, "Computation cancelled")
		return
	}

	threshold := review.Threshold
	flagged := review.Flagged
	if req.Threshold != nil {
		threshold = *req.Threshold
		flagged = review.RawRatio >= threshold
	}

	segments := review.Diff.Segments
	if segments == nil {
		segments = []revision.Segment{}
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, ReviewResponse{
		Ratio:          review.Ratio,
		Percent:        review.Percent,
		Distance:       review.Distance,
		BaseLength:     review.BaseLength,
		RevisedLength:  review.RevisedLength,
		Flagged:        flagged,
		Threshold:      threshold,
		Inserted:       review.Diff.Inserted,
		Deleted:        review.Diff.Deleted,
		Segments:       segments,
		ProcessingTime: time.Since(startTime).String(),
	})
}

// decode enforces POST and parses the JSON body into dst.
func (s *server) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return false
	}
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// checkLengths bounds the quadratic cost of a single request.
func (s *server) checkLengths(ctx *fasthttp.RequestCtx, req RatioRequest) bool {
	if utf8.RuneCountInString(req.Base) > s.maxTextLength || utf8.RuneCountInString(req.Revised) > s.maxTextLength {
		ctx.SetStatusCode(fasthttp.StatusRequestEntityTooLarge)
		s.writeJSONError(ctx, "Text exceeds the maximum length")
		return false
	}
	return true
}

// writeJSONResponse writes a JSON response to the context
func (s *server) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON response", "error", err)
		s.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (s *server) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetBody(response)
}
