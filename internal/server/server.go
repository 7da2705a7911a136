// Package server exposes the salary engine and tax calculator over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/paytrend/salary-tracker/internal/calculation"
	"github.com/paytrend/salary-tracker/internal/domain"
)

// Server handles the JSON API. It keeps no per-request state, so one
// instance serves all connections.
type Server struct {
	calc      *calculation.TaxCalculator
	inflation []domain.InflationDataPoint
	logger    calculation.Logger
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// New creates a server. inflation is used when a request carries no rates.
func New(calc *calculation.TaxCalculator, inflation []domain.InflationDataPoint, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{calc: calc, inflation: inflation, logger: logger}
}

// Handler routes requests to the API endpoints
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		path := string(ctx.Path())

		switch path {
		case "/api/series":
			s.post(ctx, s.handleSeries)
		case "/api/insights":
			s.post(ctx, s.handleInsights)
		case "/api/tax":
			s.post(ctx, s.handleTax)
		case "/api/gross":
			s.post(ctx, s.handleGross)
		case "/api/years":
			if !ctx.IsGet() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
				break
			}
			writeJSON(ctx, fasthttp.StatusOK, yearsResponse{Years: s.calc.SupportedYears()})
		default:
			writeError(ctx, fasthttp.StatusNotFound, "Unknown endpoint "+path)
		}

		s.logger.Debugf("%s %s -> %d (%s)", ctx.Method(), path, ctx.Response.StatusCode(), time.Since(start))
	}
}

func (s *Server) post(ctx *fasthttp.RequestCtx, handle func(*fasthttp.RequestCtx)) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	handle(ctx)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "paytrend",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Infof("listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "Request body is required")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, calculation.ErrUnsupportedTaxYear) {
		return fasthttp.StatusUnprocessableEntity
	}
	return fasthttp.StatusBadRequest
}
