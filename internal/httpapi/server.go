package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"horse.fit/relay/internal/line"
)

// maxWebhookBody bounds inbound payload reads.
const maxWebhookBody = 1 << 20

type Options struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// ProcessTimeout caps the background work spawned per webhook batch.
	ProcessTimeout time.Duration
}

// EventProcessor consumes one webhook batch. Implemented by bot.Handler.
type EventProcessor interface {
	HandleEvents(ctx context.Context, events []line.Event)
}

type Server struct {
	processor EventProcessor
	logger    zerolog.Logger
	opts      Options
}

func NewServer(processor EventProcessor, logger zerolog.Logger, opts Options) *Server {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := opts.Port
	if port <= 0 {
		port = 8090
	}
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	processTimeout := opts.ProcessTimeout
	if processTimeout <= 0 {
		processTimeout = 5 * time.Minute
	}

	return &Server{
		processor: processor,
		logger:    logger,
		opts: Options{
			Host:            host,
			Port:            port,
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			ProcessTimeout:  processTimeout,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	if s == nil || s.processor == nil {
		return fmt.Errorf("server is not initialized")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Err(v.Error).
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Str("remote_ip", v.RemoteIP).
					Str("request_id", v.RequestID).
					Msg("http request failed")
				return nil
			}

			s.logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("http request")
			return nil
		},
	}))

	e.POST("/callback", s.handleCallback)
	e.GET("/api/v1/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			s.logger.Error().Err(shutdownErr).Msg("server shutdown failed")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("relay webhook server started")

	if err := e.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	s.logger.Info().Msg("relay webhook server stopped")
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "relay",
		"time":    time.Now().UTC(),
	})
}

// handleCallback acknowledges every reachable webhook delivery with
// HTTP 200 "OK". The platform treats anything else as a delivery failure
// and a slow response as an outage, so translation work runs detached
// from the request and results travel back over the reply/push APIs only.
func (s *Server) handleCallback(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read webhook body")
		return okResponse(c)
	}

	if err := checkWebhookShape(body); err != nil {
		s.logger.Debug().Err(err).Msg("webhook payload shape check failed")
	}

	var payload line.WebhookRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Debug().Err(err).Msg("malformed webhook payload ignored")
		return okResponse(c)
	}
	if len(payload.Events) == 0 {
		return okResponse(c)
	}

	events := payload.Events
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.ProcessTimeout)
		defer cancel()
		s.processor.HandleEvents(ctx, events)
	}()

	return okResponse(c)
}

func okResponse(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
