package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horse.fit/relay/internal/bot"
	"horse.fit/relay/internal/cli"
	"horse.fit/relay/internal/config"
	"horse.fit/relay/internal/httpapi"
	"horse.fit/relay/internal/line"
	"horse.fit/relay/internal/logging"
	"horse.fit/relay/internal/translation"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	processTimeout := fs.Duration("process-timeout", 5*time.Minute, "Per-batch background processing budget")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	if !cfg.HasChannelToken() {
		logger.Warn().Msg("LINE_CHANNEL_TOKEN is not set, replies will be skipped")
	}
	if !cfg.HasCompletionKey() {
		logger.Warn().Msg("COMPLETION_API_KEY is not set, translations will fail")
	}

	registry := translation.NewRegistryFromConfig(cfg)
	provider, err := registry.Provider("")
	if err != nil {
		logger.Error().Err(err).Msg("no translation provider available")
		fmt.Fprintf(os.Stderr, "No translation provider available: %v\n", err)
		return 1
	}

	messenger := line.NewClient(cfg.MessagingEndpoint, cfg.ChannelAccessToken, logger)
	handler := bot.New(cfg, logger, provider, messenger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	srv := httpapi.NewServer(handler, logger, httpapi.Options{
		Host:            *host,
		Port:            *port,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
		ProcessTimeout:  *processTimeout,
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
