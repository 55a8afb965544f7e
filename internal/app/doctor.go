package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/relay/internal/bot"
	"horse.fit/relay/internal/cli"
	"horse.fit/relay/internal/config"
	"horse.fit/relay/internal/logging"
	"horse.fit/relay/internal/translation"
)

// runDoctor runs the same self-test as the in-chat diagnostic command.
func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	providerName := fs.String("provider", "", "Translation provider (responses, chat)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
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

	registry := translation.NewRegistryFromConfig(cfg)
	provider, err := registry.Provider(*providerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	handler := bot.New(cfg, logger, provider, nil)
	report := handler.Diagnose(context.Background())
	fmt.Println(report)

	if cfg.HasChannelToken() {
		fmt.Printf("channel token: len(%d)\n", len(cfg.ChannelAccessToken))
	} else {
		fmt.Println("channel token: missing")
	}
	return 0
}
