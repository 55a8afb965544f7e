package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"horse.fit/relay/internal/cli"
	"horse.fit/relay/internal/config"
	"horse.fit/relay/internal/direction"
	"horse.fit/relay/internal/segment"
	"horse.fit/relay/internal/translation"
)

// runTranslate exercises the full translation pipeline without the
// messaging platform: detect, segment, translate, print.
func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
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

	text, err := readInputText(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Nothing to translate")
		return 2
	}

	registry := translation.NewRegistryFromConfig(cfg)
	provider, err := registry.Provider(*providerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	dir := direction.Detect(text)
	chunks := segment.Split(text, cfg.ChunkMaxRunes)
	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.TranslateTimeout)
		resp, err := provider.Translate(ctx, translation.Request{
			Text:           chunk,
			TargetLanguage: dir.Target(),
		})
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Chunk %d/%d failed (%s): %v\n",
				i+1, len(chunks), translation.ReasonOf(err), err)
			return 1
		}
		translated = append(translated, resp.Text)
	}

	fmt.Println(dir.Label())
	fmt.Println(strings.Join(translated, "\n"))
	return 0
}

func readInputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
