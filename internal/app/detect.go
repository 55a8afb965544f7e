package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/relay/internal/direction"
	"horse.fit/relay/internal/langdetect"
)

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	text, err := readInputText(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Nothing to detect")
		return 2
	}

	dir := direction.Detect(text)
	fmt.Printf("direction: %s (%s → %s)\n", dir, dir.Source(), dir.Target())

	if hint := langdetect.DetectISO6391(text); hint != "" {
		fmt.Printf("lingua hint: %s\n", hint)
	}
	return 0
}
