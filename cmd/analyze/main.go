// Command analyze runs one behavior analysis on a local media file without
// going through Telegram. Useful for poking at prompts and the response
// schema during development.
//
// Usage: analyze <media-file> [owner context...]
package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bulldogwatch/telegram-bulldog-bot/internal/llm"
	"github.com/bulldogwatch/telegram-bulldog-bot/internal/media"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: analyze <media-file> [owner context...]")
		os.Exit(1)
	}
	path := os.Args[1]
	ownerContext := strings.Join(os.Args[2:], " ")

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY is not set")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read file")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	att := media.Attachment{Name: filepath.Base(path), MIME: mimeType, Data: data}
	if att.Kind() == media.KindUnsupported {
		log.Fatal().Str("mime", mimeType).Msg("unsupported media type")
	}

	ctx := context.Background()
	analyzer, err := llm.NewGeminiAnalyzer(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create analyzer")
	}

	interp, err := analyzer.Analyze(ctx, att, ownerContext)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	fmt.Printf("Behavior:    %s\n", interp.Behavior)
	fmt.Printf("Explanation: %s\n", interp.Explanation)
	fmt.Printf("Tip:         %s\n", interp.Tip)
}
