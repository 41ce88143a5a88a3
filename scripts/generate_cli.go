//go:build ignore

// Runs one generation, and optionally one refinement, against the configured
// AI provider without touching the database. Useful for checking prompts.
//
// Usage:
//
//	go run scripts/generate_cli.go -topic "Solar power" -title "Introduction"
//	go run scripts/generate_cli.go -type powerpoint -title "Overview" -refine "Make it shorter"
//	go run scripts/generate_cli.go -outline -topic "Solar power"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"docsmith/internal/config"
	models "docsmith/internal/domain/models/authoring"
	domainllm "docsmith/internal/domain/services/llm"
	serviceLLM "docsmith/internal/service/llm"

	"github.com/joho/godotenv"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorRed   = "\033[31m"
)

func main() {
	topic := flag.String("topic", "The future of remote work", "main topic")
	title := flag.String("title", "Introduction", "section or slide title")
	docType := flag.String("type", "word", "document type: word or powerpoint")
	refine := flag.String("refine", "", "refinement instruction applied to the generated text")
	outline := flag.Bool("outline", false, "suggest an outline instead of generating a section")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closer.Close()

	providers, err := serviceLLM.SetupProviders(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup provider: %v", err)
	}

	dt := models.DocumentType(*docType)
	if !dt.Valid() {
		log.Fatalf("unknown document type %q", *docType)
	}

	ctx := context.Background()

	if *outline {
		structure, err := providers.Outlines.SuggestOutline(ctx, *topic, dt)
		if err != nil {
			fail(err)
		}
		for _, sec := range structure {
			fmt.Printf("%s%2d%s  %-12s %s\n", colorCyan, sec.Order, colorReset, sec.ID, sec.Title)
		}
		return
	}

	start := time.Now()
	text, err := providers.Content.GenerateSection(ctx, &domainllm.GenerateSectionRequest{
		Topic:        *topic,
		DocumentType: dt,
		SectionTitle: *title,
	})
	if err != nil {
		fail(err)
	}
	printBlock("generated", text, time.Since(start))

	if *refine == "" {
		return
	}

	start = time.Now()
	refined, err := providers.Content.RefineSection(ctx, &domainllm.RefineSectionRequest{
		Topic:        *topic,
		DocumentType: dt,
		SectionTitle: *title,
		Existing:     text,
		Instruction:  *refine,
	})
	if err != nil {
		fail(err)
	}
	printBlock("refined", refined, time.Since(start))
}

func printBlock(label, text string, took time.Duration) {
	fmt.Printf("%s== %s (%s) ==%s\n%s\n\n", colorCyan, label, took.Round(time.Millisecond), colorReset, text)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%serror:%s %v (fatal=%v)\n", colorRed, colorReset, err, serviceLLM.IsFatal(err))
	os.Exit(1)
}
