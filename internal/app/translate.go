package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"glot.fit/lingocart/internal/cli"
	"glot.fit/lingocart/internal/config"
	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/language"
	"glot.fit/lingocart/internal/memory"
	"glot.fit/lingocart/internal/pipeline"
	"glot.fit/lingocart/internal/store"
)

func runTranslate(args []string) int {
	if len(args) == 0 {
		printTranslateUsage()
		return 2
	}

	target := strings.ToLower(strings.TrimSpace(args[0]))
	switch target {
	case "document", "catalog":
	default:
		fmt.Fprintf(os.Stderr, "Unknown translate target: %s\n\n", args[0])
		printTranslateUsage()
		return 2
	}

	fs := flag.NewFlagSet("translate "+target, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	lang := fs.String("lang", "", "Target language (ISO 639-1, for example: es, zh)")
	sourceLang := fs.String("source", "", "Source language (autodetected when empty)")
	provider := fs.String("provider", "", "Translation provider name (for example: http, static)")
	contentType := fs.String("content-type", "", "Force a content type instead of autodetecting")
	out := fs.String("out", "-", "Output file for the translated document (- for stdout)")
	limit := fs.Int("limit", 100, "Maximum catalog fields to sweep")
	dryRun := fs.Bool("dry-run", false, "Use the static provider instead of calling the translation backend")
	force := fs.Bool("force", false, "Retranslate even when a cached translation exists")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	targetLang := normalizeLanguageFlag(*lang)
	if targetLang == "" {
		fmt.Fprintln(os.Stderr, "--lang is required and must be a valid language code")
		return 2
	}

	cfg, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var mem memory.Memory
	if *force {
		mem = memory.NewNoop()
	} else {
		mem, err = openMemory(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	providerName := strings.TrimSpace(*provider)
	if *dryRun {
		providerName = "static"
	}

	providers := newProviderRegistry(cfg)
	orchestrator := newOrchestrator(cfg, format.NewRegistry(), providers, mem, logger)

	resolvedProvider := providerName
	if resolvedProvider == "" {
		resolvedProvider = providers.DefaultProvider()
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandContextTimeout(*timeout))
	defer cancel()

	switch target {
	case "document":
		return translateDocumentCommand(ctx, fs, orchestrator, documentCommandOptions{
			targetLang:   targetLang,
			sourceLang:   normalizeLanguageFlag(*sourceLang),
			contentType:  *contentType,
			providerName: providerName,
			out:          *out,
			dryRun:       *dryRun,
			force:        *force,
		})
	default:
		return translateCatalogCommand(ctx, fs, cfg, orchestrator, catalogCommandOptions{
			targetLang:   targetLang,
			sourceLang:   normalizeLanguageFlag(*sourceLang),
			providerName: providerName,
			resolved:     resolvedProvider,
			limit:        *limit,
			dryRun:       *dryRun,
			force:        *force,
		})
	}
}

type documentCommandOptions struct {
	targetLang   string
	sourceLang   string
	contentType  string
	providerName string
	out          string
	dryRun       bool
	force        bool
}

func translateDocumentCommand(ctx context.Context, fs *flag.FlagSet, orchestrator *pipeline.Orchestrator, opts documentCommandOptions) int {
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "translate document requires one argument (file path or - for stdin)")
		printTranslateUsage()
		return 2
	}

	content, err := readDocument(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := orchestrator.TranslateDocument(ctx, content, opts.targetLang, opts.sourceLang, opts.contentType, opts.providerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translate document failed: %v\n", err)
		return 1
	}

	if err := writeOutput(opts.out, result.TranslatedContent); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}

	for _, issue := range result.Issues {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", issue.Message)
	}
	fmt.Fprintf(
		os.Stderr,
		"translate target=document format=%s lang=%s provider=%s total=%d translated=%d cached=%d failed=%d dry_run=%t force=%t\n",
		result.Format,
		opts.targetLang,
		result.Provider,
		result.Stats.Total,
		result.Stats.Translated,
		result.Stats.Cached,
		result.Stats.Failed,
		opts.dryRun,
		opts.force,
	)
	return 0
}

type catalogCommandOptions struct {
	targetLang   string
	sourceLang   string
	providerName string
	resolved     string
	limit        int
	dryRun       bool
	force        bool
}

// translateCatalogCommand sweeps catalog fields missing a translation
// for the target language and writes each result back per field.
func translateCatalogCommand(ctx context.Context, fs *flag.FlagSet, cfg *config.Config, orchestrator *pipeline.Orchestrator, opts catalogCommandOptions) int {
	kind := ""
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "translate catalog accepts at most one kind argument (product or category)")
		printTranslateUsage()
		return 2
	}
	if fs.NArg() == 1 {
		kind = strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer st.Close()

	var fields []store.CatalogField
	if opts.force {
		fields, err = st.ListCatalogFields(ctx, kind, opts.limit)
	} else {
		fields, err = st.ListUntranslated(ctx, kind, opts.targetLang, opts.limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list catalog fields: %v\n", err)
		return 1
	}
	if len(fields) == 0 {
		fmt.Fprintln(os.Stderr, "No catalog fields to translate")
		return 0
	}

	var translated, failed int
	for i, field := range fields {
		fmt.Fprintf(os.Stderr, "Translating %d/%d fields...\n", i+1, len(fields))

		sourceLang := opts.sourceLang
		if sourceLang == "" {
			sourceLang = field.SourceLang
		}
		result, err := orchestrator.TranslateDocument(ctx, field.Value, opts.targetLang, sourceLang, "", opts.providerName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Field %s/%s failed: %v\n", field.EntityUUID, field.Field, err)
			failed++
			continue
		}

		if opts.dryRun {
			translated++
			continue
		}
		if err := st.WriteFieldTranslation(ctx, store.FieldTranslation{
			EntityUUID: field.EntityUUID,
			Field:      field.Field,
			TargetLang: opts.targetLang,
			Value:      result.TranslatedContent,
			Provider:   result.Provider,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Field %s/%s write-back failed: %v\n", field.EntityUUID, field.Field, err)
			failed++
			continue
		}
		translated++
	}

	fmt.Printf(
		"translate target=catalog kind=%s lang=%s provider=%s total=%d translated=%d failed=%d dry_run=%t force=%t\n",
		kind,
		opts.targetLang,
		opts.resolved,
		len(fields),
		translated,
		failed,
		opts.dryRun,
		opts.force,
	)
	if failed > 0 {
		return 1
	}
	return 0
}

func normalizeLanguageFlag(raw string) string {
	return language.NormalizeLocale(raw)
}

func printTranslateUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingocart translate document <file|-> --lang <lang> [--source en] [--content-type html] [--provider http] [--out path] [--dry-run] [--force] [--env .env] [--timeout 2m]")
	fmt.Fprintln(os.Stderr, "  lingocart translate catalog [product|category] --lang <lang> [--limit 100] [--provider http] [--dry-run] [--force] [--env .env] [--timeout 2m]")
}
