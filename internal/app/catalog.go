package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"glot.fit/lingocart/internal/cli"
	"glot.fit/lingocart/internal/store"
)

// catalogFieldInput is the ingest file row: one translatable field of
// a commerce entity.
type catalogFieldInput struct {
	EntityUUID string `json:"entity_uuid"`
	Kind       string `json:"kind"`
	Field      string `json:"field"`
	SourceLang string `json:"source_lang"`
	Value      string `json:"value"`
}

func runCatalog(args []string) int {
	if len(args) == 0 || strings.ToLower(strings.TrimSpace(args[0])) != "ingest" {
		printCatalogUsage()
		return 2
	}

	fs := flag.NewFlagSet("catalog ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "catalog ingest requires one fields file argument (or - for stdin)")
		printCatalogUsage()
		return 2
	}

	raw, err := readDocument(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var inputs []catalogFieldInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		fmt.Fprintf(os.Stderr, "Fields file must be a JSON array: %v\n", err)
		return 2
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Fields file is empty")
		return 2
	}

	cfg, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandContextTimeout(*timeout))
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer st.Close()

	var ingested, failed int
	for _, input := range inputs {
		err := st.UpsertCatalogField(ctx, store.CatalogField{
			EntityUUID: input.EntityUUID,
			Kind:       strings.ToLower(strings.TrimSpace(input.Kind)),
			Field:      input.Field,
			SourceLang: normalizeLanguageFlag(input.SourceLang),
			Value:      input.Value,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Field %s/%s failed: %v\n", input.EntityUUID, input.Field, err)
			failed++
			continue
		}
		ingested++
	}

	fmt.Printf("catalog action=ingest total=%d ingested=%d failed=%d\n", len(inputs), ingested, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func printCatalogUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingocart catalog ingest <fields.json|-> [--env .env] [--timeout 2m]")
}
