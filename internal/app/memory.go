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
	"glot.fit/lingocart/internal/memory"
)

func runMemory(args []string) int {
	if len(args) == 0 {
		printMemoryUsage()
		return 2
	}

	action := strings.ToLower(strings.TrimSpace(args[0]))
	switch action {
	case "stats", "export", "import", "clear":
	default:
		fmt.Fprintf(os.Stderr, "Unknown memory action: %s\n\n", args[0])
		printMemoryUsage()
		return 2
	}

	fs := flag.NewFlagSet("memory "+action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	confirm := fs.Bool("yes", false, "Confirm destructive actions")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	// In-memory storage is per-process; a CLI invocation would always
	// see an empty cache.
	if strings.TrimSpace(cfg.RedisURL) == "" {
		fmt.Fprintln(os.Stderr, "memory commands require REDIS_URL to point at a shared translation memory")
		return 2
	}

	mem, err := openMemory(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandContextTimeout(*timeout))
	defer cancel()

	switch action {
	case "stats":
		stats, err := mem.Stats(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Memory stats failed: %v\n", err)
			return 1
		}
		if err := printJSON(stats); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "export":
		entries, err := mem.Export(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Memory export failed: %v\n", err)
			return 1
		}
		if err := printJSON(entries); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "import":
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "memory import requires one entries file argument (or - for stdin)")
			printMemoryUsage()
			return 2
		}
		raw, err := readDocument(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		var entries []memory.Entry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			fmt.Fprintf(os.Stderr, "Entries file must be a JSON array: %v\n", err)
			return 2
		}
		if err := mem.Import(ctx, entries); err != nil {
			fmt.Fprintf(os.Stderr, "Memory import failed: %v\n", err)
			return 1
		}
		fmt.Printf("memory action=import entries=%d\n", len(entries))
	case "clear":
		if !*confirm {
			fmt.Fprintln(os.Stderr, "memory clear is destructive; rerun with --yes to confirm")
			return 2
		}
		if err := mem.Clear(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Memory clear failed: %v\n", err)
			return 1
		}
		fmt.Println("memory action=clear")
	}
	return 0
}

func printMemoryUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lingocart memory stats [--env .env]")
	fmt.Fprintln(os.Stderr, "  lingocart memory export [--env .env]")
	fmt.Fprintln(os.Stderr, "  lingocart memory import <entries.json|-> [--env .env]")
	fmt.Fprintln(os.Stderr, "  lingocart memory clear --yes [--env .env]")
}
