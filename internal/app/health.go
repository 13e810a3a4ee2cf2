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
	"glot.fit/lingocart/internal/store"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Health check timeout")

	if err := fs.Parse(args); err != nil {
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

	ctx, cancel := context.WithTimeout(context.Background(), commandContextTimeout(*timeout))
	defer cancel()

	healthy := true

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		fmt.Println("database: not configured")
	} else {
		st, err := store.Open(ctx, cfg)
		if err != nil {
			fmt.Printf("database: unreachable (%v)\n", err)
			healthy = false
		} else {
			fmt.Println("database: ok")
			_ = st.Close()
		}
	}

	if strings.TrimSpace(cfg.RedisURL) == "" {
		fmt.Println("translation memory: in-process")
	} else {
		mem, err := openMemory(cfg)
		if err != nil {
			fmt.Printf("translation memory: unreachable (%v)\n", err)
			healthy = false
		} else if _, err := mem.Stats(ctx); err != nil {
			fmt.Printf("translation memory: unreachable (%v)\n", err)
			healthy = false
		} else {
			fmt.Println("translation memory: ok")
		}
	}

	if !healthy {
		return 1
	}
	return 0
}
