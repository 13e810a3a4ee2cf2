package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"glot.fit/lingocart/internal/cli"
	"glot.fit/lingocart/internal/config"
	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/langdetect"
	"glot.fit/lingocart/internal/logging"
	"glot.fit/lingocart/internal/memory"
	"glot.fit/lingocart/internal/pipeline"
	"glot.fit/lingocart/internal/translation"
)

// loadConfig applies the --env file (warning only on failure) and
// parses the environment into a validated Config.
func loadConfig(envLoader *cli.EnvLoader) (*config.Config, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// openMemory picks Redis when REDIS_URL is set, otherwise a
// process-local in-memory cache.
func openMemory(cfg *config.Config) (memory.Memory, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return memory.NewInMemory(), nil
	}
	mem, err := memory.NewRedisFromURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return mem, nil
}

func newProviderRegistry(cfg *config.Config) *translation.Registry {
	return translation.NewRegistryFromEnv(translation.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
	})
}

func newOrchestrator(cfg *config.Config, formats *format.Registry, providers *translation.Registry, mem memory.Memory, logger zerolog.Logger) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(formats, providers, mem, logger, pipeline.Options{
		BatchSize:      cfg.BatchSize,
		BatchDelay:     cfg.BatchDelay,
		DetectLanguage: langdetect.DetectISO6391,
	})
}

// readDocument reads the document argument: a file path, or "-" for
// standard input.
func readDocument(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("document argument must not be empty")
	}
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return string(data), nil
}

func writeOutput(path, content string) error {
	if strings.TrimSpace(path) == "" || path == "-" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func commandContextTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 2 * time.Minute
	}
	return timeout
}
