package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"glot.fit/lingocart/internal/auth"
	"glot.fit/lingocart/internal/cli"
	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/httpapi"
	"glot.fit/lingocart/internal/store"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "", "Host interface to bind (defaults to HTTP_HOST)")
	port := fs.Int("port", 0, "HTTP port (defaults to HTTP_PORT)")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 60*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

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
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	bindHost := strings.TrimSpace(*host)
	if bindHost == "" {
		bindHost = cfg.HTTPHost
	}
	bindPort := *port
	if bindPort <= 0 {
		bindPort = cfg.HTTPPort
	}
	if bindPort <= 0 || bindPort > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	mem, err := openMemory(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("serve failed to open translation memory")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Records are optional: without DATABASE_URL the API runs
	// stateless and the record endpoints are not registered.
	var records *store.Store
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		records, err = store.Open(dbCtx, cfg)
		dbCancel()
		if err != nil {
			logger.Error().Err(err).Msg("serve failed to connect to database")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer records.Close()
	}

	adminHash := ""
	if strings.TrimSpace(cfg.AdminPassword) != "" {
		adminHash, err = auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			logger.Error().Err(err).Msg("serve failed to hash admin password")
			fmt.Fprintf(os.Stderr, "Failed to hash admin password: %v\n", err)
			return 1
		}
	}

	formats := format.NewRegistry()
	providers := newProviderRegistry(cfg)
	orchestrator := newOrchestrator(cfg, formats, providers, mem, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	srv := httpapi.NewServer(orchestrator, formats, providers, mem, records, logger, httpapi.Options{
		Host:              bindHost,
		Port:              bindPort,
		ReadTimeout:       *readTimeout,
		WriteTimeout:      *writeTimeout,
		ShutdownTimeout:   *shutdownTimeout,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: adminHash,
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", bindHost).Int("port", bindPort).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
