package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/victornm/compass/internal/config"
	"github.com/victornm/compass/internal/server"
)

var (
	configPath string
	logLevel   string
)

func main() {
	if err := config.LoadDotenv(); err != nil {
		log.Fatalf("Load .env failed: %v", err)
	}

	root := &cobra.Command{
		Use:           "compass",
		Short:         "Personality test results service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogger(logLevel)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "config file, defaults to $CONFIG_PATH")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the HTTP and gRPC APIs",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "recompute",
			Short: "Rescore every unexpired stored result and exit",
			Args:  cobra.NoArgs,
			RunE:  runRecompute,
		},
	)

	if err := root.Execute(); err != nil {
		log.Fatalf("compass: %v", err)
	}
}

func runServe(*cobra.Command, []string) error {
	c, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)

	s, err := server.Init(c)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	go s.Start()

	<-shutdown
	s.Shutdown()
	return nil
}

func runRecompute(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	s, err := server.Init(c)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}
	defer s.Shutdown()

	n, err := s.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("recompute: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "patched %d results\n", n)
	return nil
}

func loadConfig() (server.Config, error) {
	c := server.DefaultConfig()

	if err := config.Load(configPath, &c); err != nil {
		return c, err
	}

	return c, nil
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
