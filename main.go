package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ballot-ledger/auth"
	"github.com/danielhkuo/ballot-ledger/cliparse"
	"github.com/danielhkuo/ballot-ledger/db"
	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
	"github.com/danielhkuo/ballot-ledger/router"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ballot-ledger",
		Short:         "Election ledger API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return rootCmd
}

// Subcommands hand their arguments to cliparse so flags, env and config
// files resolve the same way everywhere.

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Start the HTTP server",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return fmt.Errorf("error parsing flags: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "migrate [flags]",
		Short:              "Create the storage schema and exit",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return fmt.Errorf("error parsing flags: %w", err)
			}
			store, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			slog.Info("Database schema ready", "type", cfg.DatabaseType)
			return store.Close()
		},
	}
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "token [flags] <identity>",
		Short:              "Print the identity token for an identity",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return fmt.Errorf("error parsing flags: %w", err)
			}
			if len(cfg.Args) != 1 || cfg.Args[0] == "" {
				return fmt.Errorf("expected exactly one identity, got %d arguments", len(cfg.Args))
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.SignIdentity(models.Identity(cfg.Args[0]), cfg.IdentitySalt))
			return nil
		},
	}
}

func serve(ctx context.Context, cfg cliparse.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	l, err := ledger.Open(ctx, models.Identity(cfg.AdminIdentity), store, ledger.SystemClock{})
	if err != nil {
		store.Close()
		return err
	}
	defer l.Close()

	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(l, cfg)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port, "admin", cfg.AdminIdentity)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed", "error", err)
	return nil
}
