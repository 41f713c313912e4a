package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/de-tools/audit-atlas/pkg/runtime/app"
	"github.com/de-tools/audit-atlas/pkg/server"
	"github.com/de-tools/audit-atlas/pkg/services/config"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:     "web",
		Short:   "Start the web server for AuditPro+",
		Version: app.Version,
		RunE:    runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to an auditpro config file (AUDITPRO_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := app.NewLogger(cfg, os.Stdout)
	ctx := logger.WithContext(cmd.Context())

	a, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	deps := server.Dependencies{
		Resolver:   a.Resolver,
		Explorer:   a.Explorer,
		Controller: a.Controller,
		Papers:     a.Store,
		Analyzer:   a.Analyzer,
		Logger:     logger,
	}

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies:    deps,
	})
	return api.Start(ctx)
}
