package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/de-tools/audit-atlas/pkg/runtime/app"
	"github.com/de-tools/audit-atlas/pkg/runtime/terminal"
	"github.com/de-tools/audit-atlas/pkg/services/config"
)

func main() {
	_ = godotenv.Load()

	var built *app.App
	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
		Loader: func(ctx context.Context, configPath string) (terminal.Services, error) {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return terminal.Services{}, err
			}
			// diagnostics go to stderr so reports stay pipeable
			cfg.Log.Pretty = true
			logger := app.NewLogger(cfg, os.Stderr).Level(zerolog.WarnLevel)
			ctx = logger.WithContext(ctx)

			built, err = app.Build(ctx, cfg)
			if err != nil {
				return terminal.Services{}, err
			}
			return terminal.Services{
				Resolver:   built.Resolver,
				Explorer:   built.Explorer,
				Controller: built.Controller,
				Analyzer:   built.Analyzer,
			}, nil
		},
	})

	err := cli.Execute(context.Background())
	if built != nil {
		_ = built.Close(context.Background())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
