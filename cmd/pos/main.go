package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/avolkovs/tillpoint/internal/buildinfo"
	"github.com/avolkovs/tillpoint/internal/client/cli"
	"github.com/avolkovs/tillpoint/internal/client/config"
	"github.com/avolkovs/tillpoint/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewDefault(slog.LevelInfo)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
