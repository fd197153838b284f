package main

import (
	"context"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/nDmitry/weibocard/internal/app"
	"github.com/nDmitry/weibocard/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	logger := app.Logger()
	slog.SetDefault(logger)

	cli.SetVersion(version, commit)

	if err := cli.Execute(context.Background()); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
