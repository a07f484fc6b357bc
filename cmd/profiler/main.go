package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"log-profiler/internal/app"
	"log-profiler/internal/shared/configs"
)

var cli struct {
	Config string `help:"Path to the JSON config file. Built-in defaults apply when omitted." type:"path"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("profiler"),
		kong.Description("Builds a report of the slowest URLs from the latest nginx access log."),
		kong.UsageOnError(),
	)

	// Load configuration
	cfg, err := configs.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize application
	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		_ = application.Close()
		fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
		os.Exit(1)
	}
	_ = application.Close()
}
