package main

import (
	"context"
	"os"

	"github.com/jaya855/voicepipe/cmd/voicepipe/commands"
	"github.com/jaya855/voicepipe/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "voicepipe",
		Usage: "Transcript-to-voiceover synthesis service",
		Description: `Turns transcript CSVs into voiceover audio using Azure neural voices.

This tool provides commands for:
  - Running the HTTP upload service (ECS/ALB or Lambda)
  - Synthesizing a local transcript CSV without the HTTP layer
  - Inspecting the Azure voice catalog for a locale
  - Listing and fetching synthesis job history`,
		Commands: []*cli.Command{
			commands.ServeCommand(&logger),
			commands.SynthesizeCommand(&logger),
			commands.VoicesCommand(&logger),
			commands.JobsCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
