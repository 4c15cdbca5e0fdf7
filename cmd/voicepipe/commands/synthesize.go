package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/jaya855/voicepipe/internal/pipeline"
	"github.com/jaya855/voicepipe/internal/transcript"
)

// SynthesizeCommand returns the synthesize command for running a transcript
// through the pipeline without the HTTP layer
func SynthesizeCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "synthesize",
		Aliases: []string{"syn"},
		Usage:   "Synthesize voiceover audio from a local transcript CSV",
		Description: `Runs a transcript CSV through the full synthesis pipeline: archive to S3,
generate SSML, and produce WAV audio with Azure TTS.

Examples:
  # Synthesize a Hindi transcript
  voicepipe synthesize --file episode-12.csv --source hi-IN --env dev --disable-ssm

  # Synthesize against production configuration
  voicepipe synthesize --file episode-12.csv --source ta-IN --env prod`,
		Flags: append(containerFlags(),
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the transcript CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Usage:    "Source locale of the transcript (e.g. hi-IN)",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			return synthesizeAction(c, logger)
		},
	}
}

func synthesizeAction(c *cli.Context, logger *zerolog.Logger) error {
	path := c.String("file")
	locale := transcript.CleanLocale(c.String("source"))
	if locale == "" {
		return fmt.Errorf("--source is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read transcript file: %w", err)
	}

	container, err := setupContainer(c)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	var p *pipeline.Pipeline
	if err := container.Invoke(func(got *pipeline.Pipeline) { p = got }); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	ctx := logger.WithContext(c.Context)
	result, err := p.Run(ctx, pipeline.RunInput{
		Locale:     locale,
		SourceFile: filepath.Base(path),
		CSV:        data,
	})
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	logger.Info().
		Str("locale", locale).
		Str("job_id", result.JobID).
		Msg("Synthesis completed")

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))

	return nil
}
