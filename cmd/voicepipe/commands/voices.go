package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/jaya855/voicepipe/internal/azure"
	"github.com/jaya855/voicepipe/internal/transcript"
)

// VoicesCommand returns the voices command for inspecting the Azure voice catalog
func VoicesCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "voices",
		Usage: "List Azure neural voices available for a locale",
		Description: `Queries the Azure voice catalog and shows the voices available for a locale,
along with the male/female pair that synthesis would select.

Examples:
  voicepipe voices --locale hi-IN --disable-ssm
  voicepipe voices --locale en-US --env prod`,
		Flags: append(containerFlags(),
			&cli.StringFlag{
				Name:     "locale",
				Aliases:  []string{"l"},
				Usage:    "Locale to list voices for (e.g. hi-IN)",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			return voicesAction(c, logger)
		},
	}
}

func voicesAction(c *cli.Context, logger *zerolog.Logger) error {
	locale := transcript.CleanLocale(c.String("locale"))
	if locale == "" {
		return fmt.Errorf("--locale is required")
	}

	container, err := setupContainer(c)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	var client *azure.Client
	if err := container.Invoke(func(got *azure.Client) { client = got }); err != nil {
		return fmt.Errorf("failed to initialize Azure client: %w", err)
	}

	ctx := logger.WithContext(c.Context)
	voices, err := client.ListVoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve voice catalog: %w", err)
	}

	matched := azure.FilterByLocale(voices, locale)
	if len(matched) == 0 {
		return fmt.Errorf("no voices available for locale %s", locale)
	}

	output := map[string]any{
		"locale": locale,
		"voices": matched,
	}
	if pair, err := azure.ResolveVoicePair(voices, locale); err == nil {
		output["male"] = pair.Male
		output["female"] = pair.Female
	} else {
		logger.Warn().Err(err).Str("locale", locale).Msg("No complete voice pair for locale")
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))

	return nil
}
