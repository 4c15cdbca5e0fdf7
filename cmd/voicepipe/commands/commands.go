// Package commands contains the voicepipe CLI commands.
package commands

import (
	"github.com/jaya855/voicepipe/internal/di"
	"github.com/urfave/cli/v2"
)

// flags shared by every command that needs a configured container
func containerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "env",
			Aliases: []string{"e"},
			Usage:   "Environment name (dev, staging, prod)",
			Value:   "dev",
			EnvVars: []string{"ENV", "ENVIRONMENT"},
		},
		&cli.BoolFlag{
			Name:    "disable-ssm",
			Usage:   "Load configuration from environment variables instead of SSM Parameter Store",
			EnvVars: []string{"DISABLE_SSM"},
		},
		&cli.StringFlag{
			Name:    "settings",
			Usage:   "Optional YAML settings file overriding the loaded configuration",
			EnvVars: []string{"VOICEPIPE_SETTINGS"},
		},
	}
}

func setupContainer(c *cli.Context) (di.Container, error) {
	return di.New(c.String("env"),
		di.WithDisableSSM(c.Bool("disable-ssm")),
		di.WithSettingsPath(c.String("settings")),
		di.WithProviders(
			di.ProvideLogger,
		),
	)
}
