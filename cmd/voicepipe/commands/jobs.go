package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/jaya855/voicepipe/internal/dao/jobdao"
	"github.com/jaya855/voicepipe/internal/errors"
)

// JobsCommand returns the jobs command for inspecting synthesis job history
func JobsCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "Inspect synthesis job history",
		Description: `Lists and fetches synthesis job records from the jobs table.

Requires a jobs table to be configured (JOBS_TABLE_NAME or the
jobs-table-name SSM parameter).

Examples:
  # Show the most recent jobs for an environment
  voicepipe jobs list --env dev --disable-ssm

  # Show jobs for a specific locale
  voicepipe jobs list --env dev --locale hi-IN --disable-ssm

  # Fetch a single job by id
  voicepipe jobs get --env dev --id "hi-IN/dev:2abc..." --disable-ssm`,
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List synthesis jobs",
				Flags: append(containerFlags(),
					&cli.StringFlag{
						Name:    "locale",
						Aliases: []string{"l"},
						Usage:   "Filter jobs by source locale (e.g. hi-IN)",
					},
				),
				Action: func(c *cli.Context) error {
					return listJobsAction(c, logger)
				},
			},
			{
				Name:    "get",
				Aliases: []string{"g"},
				Usage:   "Fetch a single synthesis job by id",
				Flags: append(containerFlags(),
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Usage:    "Job id (e.g. hi-IN/dev:2abc...)",
						Required: true,
					},
				),
				Action: func(c *cli.Context) error {
					return getJobAction(c, logger)
				},
			},
		},
	}
}

func resolveDAO(c *cli.Context) (*jobdao.DAO, error) {
	container, err := setupContainer(c)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}

	var dao *jobdao.DAO
	if err := container.Invoke(func(got *jobdao.DAO) { dao = got }); err != nil {
		return nil, fmt.Errorf("failed to initialize job store: %w", err)
	}
	if dao == nil {
		return nil, errors.ErrJobTrackingDisabled
	}
	return dao, nil
}

func listJobsAction(c *cli.Context, logger *zerolog.Logger) error {
	dao, err := resolveDAO(c)
	if err != nil {
		return err
	}

	ctx := logger.WithContext(c.Context)
	env := c.String("env")
	locale := c.String("locale")

	var records []jobdao.Record
	if locale != "" {
		records, err = dao.QueryByLocaleEnv(ctx, locale, env)
	} else {
		records, err = dao.QueryLatest(ctx, env)
	}
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	jsonBytes, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))

	return nil
}

func getJobAction(c *cli.Context, logger *zerolog.Logger) error {
	dao, err := resolveDAO(c)
	if err != nil {
		return err
	}

	ctx := logger.WithContext(c.Context)
	record, err := dao.Find(ctx, jobdao.ID(c.String("id")))
	if err != nil {
		return fmt.Errorf("failed to fetch job: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))

	return nil
}
