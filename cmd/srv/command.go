package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "droplabz"
	s.app.Usage = "Entry verification and winner selection service"
	s.app.Action = cli.ShowAppHelp
	s.app.Before = s.before
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "Path of the TOML config file, environment variables override it",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used to serve the entry, event and winner apis.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to run scheduled jobs such as the auto draw of ended events.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "Migration version, all versions are run in order if empty",
				},
			},
			Description: `Used to create or upgrade the database schema.`,
		},
	}
}
