package main

import (
	"time"

	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "luckywalk"
	s.app.Usage = "Lucky walk reward and lottery backend"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path of the toml configuration file",
			EnvVars: []string{"CONFIG_PATH"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves all endpoints of the mobile app and the operators.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Runs the abuse sweep, the daily reset and the ad session janitor on their schedules.`,
		},
		{
			Action:   server.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "auto",
					Usage: "Create the schema from entities instead of running sql migrations",
				},
			},
		},
		{
			Action:   server.startSweep,
			Name:     "sweep",
			Usage:    "Run the anti-abuse sweep once",
			Category: "Job",
		},
		{
			Action:   server.startReset,
			Name:     "reset",
			Usage:    "Run the daily reset once",
			Category: "Job",
		},
		{
			Action:   server.startNotify,
			Name:     "notify",
			Usage:    "Notify winners of the latest drawn round",
			Category: "Job",
		},
		{
			Action:   server.startAppleSecret,
			Name:     "apple-secret",
			Usage:    "Print a signed Apple client secret",
			Category: "Auth",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "expiration",
					Usage: "Lifetime of the secret",
					Value: time.Hour,
				},
			},
		},
	}
}
