// Package main runs the referral and commission API.
package main

import (
	"fmt"
	"os"

	"refnet/internal/config"

	"github.com/urfave/cli/v2"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	cliApp := &cli.App{
		Name:  "refnet",
		Usage: "referral network, commission distribution and wallet ledger",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the http server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Value: cfg.Port, Usage: "listen port"},
					&cli.BoolFlag{Name: "migrate", Usage: "apply migrations before serving"},
				},
				Action: func(c *cli.Context) error {
					cfg.Port = c.String("port")
					return serve(c.Context, cfg, c.Bool("migrate"))
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update the database schema",
				Action: func(c *cli.Context) error {
					return migrate(cfg)
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
