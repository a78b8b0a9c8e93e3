// Command admin_seed writes the default commission levels and prints an admin bearer token.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"refnet/internal/config"
	"refnet/internal/logger"
	"refnet/internal/models"
	"refnet/internal/money"
	"refnet/internal/repositories"
	"refnet/internal/services/commission"
	"refnet/internal/services/wallet"
	"refnet/internal/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var defaultPercents = []string{"10", "5", "3", "2", "1", "1"}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	cliApp := &cli.App{
		Name:  "admin_seed",
		Usage: "seed commission levels and mint an admin token",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "percent", Value: cli.NewStringSlice(defaultPercents...), Usage: "percent per level, level 1 first"},
			&cli.BoolFlag{Name: "skip-configs", Usage: "only mint the token"},
			&cli.UintFlag{Name: "admin-id", Value: 1, Usage: "user id carried by the token"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
		},
		Action: func(c *cli.Context) error {
			log := logger.New(cfg.LogLevel)
			defer log.Sync() //nolint:errcheck

			if !c.Bool("skip-configs") {
				db, err := repositories.InitDB(cfg.Database)
				if err != nil {
					return err
				}
				defer repositories.CloseDB(db) //nolint:errcheck

				if err := repositories.AutoMigrate(db); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				store := repositories.NewStore(db)
				svc := commission.NewService(store, wallet.NewService(store, nil, log, nil), cfg.ReferralMaxDepth, log, nil)
				if err := seedConfigs(c.Context, svc, c.StringSlice("percent"), log); err != nil {
					return err
				}
			}

			token, err := utils.GenerateToken(cfg.JWTSecret, c.Uint("admin-id"), models.RoleAdmin, c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Println(token)
			return nil
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// seedConfigs upserts one active level per percent, level 1 first.
func seedConfigs(ctx context.Context, svc commission.Service, percents []string, log *zap.Logger) error {
	for i, raw := range percents {
		percent, err := money.Parse(raw)
		if err != nil {
			return fmt.Errorf("level %d: invalid percent %q", i+1, raw)
		}
		cfg, err := svc.UpsertConfig(ctx, i+1, percent, true)
		if err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
		log.Info("commission level seeded", zap.Int("level", cfg.Level), zap.String("percent", cfg.Percent.String()))
	}
	return nil
}
