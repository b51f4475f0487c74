package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prono-league/config"
	"prono-league/database"
	"prono-league/handlers"
	"prono-league/seed"
	"prono-league/services"
	"prono-league/utils"
	"prono-league/workers"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:        "prono-league",
		Usage:       "match prediction contest API",
		Description: "Environment variables:\n" + config.Usage(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Value:   ".env",
				Usage:   "optional dotenv file loaded before reading the environment",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
			newRecalculateCommand(),
			newAuditTotalsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runtime holds what every command shares.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *gorm.DB
	clock    clockwork.Clock
	registry *prometheus.Registry
	metrics  *services.Metrics
	recalc   *services.Recalculator
}

func bootstrap(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		clock:    clockwork.NewRealClock(),
		registry: registry,
		metrics:  metrics,
		recalc:   services.NewRecalculator(db, logger, metrics),
	}, nil
}

func (rt *runtime) close() {
	if err := database.Close(rt.db); err != nil {
		rt.logger.Warn("closing database", "error", err)
	}
}

func (rt *runtime) matchService() *services.MatchService {
	return services.NewMatchService(rt.db, rt.recalc, rt.clock, rt.logger)
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.cfg.RequireAdminToken(); err != nil {
				return err
			}
			if err := database.Migrate(rt.db); err != nil {
				return err
			}

			var store services.ObjectStore
			if rt.cfg.R2.Enabled() {
				r2, err := utils.NewR2Store(c.Context, rt.cfg.R2.StoreConfig())
				if err != nil {
					return fmt.Errorf("failed to initialize R2 client: %w", err)
				}
				store = r2
			} else {
				rt.logger.Info("R2 is not configured, leaderboard export disabled")
			}

			app := handlers.NewApp(handlers.Services{
				Users:        services.NewUserService(rt.db, rt.logger, rt.metrics),
				Matches:      rt.matchService(),
				Predictions:  services.NewPredictionService(rt.db, rt.clock, rt.cfg.PredictionCutoff, rt.logger, rt.metrics),
				Leaderboard:  services.NewLeaderboardService(rt.db, store, rt.clock, rt.logger),
				Recalculator: rt.recalc,
			}, handlers.AppOptions{
				AllowedOrigins: rt.cfg.AllowedOrigins,
				AdminToken:     rt.cfg.AdminToken,
				Logger:         rt.logger,
				Gatherer:       rt.registry,
			})

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if rt.cfg.TotalsAuditInterval > 0 {
				worker := workers.NewTotalsAuditWorker(rt.recalc, rt.cfg.TotalsAuditInterval, rt.clock, rt.logger)
				if err := worker.Start(ctx); err != nil {
					return err
				}
				defer func() { _ = worker.Stop() }()
			}

			errCh := make(chan error, 1)
			go func() {
				rt.logger.Info("listening", "addr", rt.cfg.HTTPAddr)
				errCh <- app.Listen(rt.cfg.HTTPAddr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				rt.logger.Info("shutting down")
				return app.ShutdownWithTimeout(10 * time.Second)
			}
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema",
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := database.Migrate(rt.db); err != nil {
				return err
			}
			rt.logger.Info("schema up to date")
			return nil
		},
	}
}

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create the CAN 2026 demo matches",
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := database.Migrate(rt.db); err != nil {
				return err
			}
			created, err := seed.Run(c.Context, rt.matchService())
			if err != nil {
				return err
			}
			for _, m := range created {
				fmt.Printf("%s vs %s  %s  id=%s\n", m.TeamA, m.TeamB, m.MatchDate.Format(time.RFC3339), m.ID)
			}
			return nil
		},
	}
}

func newRecalculateCommand() *cli.Command {
	return &cli.Command{
		Name:  "recalculate",
		Usage: "rescore every prediction of a finished match",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "match", Aliases: []string{"m"}, Usage: "match ID", Required: true},
		},
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer rt.close()

			summary, err := rt.matchService().Recalculate(c.Context, c.String("match"))
			if err != nil {
				return err
			}
			if summary.Skipped {
				return errors.New("match has no final score yet, nothing to recalculate")
			}
			fmt.Printf("scored %d predictions, updated %d users, %d points awarded\n",
				summary.PredictionsScored, summary.UsersUpdated, summary.PointsAwarded)
			return nil
		},
	}
}

func newAuditTotalsCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit-totals",
		Usage: "recompute every user's total from their predictions",
		Action: func(c *cli.Context) error {
			rt, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.recalc.RecalculateAllTotals(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("checked %d users, corrected %d\n", result.UsersChecked, result.UsersCorrected)
			return nil
		},
	}
}
