package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/codespace555/arya-co/internal/config"
	"github.com/codespace555/arya-co/internal/httpapi"
	"github.com/codespace555/arya-co/internal/notify"
	"github.com/codespace555/arya-co/internal/stats"
	"github.com/codespace555/arya-co/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	app := &cli.App{
		Name:  "aryaco",
		Usage: "Arya & Co storefront service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Action: func(c *cli.Context) error {
					return serve(c.Context, log)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("aryaco exited")
	}
}

func serve(ctx context.Context, log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Connect(ctx, cfg.MongoURI, cfg.Database, log)
	if err != nil {
		return err
	}
	log.WithField("database", cfg.Database).Info("connected to mongodb")

	server := httpapi.New(st, log, notify.NewLog(log), []byte(cfg.JWTSecret))

	// Change streams need a replica set; without one the dashboard falls
	// back to per-request computation.
	aggregator := stats.New(st, log)
	if subs, err := aggregator.Bind(ctx, st); err != nil {
		log.WithError(err).Warn("live dashboard unavailable, computing per request")
	} else {
		server.WithStats(aggregator)
		defer func() {
			for _, sub := range subs {
				sub.Unsubscribe()
			}
		}()
	}

	router := server.Router(cfg.CORSOrigins)
	log.WithField("addr", cfg.ListenAddr).Info("listening")
	return router.Run(cfg.ListenAddr)
}
