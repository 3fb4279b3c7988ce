package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"datafeed/database"
	"datafeed/logging"
	"datafeed/scheduler"
	"datafeed/server"
	"datafeed/storage"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Sources: cli.EnvVars("STORAGE_ROOT"),
			Name:    "storage-root",
			Aliases: []string{"r"},
			Value:   storage.DefaultRoot,
			Usage:   "directory the dataset path is resolved against",
		},
		&cli.StringFlag{
			Sources: cli.EnvVars("DATASET"),
			Name:    "dataset",
			Value:   storage.DefaultDataset,
			Usage:   "dataset path relative to the storage root",
		},
	}
}

func ServerCli() *cli.Command {
	cmd := &cli.Command{
		Name:  "server",
		Usage: "serve the stored dataset over HTTP",
		Flags: append(storageFlags(), []cli.Flag{
			&cli.StringFlag{
				Sources: cli.EnvVars("CONFIG_PATH"),
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML or YAML file with flag defaults",
			},
			&cli.StringFlag{
				Sources: cli.EnvVars("DB_BACKEND"),
				Name:    "db-backend",
				Aliases: []string{"db"},
				Value:   "sqlite",
				Usage:   "database driver to use for the request log (sqlite or postgres)",
			},
			&cli.StringFlag{
				Sources: cli.EnvVars("DB_PATH"),
				Name:    "db-path",
				Aliases: []string{"dp"},
				Value:   "data.db",
				Usage:   "For sqlite the path to the database file, for postgres the DSN",
			},
			&cli.BoolFlag{
				Sources: cli.EnvVars("NO_REQUEST_LOG"),
				Name:    "no-request-log",
				Usage:   "do not record served requests",
			},
			&cli.DurationFlag{
				Sources: cli.EnvVars("REQUEST_LOG_RETENTION"),
				Name:    "retention",
				Value:   168 * time.Hour,
				Usage:   "how long request log entries are kept",
			},
			&cli.BoolFlag{
				Sources: cli.EnvVars("WATCH"),
				Name:    "watch",
				Value:   true,
				Usage:   "log changes made to the dataset",
			},
			&cli.BoolFlag{
				Sources: cli.EnvVars("DEBUG"),
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "enable debug mode",
			},
			&cli.StringFlag{
				Sources: cli.EnvVars("HOST"),
				Name:    "host",
				Aliases: []string{"b"},
				Value:   "127.0.0.1",
				Usage:   "server bind address",
			},
			&cli.Int64Flag{
				Sources: cli.EnvVars("PORT"),
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8000,
				Usage:   "server port",
			},
			&cli.DurationFlag{
				Sources: cli.EnvVars("SHUTDOWN_TIMEOUT"),
				Name:    "shutdown-timeout",
				Value:   5 * time.Second,
				Usage:   "graceful shutdown timeout",
			},
		}...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := applyConfigFlag(c); err != nil {
				return err
			}

			logging.SetupLogger(c.Bool("debug"))

			store, err := storage.New(c.String("storage-root"), c.String("dataset"))
			if err != nil {
				return err
			}
			log.Info().Str("path", store.Path()).Msg("Serving dataset")

			var db *gorm.DB
			if !c.Bool("no-request-log") {
				db, err = database.SetupDatabase(c.String("db-backend"), c.String("db-path"), c.Bool("debug"))
				if err != nil {
					return err
				}
				defer database.Close(db)
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var watcher *storage.Watcher
			if c.Bool("watch") {
				watcher, err = storage.NewWatcher(store)
				if err != nil {
					log.Warn().Err(err).Msg("Dataset watcher disabled")
				} else {
					defer watcher.Close()
					go watcher.Run(ctx)
				}
			}

			sched := scheduler.NewSchedulerService()
			if err := sched.RegisterTasks(scheduler.DataMaintenanceTasks(db, c.Duration("retention"))); err != nil {
				return err
			}
			if err := sched.RegisterTasks(scheduler.DatasetTasks(store)); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			srv := server.BackendServer(server.ServerOptions{
				Host:            c.String("host"),
				Port:            c.Int64("port"),
				ShutdownTimeout: c.Duration("shutdown-timeout"),
			}, server.RouterDeps{
				Store:   store,
				DB:      db,
				Watcher: watcher,
			})
			if err := srv.Start(); err != nil {
				return err
			}
			fmt.Printf("Starting server on %s\n", srv.FullHost())

			<-ctx.Done()
			log.Info().Msg("Shutting down")

			if err := srv.Stop(context.Background()); err != nil {
				return fmt.Errorf("graceful shutdown: %w", err)
			}
			return nil
		},
	}

	return cmd
}
