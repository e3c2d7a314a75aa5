package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bulletin/src-server/database"
	"bulletin/src-server/metric"
	"bulletin/src-server/route"
	"bulletin/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

var logLevel = new(slog.LevelVar)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	logLevel.Set(slog.LevelDebug)
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	app := &cli.App{
		Name:  "bulletin",
		Usage: "Community events bulletin board.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", EnvVars: []string{"CONFIG_FILE"}, Usage: "optional YAML config file"},
			&cli.StringFlag{Name: "mode", EnvVars: []string{"APP_MODE"}, Usage: "test, dev or prod"},
			&cli.StringFlag{Name: "port", EnvVars: []string{"PORT"}, Usage: "HTTP port"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig lets CLI flags win over env, and env over the config file.
func loadConfig(c *cli.Context) (*utils.Config, error) {
	flagFor := map[string]string{
		"CONFIG_FILE": "config",
		"APP_MODE":    "mode",
		"PORT":        "port",
	}
	config, err := utils.NewConfig(func(key string) string {
		if name, ok := flagFor[key]; ok && c.IsSet(name) {
			return c.String(name)
		}
		return os.Getenv(key)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !config.IsDebug() {
		logLevel.Set(slog.LevelInfo)
	}
	return config, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the events table and exit.",
		Action: func(c *cli.Context) error {
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			gw, err := database.Open(c.Context, config, nil)
			if err != nil {
				return fmt.Errorf("can't create database schema: %w", err)
			}
			defer gw.Close()
			slog.Info("schema is up to date", "mode", config.GetMode())
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server.",
		Action: func(c *cli.Context) error {
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			as := utils.NewAppState(config)

			gw, err := database.Open(c.Context, config, as.MetricChans)
			if err != nil {
				return fmt.Errorf("can't open database: %w", err)
			}
			defer gw.Close()

			metric.Init(as, gw)

			muxer := http.NewServeMux()
			muxer.Handle("GET /metrics", promhttp.Handler())
			route.Events(muxer, as, gw)
			route.Home(muxer, as)

			server := &http.Server{
				Addr:              ":" + config.GetPort(),
				Handler:           route.RequestMiddleware(muxer),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("cannot start HTTP server", "error", err)
					as.AppCloseSignalChan <- syscall.SIGTERM
				}
			}()

			slog.Info("app is now running, press Ctrl+C to exit", "port", config.GetPort(), "mode", config.GetMode())

			signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
			<-as.AppCloseSignalChan

			slog.Info("Gracefully shutting down...")
			as.GracefulShutdown()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
