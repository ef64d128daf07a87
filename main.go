package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/deymon-d/task-manager-with-tests/config"
	"github.com/deymon-d/task-manager-with-tests/modules/activity"
	"github.com/deymon-d/task-manager-with-tests/modules/shell"
	"github.com/deymon-d/task-manager-with-tests/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	// config
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "task manager configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// logger
	log := mustMakeLogger(cfg)

	os.Exit(run(cfg, log))
}

func run(cfg config.Config, log *slog.Logger) int {
	// framework logs stay quiet unless verbose logging is requested
	logLevel := mono.WithLogLevel(mono.LogLevelError)
	if cfg.SlogLevel() <= slog.LevelInfo {
		logLevel = mono.WithLogLevel(mono.LogLevelInfo)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		logLevel,
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Error("failed to create application", "error", err)
		return 1
	}

	shellModule := shell.NewModule(shell.Config{
		In:             os.Stdin,
		Out:            os.Stdout,
		RequestTimeout: cfg.RequestTimeout,
		NoColor:        cfg.NoColor,
	}, log)

	modules := []mono.Module{
		task.NewModule(task.StoreConfig{Path: cfg.DBPath, Debug: cfg.DBDebug}, log),
		activity.NewModule(cfg.HistorySize, log),
		shellModule,
	}
	for _, m := range modules {
		if err := app.Register(m); err != nil {
			log.Error("failed to register module", "module", m.Name(), "error", err)
			return 1
		}
	}

	if err := app.Start(context.Background()); err != nil {
		log.Error("failed to start application", "error", err)
		return 1
	}
	log.Info("task manager started", "db_path", cfg.DBPath)

	// OS signals stop the application through the shutdown operation.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Info("graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	select {
	case exitCode := <-wait:
		log.Info("application exited", "code", exitCode)
		return exitCode
	case <-shellModule.Done():
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.Stop(ctx); err != nil {
			log.Error("failed to stop application", "error", err)
			return 1
		}
		log.Info("application stopped")
		return 0
	}
}

func mustMakeLogger(cfg config.Config) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(handler)
}
