package app

import (
	"chanmod/internal/app/adapters/commands"
	router "chanmod/internal/app/adapters/http"
	"chanmod/internal/app/adapters/http/handlers"
	"chanmod/internal/app/adapters/moderation"
	"chanmod/internal/app/adapters/platform/irc"
	"chanmod/internal/app/domain/args"
	"chanmod/internal/app/infrastructure/config"
	"chanmod/internal/app/infrastructure/storage"
	"chanmod/internal/app/infrastructure/timers"
	"chanmod/internal/app/ports"
	"chanmod/pkg/logger"
	"context"
	"log/slog"
	"sync"
)

const ConfigPath = "config.json"

// Run wires the bot together and blocks until ctx is cancelled.
func Run(ctx context.Context, configPath string) error {
	manager, err := config.New(configPath)
	if err != nil {
		logger.New(logger.FileOptions{}).Error("Error loading config", err)
		return err
	}
	cfg := manager.Get()

	log := logger.New(logger.FileOptions{
		Path:       cfg.App.LogFile.Path,
		MaxSizeMB:  cfg.App.LogFile.MaxSizeMB,
		MaxBackups: cfg.App.LogFile.MaxBackups,
		MaxAgeDays: cfg.App.LogFile.MaxAgeDays,
		Compress:   cfg.App.LogFile.Compress,
	})
	log.SetLogLevel(cfg.App.LogLevel)

	directory := storage.NewDirectory(cfg.Directory.Capacity)

	client, err := irc.New(log, cfg.IRC, cfg.Proxy, directory)
	if err != nil {
		log.Error("Error creating IRC client", err)
		return err
	}

	wheel := timers.NewTimingWheel(log, cfg.Scheduler.Tick, cfg.Scheduler.Slots,
		timers.WithFailureHandler(func(id ports.TaskID, err error) {
			log.Warn("Ban reversal failed", slog.Uint64("task_id", uint64(id)), slog.String("error", err.Error()))
		}))
	defer wheel.Stop()

	resolver := args.NewResolver(client.ChannelPrefixes)
	registry := commands.New(log, cfg.Commands.Prefix, resolver, client)
	moderation.New(log, client, directory, client, wheel).Register(registry)
	client.SetDispatcher(registry)

	log.Info("Commands registered", slog.Any("commands", registry.Names()))

	h := handlers.New(log, client, wheel, directory)
	r := router.NewRouter(log, cfg.App, h)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		client.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := r.Run(ctx); err != nil {
			log.Error("HTTP server failed", err)
		}
	}()

	<-ctx.Done()
	wg.Wait()
	log.Info("Shut down")

	return nil
}
