package main

import (
	"fmt"
	"path/filepath"

	"github.com/RacoonMediaServer/rms-virtual-library/internal/catalog"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/config"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/db"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/lock"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/model"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/registry"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/schedule"
	"github.com/RacoonMediaServer/rms-virtual-library/internal/service/episodes"
	"github.com/urfave/cli/v2"
	"go-micro.dev/v4"
	"go-micro.dev/v4/logger"

	// Plugins
	_ "github.com/go-micro/plugins/v4/registry/etcd"
)

var Version = "v0.0.0"

const serviceName = "rms-virtual-library"

func main() {
	logger.Infof("%s %s", serviceName, Version)
	defer logger.Info("DONE.")

	useDebug := false

	service := micro.NewService(
		micro.Name(serviceName),
		micro.Version(Version),
		micro.Flags(
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"debug"},
				Usage:       "debug log level",
				Value:       false,
				Destination: &useDebug,
			},
		),
	)

	service.Init(
		micro.Action(func(context *cli.Context) error {
			configFile := fmt.Sprintf("/etc/rms/%s.json", serviceName)
			if context.IsSet("config") {
				configFile = context.String("config")
			}
			return config.Load(configFile)
		}),
	)

	if useDebug {
		_ = logger.Init(logger.WithLevel(logger.DebugLevel))
	}

	cfg := config.Config()

	database, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Fatalf("Connect to database failed: %s", err)
	}
	logger.Info("Connected to database")

	runtimes := registry.NewRuntimeRegistry(filepath.Join(cfg.Directories.State, "runtime.db"))
	placeholders := registry.NewPlaceholderRegistry(filepath.Join(cfg.Directories.State, "placeholders.db"))

	lk := lock.NewLocker()
	sched := schedule.New()
	defer sched.Stop()

	settings := episodes.Settings{
		Database:     database,
		Catalog:      catalog.New(cfg.Remote, cfg.Device),
		Runtimes:     runtimes,
		Placeholders: placeholders,
		Publisher:    micro.NewEvent(model.RefreshTopic, service.Client()),
		Scheduler:    sched,
		Locker:       lk,
		Sync:         cfg.Sync,
		StubsDir:     cfg.Directories.Stubs,
	}

	episodesService := episodes.NewService(settings)
	if err = episodesService.Initialize(); err != nil {
		logger.Fatalf("Cannot initialize episodes service: %s", err)
	}

	if err = episodesService.Attach(service.Server()); err != nil {
		logger.Fatalf("Subscribe to library events failed: %s", err)
	}
	defer episodesService.Detach()

	// регистрируем хендлеры
	handler := &episodes.Handler{Service: episodesService}
	if err = micro.RegisterHandler(service.Server(), handler); err != nil {
		logger.Fatalf("Register service failed: %s", err)
	}

	if err = service.Run(); err != nil {
		logger.Fatalf("Run service failed: %s", err)
	}
}
