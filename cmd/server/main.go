package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/MKhiriev/uci-relay/internal/adapter"
	"github.com/MKhiriev/uci-relay/internal/app"
	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/engine"
	handler "github.com/MKhiriev/uci-relay/internal/handler/http"
	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/server"
	"github.com/MKhiriev/uci-relay/internal/service"
	"github.com/MKhiriev/uci-relay/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("uci-relay-server")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	leveled, err := log.WithLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	log = leveled
	log.Debug().Any("config", cfg).Msg("received configs")

	launcher := engine.NewLauncher(cfg.Engine, cfg.Relay.MaxLineLength, log)

	listener, err := server.NewListener(cfg, launcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error binding listener")
	}

	resolver := adapter.NewExternalIPResolver(cfg.Server, log)
	externalIP := app.LookupExternalIP(context.Background(), resolver, cfg.Server, log)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(listener, buildInfo, externalIP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	var statusHandler http.Handler
	if cfg.Server.StatusAddress != "" {
		statusHandler = handler.NewHandler(services, log).Init()
	}

	srv, err := server.NewServer(listener, statusHandler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	banner := app.Banner{
		Version:       buildInfo.BuildVersion(),
		ListenAddress: listener.Addr().String(),
		ExternalIP:    externalIP,
		StatusAddress: cfg.Server.StatusAddress,
	}
	if err = banner.Render(os.Stdout); err != nil {
		log.Warn().Err(err).Msg("error printing banner")
	}

	log.Info().
		Str("address", listener.Addr().String()).
		Str("connect", banner.ConnectAddress()).
		Str("engine", cfg.Engine.Path).
		Msg(app.MsgWaitingForConnections)

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
