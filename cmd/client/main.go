package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/uci-relay/internal/app"
	"github.com/MKhiriev/uci-relay/internal/client"
	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// stdout belongs to the chess GUI, so everything here goes to stderr.
func main() {
	log := logger.NewClientLogger("uci-relay-client")
	logBuildInfo(log)

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	leveled, err := log.WithLevel(cfg.Log.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	log = leveled

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	err = client.NewApp(cfg, log).Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, client.ErrConnectFailed):
		fmt.Fprintf(os.Stderr, "%s: %v\n", app.MsgConnectFailed, err)
		stop()
		os.Exit(1)
	default:
		log.Error().Err(err).Msg("client run error")
		stop()
		os.Exit(1)
	}
}

func logBuildInfo(log *logger.Logger) {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	log.Debug().
		Str("build_version", buildVersion).
		Str("build_date", buildDate).
		Str("build_commit", buildCommit).
		Msg("build info")
}
