package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dcs-tacmap/terrain-data-generator/internal/config"
	"github.com/dcs-tacmap/terrain-data-generator/internal/logging"
)

// Version and BuildDate can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

func main() {
	if err := config.Load("."); err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	lc := config.GetLoggingConfig()
	graylogAddress := ""
	if lc.Graylog.Enabled {
		graylogAddress = lc.Graylog.Address
	}
	log, closer, err := logging.Setup(os.Stdout, lc.Level, graylogAddress)
	if err != nil {
		panic(fmt.Errorf("failed to set up logging: %w", err))
	}

	log.Info().Str("version", Version).Str("buildDate", BuildDate).Msg("Starting up...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, os.Args[1:], os.Stdout, log)
	stop()

	code := 0
	if err != nil {
		log.Error().Err(err).Msg("Failed")
		code = 1
	}
	_ = closer.Close()
	os.Exit(code)
}
