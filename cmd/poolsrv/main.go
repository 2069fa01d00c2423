package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/poolhouse/poolhouse/internal/common/logtrace"
	"github.com/poolhouse/poolhouse/internal/poolsrv/config"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/dbmanager"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/memstore"
	"github.com/poolhouse/poolhouse/internal/poolsrv/db/postgresql"
	"github.com/poolhouse/poolhouse/internal/poolsrv/server"
)

type cmdoptions struct {
	configFile *string
	console    *bool
}

func main() {
	opt := parseFlags()
	if *opt.console {
		logtrace.InitConsoleLogger()
	} else {
		logtrace.InitLogger()
	}
	slog := log.With().Str("state", "init").Logger()

	slog.Info().Str("config_file", *opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(*opt.configFile); err != nil {
		slog.Error().Str("config_file", *opt.configFile).Err(err).Msg("unable to load config file")
		os.Exit(1)
	}
	if config.Config().ServerPort == "" {
		slog.Error().Msg("server port not defined")
		os.Exit(1)
	}

	backend, err := newBackend()
	if err != nil {
		slog.Error().Err(err).Msg("unable to initialize store backend")
		os.Exit(1)
	}

	s, err := server.CreateNewServer(backend)
	if err != nil {
		slog.Error().Err(err).Msg("unable to create server")
		os.Exit(1)
	}
	s.MountHandlers()

	slog.Info().Str("port", config.Config().ServerPort).Msg("starting server")
	if err := http.ListenAndServe(":"+config.Config().ServerPort, s.Router); err != nil {
		slog.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func newBackend() (server.Backend, error) {
	switch config.Config().StoreBackend {
	case "postgresql":
		pool, err := dbmanager.NewPool(config.Config().DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return postgresql.NewStore(pool), nil
	case "memory", "":
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend: %s", config.Config().StoreBackend)
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	opt.configFile = flag.String("config", "", "Path to the config file")
	opt.console = flag.Bool("console", false, "Log in human-readable console format")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
