// Package main provides the dicomquery command line client.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jonwraymond/dicomquery/config"
	"github.com/jonwraymond/dicomquery/health"
	"github.com/jonwraymond/dicomquery/observe"
	"github.com/jonwraymond/dicomquery/query"
	"github.com/jonwraymond/dicomquery/remote"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(execute())
}

func execute() int {
	configPath := flag.String("config", os.Getenv("DICOMQUERY_CONFIG"), "Path to a YAML config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = usage
	flag.Parse()

	// stdout carries command output, so log to stderr
	log.Logger = consoleLogger(os.Stderr, *debug)

	if flag.NArg() == 0 {
		usage()
		return exitUsage
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load config")
		return exitError
	}
	if *debug {
		cfg.Observe.Logging.Enabled = true
		cfg.Observe.Logging.Level = "debug"
	}
	cfg.Observe.Version = Version

	obs, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize telemetry")
		return exitError
	}
	defer func() {
		if err := obs.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	a, err := newApp(cfg, obs)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build client")
		return exitError
	}
	log.Debug().Str("endpoint", cfg.Endpoint).Str("transport", cfg.Transport).Msg("Client ready")

	return a.run(ctx, flag.Args())
}

// consoleLogger returns the logger for command diagnostics. Its level is
// set on the logger itself; the global zerolog level stays open so the
// telemetry logger follows its own configured level.
func consoleLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// newApp wires the invoker, query client and health checks from cfg.
func newApp(cfg *config.Config, obs observe.Observer) (*app, error) {
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}
	dial, err := cfg.Dialer()
	if err != nil {
		return nil, err
	}
	opts := append(cfg.InvokerOptions(),
		remote.WithMiddleware(mw),
		remote.WithClientInfo(remote.DefaultClientName, Version),
	)
	inv, err := remote.NewInvoker(dial, opts...)
	if err != nil {
		return nil, err
	}

	qopts := cfg.QueryOptions()
	qopts.Logger = obs.Logger()
	client, err := query.New(inv, qopts)
	if err != nil {
		return nil, err
	}

	return &app{
		client: client,
		health: newHealth(inv, client),
		out:    os.Stdout,
		errOut: os.Stderr,
	}, nil
}

func newHealth(p health.Pinger, client *query.Client) *health.Aggregator {
	agg := health.NewAggregator()
	agg.Register(
		health.NewRemoteChecker("remote", p, health.RemoteCheckerConfig{}),
		health.NewResultChecker("nodes", client.ListNodes),
	)
	return agg
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: dicomquery [-config file] [-debug] <command> [flags]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  tools              list the available query tools\n")
	fmt.Fprintf(out, "  health             check the remote service\n")
	fmt.Fprintf(out, "  <tool> [-Arg v]    run a query tool, e.g. query_patients -PatientName 'DOE^*'\n\n")
	fmt.Fprintf(out, "Global flags:\n")
	flag.PrintDefaults()
}
