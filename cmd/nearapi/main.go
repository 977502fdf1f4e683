// Package main implements the command line client of a NEAR network. The
// environment sets the defaults of the global flags.
//
// Usage:
//
//	nearapi [--network testnet] account view --account alice.testnet
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog"
	"go.dedis.ch/nearapi"
	account "go.dedis.ch/nearapi/api/account/controller"
	chain "go.dedis.ch/nearapi/api/chain/controller"
	tokens "go.dedis.ch/nearapi/api/tokens/controller"
	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/client"
	network "go.dedis.ch/nearapi/core/network/controller"
	key "go.dedis.ch/nearapi/core/signer/controller"
	"go.dedis.ch/nearapi/internal/tracing"
	"golang.org/x/xerrors"
)

const serviceName = "nearapi"

func main() {
	nearapi.Logger = nearapi.Logger.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	err := run(os.Args, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return xerrors.Errorf("couldn't load config: %v", err)
	}

	if cfg.Tracing {
		tracer, err := tracing.GetTracerForService(serviceName)
		if err != nil {
			return xerrors.Errorf("couldn't create tracer: %v", err)
		}

		opentracing.SetGlobalTracer(tracer)

		defer func() {
			err := tracing.CloseAll()
			if err != nil {
				nearapi.Logger.Warn().Err(err).Msg("failed to close tracers")
			}
		}()
	}

	builder := client.NewBuilder(serviceName, out, flags(cfg),
		network.NewController(),
		account.NewController(),
		chain.NewController(),
		tokens.NewController(),
		key.NewController(),
	)

	return builder.Build().Run(args)
}

func flags(cfg Config) []cli.Flag {
	list := network.Flags(cfg.Network, cfg.NetworkFile, cfg.Cache)

	return append(list, cli.DurationFlag{
		Name:  client.TimeoutFlag,
		Usage: "maximum duration of a command, zero to disable",
		Value: cfg.Timeout,
	})
}
