// Package controller implements the initializer that provides the
// configuration of the network to the actions of the CLI.
package controller

import (
	"fmt"

	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/network"
	"golang.org/x/xerrors"
)

const (
	// NetworkFlag is the name of the flag of the preset network.
	NetworkFlag = "network"

	// NetworkFileFlag is the name of the flag of the path to a YAML
	// configuration. It has priority over the preset.
	NetworkFileFlag = "network-file"

	// CacheFlag is the name of the flag of the path to the database of pinned
	// responses.
	CacheFlag = "cache"
)

// Flags returns the global flags that select the network, with their default
// values.
func Flags(name, file, cache string) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:    NetworkFlag,
			Aliases: []string{"n"},
			Usage:   "name of the network, either mainnet or testnet",
			Value:   name,
		},
		cli.StringFlag{
			Name:  NetworkFileFlag,
			Usage: "path to the YAML configuration of a network",
			Value: file,
		},
		cli.StringFlag{
			Name:  CacheFlag,
			Usage: "path to the cache of the responses read at a block height",
			Value: cache,
		},
	}
}

// netController is the initializer of the network configuration.
//
// - implements client.Initializer
type netController struct{}

// NewController returns the initializer of the network configuration.
func NewController() client.Initializer {
	return netController{}
}

// SetCommands implements client.Initializer. It sets the command to print the
// configuration.
func (netController) SetCommands(builder client.Builder) {
	cmd := builder.SetCommand("network")
	cmd.SetDescription("inspect the network configuration")

	sub := cmd.SetSubCommand("show")
	sub.SetDescription("print the configuration of the selected network")
	sub.SetAction(builder.MakeAction(showAction{}))
}

// OnStart implements client.Initializer. It injects the configuration of the
// network selected by the flags.
func (netController) OnStart(flags cli.Flags, inj client.Injector) error {
	net, err := Load(flags)
	if err != nil {
		return err
	}

	inj.Inject(net)

	return nil
}

// OnStop implements client.Initializer. It closes the transport of the
// network.
func (netController) OnStop(inj client.Injector) error {
	var net *network.Config
	err := inj.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	return net.Close()
}

// Load returns the network configuration selected by the flags.
func Load(flags cli.Flags) (*network.Config, error) {
	var net *network.Config
	var err error

	path := flags.Path(NetworkFileFlag)
	if path != "" {
		net, err = network.LoadFile(path)
	} else {
		net, err = network.FromName(flags.String(NetworkFlag))
	}

	if err != nil {
		return nil, xerrors.Errorf("couldn't load network: %v", err)
	}

	cache := flags.Path(CacheFlag)
	if cache != "" {
		net.CachePath = cache
	}

	return net, nil
}

// showAction prints the configuration of the network.
//
// - implements client.ActionTemplate
type showAction struct{}

// Execute implements client.ActionTemplate.
func (showAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	data, err := net.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprint(ctx.Out, string(data))

	return nil
}
