// Package controller implements the commands of the CLI that read the blocks
// of the chain.
package controller

import (
	"fmt"
	"time"

	"go.dedis.ch/nearapi/api/chain"
	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

const (
	heightFlag = "height"
	finalFlag  = "final"
)

// chainController defines the chain commands.
//
// - implements client.Initializer
type chainController struct{}

// NewController returns the initializer of the chain commands.
func NewController() client.Initializer {
	return chainController{}
}

// SetCommands implements client.Initializer.
func (chainController) SetCommands(builder client.Builder) {
	cmd := builder.SetCommand("chain")
	cmd.SetDescription("read the blocks of the chain")

	sub := cmd.SetSubCommand("block")
	sub.SetDescription("print a block, the latest one by default")
	sub.SetFlags(
		cli.IntFlag{
			Name:  heightFlag,
			Usage: "height of the block",
		},
		cli.BoolFlag{
			Name:  finalFlag,
			Usage: "read the latest final block",
		},
	)
	sub.SetAction(builder.MakeAction(blockAction{}))
}

// OnStart implements client.Initializer.
func (chainController) OnStart(cli.Flags, client.Injector) error {
	return nil
}

// OnStop implements client.Initializer.
func (chainController) OnStop(client.Injector) error {
	return nil
}

// blockAction prints a block.
//
// - implements client.ActionTemplate
type blockAction struct{}

// Execute implements client.ActionTemplate.
func (blockAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	ref, err := reference(ctx.Flags)
	if err != nil {
		return err
	}

	block, err := chain.Block().AtReference(ref).Fetch(ctx.Ctx, net)
	if err != nil {
		return xerrors.Errorf("couldn't read block: %v", err)
	}

	header := block.Header

	fmt.Fprintf(ctx.Out, "Block #%d %v\n", header.Height, header.Hash)
	fmt.Fprintf(ctx.Out, "  author: %s\n", block.Author)
	fmt.Fprintf(ctx.Out, "  previous: %v\n", header.PrevHash)
	fmt.Fprintf(ctx.Out, "  time: %s\n", time.Unix(0, int64(header.Timestamp)).UTC().Format(time.RFC3339))
	fmt.Fprintf(ctx.Out, "  chunks: %d\n", len(block.Chunks))

	return nil
}

func reference(flags cli.Flags) (types.Reference, error) {
	height := flags.Int(heightFlag)

	switch {
	case height < 0:
		return types.Reference{}, xerrors.Errorf("invalid height %d", height)
	case height > 0 && flags.Bool(finalFlag):
		return types.Reference{}, xerrors.New("height and final are exclusive")
	case height > 0:
		return types.AtHeight(uint64(height)), nil
	case flags.Bool(finalFlag):
		return types.Final(), nil
	default:
		return types.Optimistic(), nil
	}
}
