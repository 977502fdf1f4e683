// Package ucli provides a cli builder implementation based on the urfave/cli
// library.
package ucli

import (
	"fmt"
	"io"
	"os"

	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/nearapi/cli"
)

// Builder implements a cli builder based on urfave/cli.
//
// - implements cli.Builder
type Builder struct {
	name     string
	usage    string
	version  string
	writer   io.Writer
	commands []*cmdBuilder
	flags    []cli.Flag
}

// Option is the type of option to set some fields of a builder.
type Option func(*Builder)

// WithUsage sets the description of the application.
func WithUsage(usage string) Option {
	return func(b *Builder) {
		b.usage = usage
	}
}

// WithVersion sets the version printed by the application.
func WithVersion(version string) Option {
	return func(b *Builder) {
		b.version = version
	}
}

// WithWriter sets the output of the help and the version.
func WithWriter(w io.Writer) Option {
	return func(b *Builder) {
		b.writer = w
	}
}

// NewBuilder returns a new initialized builder. Flags provides the global
// flags available from all the commands and subcommands.
func NewBuilder(name string, flags []cli.Flag, opts ...Option) *Builder {
	b := &Builder{
		name:   name,
		writer: os.Stdout,
		flags:  flags,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build implements cli.Builder.
func (b *Builder) Build() cli.Application {
	app := &urfave.App{
		Name:        b.name,
		Usage:       b.usage,
		Version:     b.version,
		HideVersion: b.version == "",
		Writer:      b.writer,
		Commands:    buildCommand(b.commands),
		Flags:       buildFlags(b.flags),
	}

	app.Setup()

	return app
}

// SetCommand implements cli.Builder.
func (b *Builder) SetCommand(name string) cli.CommandBuilder {
	cmd := &cmdBuilder{
		name: name,
	}
	b.commands = append(b.commands, cmd)

	return cmd
}

// cmdBuilder is the struct provided to build commands.
//
// - implements cli.CommandBuilder
type cmdBuilder struct {
	name        string
	description string
	action      cli.Action
	flags       []urfave.Flag
	subcommands []*cmdBuilder
}

// SetDescription implements cli.CommandBuilder.
func (b *cmdBuilder) SetDescription(value string) {
	b.description = value
}

// SetFlags implements cli.CommandBuilder. Flags are appended to the ones
// already set.
func (b *cmdBuilder) SetFlags(flags ...cli.Flag) {
	b.flags = append(b.flags, buildFlags(flags)...)
}

// SetAction implements cli.CommandBuilder.
func (b *cmdBuilder) SetAction(action cli.Action) {
	b.action = action
}

// SetSubCommand implements cli.CommandBuilder. The subcommand of an existing
// name is returned instead of a new one.
func (b *cmdBuilder) SetSubCommand(name string) cli.CommandBuilder {
	for _, sub := range b.subcommands {
		if sub.name == name {
			return sub
		}
	}

	builder := &cmdBuilder{
		name: name,
	}
	b.subcommands = append(b.subcommands, builder)

	return builder
}

// buildFlags converts cli.Flag to their corresponding urfave/cli.
func buildFlags(flags []cli.Flag) []urfave.Flag {
	res := make([]urfave.Flag, len(flags))

	for i, f := range flags {
		var flag urfave.Flag

		switch e := f.(type) {
		case cli.StringFlag:
			flag = &urfave.StringFlag{
				Name:     e.Name,
				Aliases:  e.Aliases,
				Usage:    e.Usage,
				Required: e.Required,
				Value:    e.Value,
			}
		case cli.StringSliceFlag:
			flag = &urfave.StringSliceFlag{
				Name:     e.Name,
				Aliases:  e.Aliases,
				Usage:    e.Usage,
				Required: e.Required,
				Value:    urfave.NewStringSlice(e.Value...),
			}
		case cli.DurationFlag:
			flag = &urfave.DurationFlag{
				Name:     e.Name,
				Aliases:  e.Aliases,
				Usage:    e.Usage,
				Required: e.Required,
				Value:    e.Value,
			}
		case cli.IntFlag:
			flag = &urfave.IntFlag{
				Name:     e.Name,
				Aliases:  e.Aliases,
				Usage:    e.Usage,
				Required: e.Required,
				Value:    e.Value,
			}
		case cli.BoolFlag:
			flag = &urfave.BoolFlag{
				Name:    e.Name,
				Aliases: e.Aliases,
				Usage:   e.Usage,
				Value:   e.Value,
			}
		default:
			panic(fmt.Sprintf("flag type '%T' not supported", f))
		}

		res[i] = flag
	}

	return res
}

// buildCommand recursively builds the commands from a cmdBuilder struct to a
// urfave commands.
func buildCommand(cmds []*cmdBuilder) []*urfave.Command {
	commands := make([]*urfave.Command, len(cmds))

	for i, cmd := range cmds {
		commands[i] = &urfave.Command{
			Name:        cmd.name,
			Usage:       cmd.description,
			Action:      makeAction(cmd.action),
			Flags:       cmd.flags,
			Subcommands: buildCommand(cmd.subcommands),
		}
	}

	return commands
}

// makeAction transforms a cli.Action to its urfave form. The urfave context
// provides the flags of the command and of its ancestors.
func makeAction(action cli.Action) urfave.ActionFunc {
	if action == nil {
		return nil
	}

	return func(ctx *urfave.Context) error {
		if ctx == nil {
			return action(nil)
		}

		return action(ctx)
	}
}
