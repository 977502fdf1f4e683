// Package cli defines the Builder type, which allows one to build a CLI
// application in a modular way.
//
//	builder := ucli.NewBuilder("nearapi", nil)
//
//	cmd := builder.SetCommand("balance")
//	cmd.SetDescription("print the balance of an account")
//	cmd.SetFlags(cli.StringFlag{Name: "account", Required: true})
//	cmd.SetAction(func(flags cli.Flags) error {
//		fmt.Printf("reading %s\n", flags.String("account"))
//		return nil
//	})
//
//	builder.Build().Run(os.Args)
//
// The actions of the commands only see the flags, so that the client
// package can wrap them with the lifecycle of the dependencies.
package cli

import (
	"time"
)

// Builder defines the commands of an application and builds it.
type Builder interface {
	// SetCommand returns the builder of a new top-level command.
	SetCommand(name string) CommandBuilder

	// Build returns the application of the commands defined so far.
	Build() Application
}

// Application parses the arguments and runs the selected command.
type Application interface {
	Run(arguments []string) error
}

// CommandBuilder defines a command and its subcommands.
type CommandBuilder interface {
	// SetDescription sets the short text printed by the help.
	SetDescription(value string)

	// SetFlags adds the flags of the command.
	SetFlags(...Flag)

	// SetAction sets the function run when the command is selected.
	SetAction(Action)

	// SetSubCommand returns the builder of a subcommand. The builder of an
	// existing subcommand with the same name is returned.
	SetSubCommand(name string) CommandBuilder
}

// Action is run with the parsed flags when a command is selected.
type Action func(Flags) error

// Flag is the definition of a flag. The implementations are the flag types of
// this package.
type Flag interface {
	Flag()
}

// Flags reads the values of the flags. A flag of the application or of a
// parent command is readable from a subcommand. A flag that is not set
// returns its default value.
type Flags interface {
	String(name string) string
	StringSlice(name string) []string
	Duration(name string) time.Duration
	Path(name string) string
	Int(name string) int
	Bool(name string) bool
}
