// Package client defines the Builder type, which builds a CLI application
// acting as a client of a network.
//
// The application is made of initializers. Each of them sets its commands and
// injects the components its actions need, like the configuration of the
// network. The components are created for each invocation of an action, and
// released when it returns. See the example.
package client

import (
	"context"
	"io"

	"go.dedis.ch/nearapi/cli"
)

// Builder is the builder that will be provided to the initializers, which can
// create commands and actions.
type Builder interface {
	// SetCommand creates a new command and returns its builder.
	SetCommand(name string) cli.CommandBuilder

	// MakeAction creates a CLI action from a given template.
	MakeAction(ActionTemplate) cli.Action
}

// ActionTemplate is an extension of the cli.Action interface to allow an action
// to use the components of the initializers.
type ActionTemplate interface {
	// Execute processes a command of the CLI.
	Execute(Context) error
}

// Context is the context available to the action when being invoked. It
// provides the dependency injector alongside with the input and output.
type Context struct {
	// Ctx is canceled on interruption or when the timeout expires.
	Ctx      context.Context
	Injector Injector
	Flags    cli.Flags
	Out      io.Writer
}

// Injector is a dependency injection abstraction.
type Injector interface {
	// Resolve populates the input with the dependency if any compatible exists.
	Resolve(interface{}) error

	// Inject stores the dependency to be resolved later on.
	Inject(interface{})
}

// Initializer is the interface that a module can implement to set its own
// commands and inject the dependencies that will be resolved in the actions.
type Initializer interface {
	// SetCommands populates the builder with the commands of the
	// initializer.
	SetCommands(Builder)

	// OnStart creates the components of the initializer and populates the
	// injector.
	OnStart(cli.Flags, Injector) error

	// OnStop releases the components.
	OnStop(Injector) error
}
