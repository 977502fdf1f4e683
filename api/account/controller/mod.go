// Package controller implements the commands of the CLI that read the state
// of an account.
package controller

import (
	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/client"
)

// accountFlag is the name of the flag of the account.
const accountFlag = "account"

// accountController defines the account commands.
//
// - implements client.Initializer
type accountController struct{}

// NewController returns the initializer of the account commands.
func NewController() client.Initializer {
	return accountController{}
}

// SetCommands implements client.Initializer.
func (accountController) SetCommands(builder client.Builder) {
	cmd := builder.SetCommand("account")
	cmd.SetDescription("read the state of an account")

	flag := cli.StringFlag{
		Name:     accountFlag,
		Aliases:  []string{"a"},
		Usage:    "identifier of the account",
		Required: true,
	}

	sub := cmd.SetSubCommand("view")
	sub.SetDescription("print the balance and the storage of the account")
	sub.SetFlags(flag)
	sub.SetAction(builder.MakeAction(viewAction{}))

	sub = cmd.SetSubCommand("keys")
	sub.SetDescription("print the access keys of the account")
	sub.SetFlags(flag)
	sub.SetAction(builder.MakeAction(keysAction{}))
}

// OnStart implements client.Initializer.
func (accountController) OnStart(cli.Flags, client.Injector) error {
	return nil
}

// OnStop implements client.Initializer.
func (accountController) OnStop(client.Injector) error {
	return nil
}
