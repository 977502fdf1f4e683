// Package controller implements the commands of the CLI that manage the keys
// of the accounts, either in credentials files or in the keychain of the
// operating system.
package controller

import (
	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/signer"
)

const (
	accountFlag   = "account"
	dirFlag       = "dir"
	secretKeyFlag = "secret-key"
)

// keyController defines the key commands.
//
// - implements client.Initializer
type keyController struct {
	store signer.Store
}

// NewController returns the initializer of the key commands.
func NewController() client.Initializer {
	return keyController{store: signer.NewOSStore()}
}

// SetCommands implements client.Initializer.
func (keyController) SetCommands(builder client.Builder) {
	account := cli.StringFlag{
		Name:     accountFlag,
		Aliases:  []string{"a"},
		Usage:    "identifier of the account",
		Required: true,
	}

	cmd := builder.SetCommand("key")
	cmd.SetDescription("manage the keys of the accounts")

	sub := cmd.SetSubCommand("generate")
	sub.SetDescription("create the credentials file of an account if it does not exist")
	sub.SetFlags(account, cli.StringFlag{
		Name:     dirFlag,
		Usage:    "directory of the credentials files",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(generateAction{}))

	sub = cmd.SetSubCommand("import")
	sub.SetDescription("store a secret key of an account in the keychain")
	sub.SetFlags(account, cli.StringFlag{
		Name:     secretKeyFlag,
		Usage:    "secret key, like ed25519:...",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(importAction{}))

	sub = cmd.SetSubCommand("list")
	sub.SetDescription("print the full access keys of an account found in the keychain")
	sub.SetFlags(account)
	sub.SetAction(builder.MakeAction(listAction{}))
}

// OnStart implements client.Initializer. It injects the keychain.
func (c keyController) OnStart(flags cli.Flags, inj client.Injector) error {
	inj.Inject(c.store)

	return nil
}

// OnStop implements client.Initializer.
func (keyController) OnStop(client.Injector) error {
	return nil
}
