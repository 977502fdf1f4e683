// Package controller implements the commands of the CLI that read the
// balances of an account and send tokens.
package controller

import (
	"go.dedis.ch/nearapi/cli"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/executor"
	"go.dedis.ch/nearapi/core/signer"
)

const (
	accountFlag     = "account"
	contractFlag    = "contract"
	fromFlag        = "from"
	toFlag          = "to"
	amountFlag      = "amount"
	metaFlag        = "meta"
	retriesFlag     = "retries"
	secretKeyFlag   = "secret-key"
	credentialsFlag = "credentials"
	ledgerFlag      = "ledger"
)

// DeviceOpener opens the hardware device that signs when the ledger flag is
// set.
type DeviceOpener func() (signer.Device, error)

// tokensController defines the tokens and send commands.
//
// - implements client.Initializer
type tokensController struct {
	store  signer.Store
	opener DeviceOpener
}

// NewController returns the initializer of the tokens commands. The keys are
// looked up in the keychain of the operating system.
func NewController() client.Initializer {
	return tokensController{
		store:  signer.NewOSStore(),
		opener: signer.OpenLedger,
	}
}

// SetCommands implements client.Initializer.
func (tokensController) SetCommands(builder client.Builder) {
	account := cli.StringFlag{
		Name:     accountFlag,
		Aliases:  []string{"a"},
		Usage:    "identifier of the account",
		Required: true,
	}

	cmd := builder.SetCommand("tokens")
	cmd.SetDescription("read the balances of an account")

	sub := cmd.SetSubCommand("near")
	sub.SetDescription("print the NEAR balance of the account")
	sub.SetFlags(account)
	sub.SetAction(builder.MakeAction(nearBalanceAction{}))

	sub = cmd.SetSubCommand("ft")
	sub.SetDescription("print the balance of the account in a fungible token")
	sub.SetFlags(account, cli.StringFlag{
		Name:     contractFlag,
		Usage:    "account of the token contract",
		Required: true,
	})
	sub.SetAction(builder.MakeAction(ftBalanceAction{}))

	cmd = builder.SetCommand("send")
	cmd.SetDescription("send tokens to an account")

	sub = cmd.SetSubCommand("near")
	sub.SetDescription("send NEAR to an account")
	sub.SetFlags(
		cli.StringFlag{
			Name:     fromFlag,
			Usage:    "account that signs and pays",
			Required: true,
		},
		cli.StringFlag{
			Name:     toFlag,
			Usage:    "account that receives",
			Required: true,
		},
		cli.StringFlag{
			Name:     amountFlag,
			Usage:    "amount of NEAR, like 1.5",
			Required: true,
		},
		cli.BoolFlag{
			Name:  metaFlag,
			Usage: "send a delegate action to the relayer of the network",
		},
		cli.IntFlag{
			Name:  retriesFlag,
			Usage: "number of resubmissions on transient failures",
			Value: executor.DefaultRetries,
		},
		cli.StringFlag{
			Name:  secretKeyFlag,
			Usage: "secret key of the signer, like ed25519:...",
		},
		cli.StringFlag{
			Name:  credentialsFlag,
			Usage: "path to the JSON credentials of the signer",
		},
		cli.StringFlag{
			Name:  ledgerFlag,
			Usage: "derivation path of the key of a ledger device, like " + signer.DefaultHDPath,
		},
	)
	sub.SetAction(builder.MakeAction(sendNearAction{}))
}

// OnStart implements client.Initializer. It injects the credential store and
// the device opener.
func (c tokensController) OnStart(flags cli.Flags, inj client.Injector) error {
	inj.Inject(c.store)
	inj.Inject(c.opener)

	return nil
}

// OnStop implements client.Initializer.
func (tokensController) OnStop(client.Injector) error {
	return nil
}
