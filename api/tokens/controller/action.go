package controller

import (
	"fmt"
	"io"

	"go.dedis.ch/nearapi/api/tokens"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/executor"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/signer"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto/common"
	"go.dedis.ch/nearapi/crypto/loader"
	"golang.org/x/xerrors"
)

// nearBalanceAction prints the NEAR balance of an account.
//
// - implements client.ActionTemplate
type nearBalanceAction struct{}

// Execute implements client.ActionTemplate.
func (nearBalanceAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	id := types.AccountID(ctx.Flags.String(accountFlag))

	balance, err := tokens.Of(id).NearBalance().Fetch(ctx.Ctx, net)
	if err != nil {
		return xerrors.Errorf("couldn't read balance: %v", err)
	}

	fmt.Fprintf(ctx.Out, "Balance of %s\n", id)
	fmt.Fprintf(ctx.Out, "  liquid: %v\n", balance.Liquid)
	fmt.Fprintf(ctx.Out, "  locked: %v\n", balance.Locked)
	fmt.Fprintf(ctx.Out, "  storage: %d bytes\n", balance.StorageUsage)

	return nil
}

// ftBalanceAction prints the balance of an account in a fungible token.
//
// - implements client.ActionTemplate
type ftBalanceAction struct{}

// Execute implements client.ActionTemplate.
func (ftBalanceAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	id := types.AccountID(ctx.Flags.String(accountFlag))
	ft := types.AccountID(ctx.Flags.String(contractFlag))

	builder, err := tokens.Of(id).FTBalance(ft)
	if err != nil {
		return xerrors.Errorf("couldn't create query: %v", err)
	}

	balance, err := builder.Fetch(ctx.Ctx, net)
	if err != nil {
		return xerrors.Errorf("couldn't read balance: %v", err)
	}

	fmt.Fprintf(ctx.Out, "Balance of %s in %s: %v\n", id, ft, balance)

	return nil
}

// sendNearAction sends NEAR from an account to another one, either as a
// transaction or as a delegate action through the relayer.
//
// - implements client.ActionTemplate
type sendNearAction struct{}

// Execute implements client.ActionTemplate.
func (sendNearAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	from := types.AccountID(ctx.Flags.String(fromFlag))
	to := types.AccountID(ctx.Flags.String(toFlag))

	amount, err := parseNear(ctx.Flags.String(amountFlag))
	if err != nil {
		return err
	}

	tx, err := tokens.Of(from).SendTo(to).Near(amount)
	if err != nil {
		return xerrors.Errorf("couldn't create transaction: %v", err)
	}

	backend, err := loadBackend(ctx, net, from)
	if err != nil {
		return xerrors.Errorf("couldn't load signer: %v", err)
	}

	closer, ok := backend.(io.Closer)
	if ok {
		defer closer.Close()
	}

	retries := ctx.Flags.Int(retriesFlag)
	if retries < 0 {
		return xerrors.Errorf("invalid retries %d", retries)
	}

	exec := executor.New(signer.New(backend), executor.WithRetries(uint(retries)))

	if ctx.Flags.Bool(metaFlag) {
		resp, err := exec.ExecuteMeta(ctx.Ctx, tx, net)
		if err != nil {
			return xerrors.Errorf("couldn't relay transfer: %v", err)
		}

		fmt.Fprintf(ctx.Out, "Relayer answered with status %d\n", resp.StatusCode)
		fmt.Fprintf(ctx.Out, "  %s\n", resp.Body)

		return nil
	}

	outcome, err := exec.Execute(ctx.Ctx, tx, net)
	if err != nil {
		return xerrors.Errorf("couldn't send transfer: %v", err)
	}

	failure := outcome.Failure()
	if failure != nil {
		return xerrors.Errorf("transfer %v failed: %s", outcome.TransactionHash(), failure)
	}

	fmt.Fprintf(ctx.Out, "Sent %v from %s to %s\n", amount, from, to)
	fmt.Fprintf(ctx.Out, "  transaction: %v\n", outcome.TransactionHash())
	fmt.Fprintf(ctx.Out, "  gas burnt: %d\n", outcome.TotalGasBurnt())

	return nil
}

// loadBackend returns the signing backend selected by the flags. The secret
// key has priority over the credentials file, then the ledger device. The
// keystore is searched when none is set.
func loadBackend(ctx client.Context, net *network.Config, from types.AccountID) (signer.Backend, error) {
	if text := ctx.Flags.String(secretKeyFlag); text != "" {
		secret, err := common.ParseSecretKey(text)
		if err != nil {
			return nil, xerrors.Errorf("invalid secret key: %v", err)
		}

		return signer.NewSecretKey(secret), nil
	}

	if path := ctx.Flags.Path(credentialsFlag); path != "" {
		data, err := loader.NewFileLoader(path).Load()
		if err != nil {
			return nil, xerrors.Errorf("couldn't read credentials: %v", err)
		}

		creds, err := loader.ParseCredentials(data)
		if err != nil {
			return nil, err
		}

		if creds.AccountID != "" && types.AccountID(creds.AccountID) != from {
			return nil, xerrors.Errorf("credentials of '%s' cannot sign for '%s'", creds.AccountID, from)
		}

		secret, err := creds.Signer()
		if err != nil {
			return nil, err
		}

		return signer.NewSecretKey(secret), nil
	}

	if path := ctx.Flags.String(ledgerFlag); path != "" {
		var open DeviceOpener
		err := ctx.Injector.Resolve(&open)
		if err != nil {
			return nil, xerrors.Errorf("injector: %v", err)
		}

		return signer.NewLedger(path, signer.WithOpener(open))
	}

	var store signer.Store
	err := ctx.Injector.Resolve(&store)
	if err != nil {
		return nil, xerrors.Errorf("injector: %v", err)
	}

	return signer.SearchKeystore(ctx.Ctx, from, net, store)
}

// parseNear parses an amount of NEAR written with at most 24 decimals.
func parseNear(text string) (types.NearToken, error) {
	balance, err := tokens.NewFTBalance(types.NearDecimals).WithDecimalString(text)
	if err != nil {
		return types.NearToken{}, xerrors.Errorf("invalid amount: %v", err)
	}

	return types.ParseYocto(balance.Amount().Dec())
}
