package controller

import (
	"fmt"

	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/signer"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto/common"
	"go.dedis.ch/nearapi/crypto/loader"
	"golang.org/x/xerrors"
)

// generateAction creates the credentials file of an account. An existing file
// is left untouched.
//
// - implements client.ActionTemplate
type generateAction struct{}

// Execute implements client.ActionTemplate.
func (generateAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	account := ctx.Flags.String(accountFlag)

	err = types.AccountID(account).Validate()
	if err != nil {
		return err
	}

	path := loader.CredentialsPath(ctx.Flags.Path(dirFlag), net.Name, account)

	creds, err := loader.LoadOrCreateCredentials(loader.NewFileLoader(path), account)
	if err != nil {
		return xerrors.Errorf("couldn't load credentials: %v", err)
	}

	fmt.Fprintf(ctx.Out, "Credentials of %s in %s\n", creds.AccountID, path)
	fmt.Fprintf(ctx.Out, "  public key: %s\n", creds.PublicKey)

	return nil
}

// importAction stores a secret key in the keychain.
//
// - implements client.ActionTemplate
type importAction struct{}

// Execute implements client.ActionTemplate.
func (importAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	var store signer.Store
	err = ctx.Injector.Resolve(&store)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	account := types.AccountID(ctx.Flags.String(accountFlag))

	secret, err := common.ParseSecretKey(ctx.Flags.String(secretKeyFlag))
	if err != nil {
		return xerrors.Errorf("invalid secret key: %v", err)
	}

	err = signer.Save(store, account, net.Name, secret)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Stored %v for %s on %s\n", secret.GetPublicKey(), account, net.Name)

	return nil
}

// listAction prints the full access keys of an account that have their secret
// in the keychain.
//
// - implements client.ActionTemplate
type listAction struct{}

// Execute implements client.ActionTemplate.
func (listAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	var store signer.Store
	err = ctx.Injector.Resolve(&store)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	account := types.AccountID(ctx.Flags.String(accountFlag))

	backend, err := signer.SearchKeystore(ctx.Ctx, account, net, store)
	if err != nil {
		return xerrors.Errorf("couldn't search keychain: %v", err)
	}

	for _, pk := range backend.Keys() {
		fmt.Fprintln(ctx.Out, pk)
	}

	return nil
}
