package controller

import (
	"fmt"
	"strings"

	"go.dedis.ch/nearapi/api/account"
	"go.dedis.ch/nearapi/cli/client"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

// viewAction prints the state of an account.
//
// - implements client.ActionTemplate
type viewAction struct{}

// Execute implements client.ActionTemplate.
func (viewAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	id := types.AccountID(ctx.Flags.String(accountFlag))

	view, err := account.Of(id).View().Fetch(ctx.Ctx, net)
	if err != nil {
		return xerrors.Errorf("couldn't read account: %v", err)
	}

	fmt.Fprintf(ctx.Out, "Account %s at block #%d\n", id, view.BlockHeight)
	fmt.Fprintf(ctx.Out, "  balance: %v\n", view.Value.Amount)
	fmt.Fprintf(ctx.Out, "  locked: %v\n", view.Value.Locked)
	fmt.Fprintf(ctx.Out, "  storage: %d bytes\n", view.Value.StorageUsage)

	return nil
}

// keysAction prints the access keys of an account.
//
// - implements client.ActionTemplate
type keysAction struct{}

// Execute implements client.ActionTemplate.
func (keysAction) Execute(ctx client.Context) error {
	var net *network.Config
	err := ctx.Injector.Resolve(&net)
	if err != nil {
		return xerrors.Errorf("injector: %v", err)
	}

	id := types.AccountID(ctx.Flags.String(accountFlag))

	list, err := account.Of(id).ListKeys().Fetch(ctx.Ctx, net)
	if err != nil {
		return xerrors.Errorf("couldn't list keys: %v", err)
	}

	fmt.Fprintf(ctx.Out, "Account %s has %d key(s)\n", id, len(list.Keys))

	for _, info := range list.Keys {
		fmt.Fprintf(ctx.Out, "  %v nonce=%d %s\n", info.PublicKey.PublicKey,
			info.AccessKey.Nonce, permission(info.AccessKey.Permission))
	}

	return nil
}

func permission(p types.AccessKeyPermission) string {
	if p.IsFullAccess() {
		return "full access"
	}

	call := p.FunctionCall

	text := fmt.Sprintf("function call on %s", call.ReceiverID)

	if len(call.MethodNames) > 0 {
		text += fmt.Sprintf(" [%s]", strings.Join(call.MethodNames, ", "))
	}

	if call.Allowance != nil {
		text += fmt.Sprintf(" allowance %v", *call.Allowance)
	}

	return text
}
