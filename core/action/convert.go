package action

import (
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

// ToNative returns the native representation of the action.
func ToNative(a Action) (primitives.Action, error) {
	switch in := a.(type) {
	case CreateAccount:
		return primitives.Action{Tag: primitives.TagCreateAccount}, nil
	case DeployContract:
		return primitives.Action{Tag: primitives.TagDeployContract, Code: in.Code()}, nil
	case FunctionCall:
		return primitives.Action{
			Tag:        primitives.TagFunctionCall,
			MethodName: in.MethodName,
			Args:       in.Args(),
			Gas:        uint64(in.Gas),
			Deposit:    primitives.U128(in.Deposit.LE16()),
		}, nil
	case Transfer:
		return primitives.Action{
			Tag:     primitives.TagTransfer,
			Deposit: primitives.U128(in.Deposit.LE16()),
		}, nil
	case Stake:
		if in.PublicKey == nil {
			return primitives.Action{}, xerrors.New("stake: missing public key")
		}

		return primitives.Action{
			Tag:       primitives.TagStake,
			Stake:     primitives.U128(in.Stake.LE16()),
			PublicKey: primitives.NewPublicKey(in.PublicKey),
		}, nil
	case AddKey:
		if in.PublicKey == nil {
			return primitives.Action{}, xerrors.New("add key: missing public key")
		}

		return primitives.Action{
			Tag:       primitives.TagAddKey,
			PublicKey: primitives.NewPublicKey(in.PublicKey),
			AccessKey: accessKeyToNative(in.AccessKey),
		}, nil
	case DeleteKey:
		if in.PublicKey == nil {
			return primitives.Action{}, xerrors.New("delete key: missing public key")
		}

		return primitives.Action{
			Tag:       primitives.TagDeleteKey,
			PublicKey: primitives.NewPublicKey(in.PublicKey),
		}, nil
	case DeleteAccount:
		return primitives.Action{
			Tag:           primitives.TagDeleteAccount,
			BeneficiaryID: string(in.BeneficiaryID),
		}, nil
	case Delegate:
		signed, err := SignedDelegateToNative(in.SignedDelegateAction)
		if err != nil {
			return primitives.Action{}, xerrors.Errorf("delegate: %v", err)
		}

		return primitives.Action{Tag: primitives.TagDelegate, Delegate: &signed}, nil
	default:
		return primitives.Action{}, xerrors.Errorf("unknown action '%T'", a)
	}
}

// FromNative returns the action of the native representation.
func FromNative(a primitives.Action) (Action, error) {
	switch a.Tag {
	case primitives.TagCreateAccount:
		return CreateAccount{}, nil
	case primitives.TagDeployContract:
		return NewDeployContract(a.Code), nil
	case primitives.TagFunctionCall:
		return NewFunctionCall(a.MethodName, a.Args, types.Gas(a.Gas),
			types.NearFromLE16(a.Deposit)), nil
	case primitives.TagTransfer:
		return Transfer{Deposit: types.NearFromLE16(a.Deposit)}, nil
	case primitives.TagStake:
		pk, err := a.PublicKey.ToCrypto()
		if err != nil {
			return nil, xerrors.Errorf("stake: %v", err)
		}

		return Stake{Stake: types.NearFromLE16(a.Stake), PublicKey: pk}, nil
	case primitives.TagAddKey:
		pk, err := a.PublicKey.ToCrypto()
		if err != nil {
			return nil, xerrors.Errorf("add key: %v", err)
		}

		return AddKey{PublicKey: pk, AccessKey: accessKeyFromNative(a.AccessKey)}, nil
	case primitives.TagDeleteKey:
		pk, err := a.PublicKey.ToCrypto()
		if err != nil {
			return nil, xerrors.Errorf("delete key: %v", err)
		}

		return DeleteKey{PublicKey: pk}, nil
	case primitives.TagDeleteAccount:
		return DeleteAccount{BeneficiaryID: types.AccountID(a.BeneficiaryID)}, nil
	case primitives.TagDelegate:
		if a.Delegate == nil {
			return nil, xerrors.New("delegate: missing signed delegate action")
		}

		signed, err := SignedDelegateFromNative(*a.Delegate)
		if err != nil {
			return nil, xerrors.Errorf("delegate: %v", err)
		}

		return Delegate{SignedDelegateAction: signed}, nil
	default:
		return nil, xerrors.Errorf("unknown action tag: %d", a.Tag)
	}
}

// AllToNative converts a sequence of actions.
func AllToNative(actions []Action) ([]primitives.Action, error) {
	out := make([]primitives.Action, len(actions))

	for i, a := range actions {
		native, err := ToNative(a)
		if err != nil {
			return nil, xerrors.Errorf("action #%d: %v", i, err)
		}

		out[i] = native
	}

	return out, nil
}

// AllFromNative converts a sequence of native actions.
func AllFromNative(actions []primitives.Action) ([]Action, error) {
	out := make([]Action, len(actions))

	for i, a := range actions {
		action, err := FromNative(a)
		if err != nil {
			return nil, xerrors.Errorf("action #%d: %v", i, err)
		}

		out[i] = action
	}

	return out, nil
}

// DelegateToNative returns the native representation of the delegate action.
func DelegateToNative(da DelegateAction) (primitives.DelegateAction, error) {
	if da.PublicKey == nil {
		return primitives.DelegateAction{}, xerrors.New("missing public key")
	}

	actions := make([]primitives.Action, len(da.Actions))
	for i, a := range da.Actions {
		native, err := ToNative(a.inner)
		if err != nil {
			return primitives.DelegateAction{}, xerrors.Errorf("action #%d: %v", i, err)
		}

		actions[i] = native
	}

	native := primitives.DelegateAction{
		SenderID:       string(da.SenderID),
		ReceiverID:     string(da.ReceiverID),
		Actions:        actions,
		Nonce:          da.Nonce,
		MaxBlockHeight: da.MaxBlockHeight,
		PublicKey:      primitives.NewPublicKey(da.PublicKey),
	}

	return native, nil
}

// DelegateFromNative returns the delegate action of the native
// representation.
func DelegateFromNative(da primitives.DelegateAction) (DelegateAction, error) {
	pk, err := da.PublicKey.ToCrypto()
	if err != nil {
		return DelegateAction{}, xerrors.Errorf("public key: %v", err)
	}

	actions, err := AllFromNative(da.Actions)
	if err != nil {
		return DelegateAction{}, err
	}

	return NewDelegateAction(types.AccountID(da.SenderID), types.AccountID(da.ReceiverID),
		actions, da.Nonce, da.MaxBlockHeight, pk)
}

// SignedDelegateToNative returns the native representation of the signed
// delegate action.
func SignedDelegateToNative(sda SignedDelegateAction) (primitives.SignedDelegateAction, error) {
	if sda.Signature == nil {
		return primitives.SignedDelegateAction{}, xerrors.New("missing signature")
	}

	da, err := DelegateToNative(sda.DelegateAction)
	if err != nil {
		return primitives.SignedDelegateAction{}, err
	}

	return primitives.SignedDelegateAction{
		DelegateAction: da,
		Signature:      primitives.NewSignature(sda.Signature),
	}, nil
}

// SignedDelegateFromNative returns the signed delegate action of the native
// representation.
func SignedDelegateFromNative(sda primitives.SignedDelegateAction) (SignedDelegateAction, error) {
	da, err := DelegateFromNative(sda.DelegateAction)
	if err != nil {
		return SignedDelegateAction{}, err
	}

	sig, err := sda.Signature.ToCrypto()
	if err != nil {
		return SignedDelegateAction{}, xerrors.Errorf("signature: %v", err)
	}

	return SignedDelegateAction{DelegateAction: da, Signature: sig}, nil
}

func accessKeyToNative(ak AccessKey) primitives.AccessKey {
	native := primitives.AccessKey{Nonce: ak.Nonce}

	perm := ak.Permission.FunctionCall
	if perm == nil {
		return native
	}

	native.FunctionCall = &primitives.FunctionCallPermission{
		ReceiverID:  string(perm.ReceiverID),
		MethodNames: append([]string{}, perm.MethodNames...),
	}

	if perm.Allowance != nil {
		allowance := primitives.U128(perm.Allowance.LE16())
		native.FunctionCall.Allowance = &allowance
	}

	return native
}

func accessKeyFromNative(native primitives.AccessKey) AccessKey {
	perm := native.FunctionCall
	if perm == nil {
		return AccessKey{Nonce: native.Nonce}
	}

	var allowance *types.NearToken
	if perm.Allowance != nil {
		value := types.NearFromLE16(*perm.Allowance)
		allowance = &value
	}

	ak := FunctionCallAccessKey(types.AccountID(perm.ReceiverID), perm.MethodNames, allowance)
	ak.Nonce = native.Nonce

	return ak
}
