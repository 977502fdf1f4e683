package primitives

import (
	"github.com/near/borsh-go"
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/common"
	"golang.org/x/xerrors"
)

// The wire types below give the protocol layout to the borsh library. An
// enumeration is a struct that starts with the index of the variant followed
// by one field per variant, in the order of the protocol.

type wirePublicKey struct {
	Enum      borsh.Enum `borsh_enum:"true"`
	ED25519   [32]byte
	SECP256K1 [64]byte
}

type wireSignature struct {
	Enum      borsh.Enum `borsh_enum:"true"`
	ED25519   [64]byte
	SECP256K1 [65]byte
}

type wireFunctionCallPermission struct {
	Allowance   *U128
	ReceiverID  string
	MethodNames []string
}

type wirePermission struct {
	Enum         borsh.Enum `borsh_enum:"true"`
	FunctionCall wireFunctionCallPermission
	FullAccess   struct{}
}

type wireAccessKey struct {
	Nonce      uint64
	Permission wirePermission
}

type wireDeployContract struct {
	Code []byte
}

type wireFunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    U128
}

type wireTransfer struct {
	Deposit U128
}

type wireStake struct {
	Stake     U128
	PublicKey wirePublicKey
}

type wireAddKey struct {
	PublicKey wirePublicKey
	AccessKey wireAccessKey
}

type wireDeleteKey struct {
	PublicKey wirePublicKey
}

type wireDeleteAccount struct {
	BeneficiaryID string
}

type wireAction struct {
	Enum           borsh.Enum `borsh_enum:"true"`
	CreateAccount  struct{}
	DeployContract wireDeployContract
	FunctionCall   wireFunctionCall
	Transfer       wireTransfer
	Stake          wireStake
	AddKey         wireAddKey
	DeleteKey      wireDeleteKey
	DeleteAccount  wireDeleteAccount
	Delegate       wireSignedDelegateAction
}

type wireTransaction struct {
	SignerID   string
	PublicKey  wirePublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [HashSize]byte
	Actions    []wireAction
}

type wireSignedTransaction struct {
	Transaction wireTransaction
	Signature   wireSignature
}

type wireDelegateAction struct {
	SenderID       string
	ReceiverID     string
	Actions        []wireAction
	Nonce          uint64
	MaxBlockHeight uint64
	PublicKey      wirePublicKey
}

type wireSignedDelegateAction struct {
	DelegateAction wireDelegateAction
	Signature      wireSignature
}

// unmarshal decodes the data into a wire value. The encoding is canonical, so
// the value encodes back to exactly the bytes it was read from and anything
// after is rejected.
func unmarshal[T any](data []byte) (value T, err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = xerrors.Errorf("malformed data: %v", r)
		}
	}()

	err = borsh.Deserialize(&value, data)
	if err != nil {
		return value, xerrors.Errorf("borsh: %v", err)
	}

	read, err := borsh.Serialize(value)
	if err != nil {
		return value, xerrors.Errorf("borsh: %v", err)
	}

	if len(data) > len(read) {
		return value, xerrors.Errorf("%d trailing bytes", len(data)-len(read))
	}

	return value, nil
}

func marshal(value interface{}) ([]byte, error) {
	data, err := borsh.Serialize(value)
	if err != nil {
		return nil, xerrors.Errorf("borsh: %v", err)
	}

	return data, nil
}

func (pk PublicKey) toWire() (wirePublicKey, error) {
	size := common.PublicKeySize(pk.Type)
	if size == 0 || len(pk.Data) != size {
		return wirePublicKey{}, xerrors.Errorf("invalid public key: type %v with %d bytes", pk.Type, len(pk.Data))
	}

	w := wirePublicKey{Enum: borsh.Enum(pk.Type)}

	switch pk.Type {
	case crypto.ED25519:
		copy(w.ED25519[:], pk.Data)
	case crypto.SECP256K1:
		copy(w.SECP256K1[:], pk.Data)
	}

	return w, nil
}

func (w wirePublicKey) native() (PublicKey, error) {
	switch crypto.KeyType(w.Enum) {
	case crypto.ED25519:
		return PublicKey{Type: crypto.ED25519, Data: append([]byte{}, w.ED25519[:]...)}, nil
	case crypto.SECP256K1:
		return PublicKey{Type: crypto.SECP256K1, Data: append([]byte{}, w.SECP256K1[:]...)}, nil
	default:
		return PublicKey{}, xerrors.Errorf("unknown key type: %d", w.Enum)
	}
}

func (sig Signature) toWire() (wireSignature, error) {
	size := common.SignatureSize(sig.Type)
	if size == 0 || len(sig.Data) != size {
		return wireSignature{}, xerrors.Errorf("invalid signature: type %v with %d bytes", sig.Type, len(sig.Data))
	}

	w := wireSignature{Enum: borsh.Enum(sig.Type)}

	switch sig.Type {
	case crypto.ED25519:
		copy(w.ED25519[:], sig.Data)
	case crypto.SECP256K1:
		copy(w.SECP256K1[:], sig.Data)
	}

	return w, nil
}

func (w wireSignature) native() (Signature, error) {
	switch crypto.KeyType(w.Enum) {
	case crypto.ED25519:
		return Signature{Type: crypto.ED25519, Data: append([]byte{}, w.ED25519[:]...)}, nil
	case crypto.SECP256K1:
		return Signature{Type: crypto.SECP256K1, Data: append([]byte{}, w.SECP256K1[:]...)}, nil
	default:
		return Signature{}, xerrors.Errorf("unknown signature type: %d", w.Enum)
	}
}

const (
	permissionFunctionCall borsh.Enum = iota
	permissionFullAccess
)

func (ak AccessKey) toWire() wireAccessKey {
	w := wireAccessKey{Nonce: ak.Nonce}

	if ak.FunctionCall == nil {
		w.Permission.Enum = permissionFullAccess
		return w
	}

	w.Permission.Enum = permissionFunctionCall
	w.Permission.FunctionCall = wireFunctionCallPermission{
		Allowance:   ak.FunctionCall.Allowance,
		ReceiverID:  ak.FunctionCall.ReceiverID,
		MethodNames: ak.FunctionCall.MethodNames,
	}

	return w
}

func (w wireAccessKey) native() (AccessKey, error) {
	ak := AccessKey{Nonce: w.Nonce}

	switch w.Permission.Enum {
	case permissionFullAccess:
		return ak, nil
	case permissionFunctionCall:
		perm := w.Permission.FunctionCall

		ak.FunctionCall = &FunctionCallPermission{
			Allowance:  perm.Allowance,
			ReceiverID: perm.ReceiverID,
		}

		if len(perm.MethodNames) > 0 {
			ak.FunctionCall.MethodNames = perm.MethodNames
		}

		return ak, nil
	default:
		return ak, xerrors.Errorf("unknown permission: %d", w.Permission.Enum)
	}
}

func (a Action) toWire(allowDelegate bool) (wireAction, error) {
	w := wireAction{Enum: borsh.Enum(a.Tag)}

	var err error

	switch a.Tag {
	case TagCreateAccount:
	case TagDeployContract:
		w.DeployContract.Code = a.Code
	case TagFunctionCall:
		w.FunctionCall = wireFunctionCall{
			MethodName: a.MethodName,
			Args:       a.Args,
			Gas:        a.Gas,
			Deposit:    a.Deposit,
		}
	case TagTransfer:
		w.Transfer.Deposit = a.Deposit
	case TagStake:
		w.Stake.Stake = a.Stake
		w.Stake.PublicKey, err = a.PublicKey.toWire()
	case TagAddKey:
		w.AddKey.PublicKey, err = a.PublicKey.toWire()
		w.AddKey.AccessKey = a.AccessKey.toWire()
	case TagDeleteKey:
		w.DeleteKey.PublicKey, err = a.PublicKey.toWire()
	case TagDeleteAccount:
		w.DeleteAccount.BeneficiaryID = a.BeneficiaryID
	case TagDelegate:
		if !allowDelegate {
			return w, xerrors.New("nested delegate action")
		}

		if a.Delegate == nil {
			return w, xerrors.New("missing signed delegate action")
		}

		w.Delegate, err = a.Delegate.toWire()
	default:
		return w, xerrors.Errorf("unknown action tag: %d", a.Tag)
	}

	if err != nil {
		return w, xerrors.Errorf("couldn't encode %v: %v", a.Tag, err)
	}

	return w, nil
}

func (w wireAction) native(allowDelegate bool) (Action, error) {
	a := Action{Tag: ActionTag(w.Enum)}

	var err error

	switch a.Tag {
	case TagCreateAccount:
	case TagDeployContract:
		a.Code = nilIfEmpty(w.DeployContract.Code)
	case TagFunctionCall:
		a.MethodName = w.FunctionCall.MethodName
		a.Args = nilIfEmpty(w.FunctionCall.Args)
		a.Gas = w.FunctionCall.Gas
		a.Deposit = w.FunctionCall.Deposit
	case TagTransfer:
		a.Deposit = w.Transfer.Deposit
	case TagStake:
		a.Stake = w.Stake.Stake
		a.PublicKey, err = w.Stake.PublicKey.native()
	case TagAddKey:
		a.PublicKey, err = w.AddKey.PublicKey.native()
		if err == nil {
			a.AccessKey, err = w.AddKey.AccessKey.native()
		}
	case TagDeleteKey:
		a.PublicKey, err = w.DeleteKey.PublicKey.native()
	case TagDeleteAccount:
		a.BeneficiaryID = w.DeleteAccount.BeneficiaryID
	case TagDelegate:
		if !allowDelegate {
			return a, xerrors.New("nested delegate action")
		}

		var signed SignedDelegateAction
		signed, err = w.Delegate.native()
		a.Delegate = &signed
	default:
		return a, xerrors.Errorf("unknown action tag: %d", w.Enum)
	}

	if err != nil {
		return a, xerrors.Errorf("couldn't decode %v: %v", a.Tag, err)
	}

	return a, nil
}

func actionsToWire(actions []Action, allowDelegate bool) ([]wireAction, error) {
	res := make([]wireAction, len(actions))

	for i, action := range actions {
		w, err := action.toWire(allowDelegate)
		if err != nil {
			return nil, xerrors.Errorf("action #%d: %v", i, err)
		}

		res[i] = w
	}

	return res, nil
}

func actionsFromWire(actions []wireAction, allowDelegate bool) ([]Action, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	res := make([]Action, len(actions))

	for i, w := range actions {
		action, err := w.native(allowDelegate)
		if err != nil {
			return nil, xerrors.Errorf("action #%d: %v", i, err)
		}

		res[i] = action
	}

	return res, nil
}

func (tx Transaction) toWire() (wireTransaction, error) {
	pk, err := tx.PublicKey.toWire()
	if err != nil {
		return wireTransaction{}, err
	}

	actions, err := actionsToWire(tx.Actions, true)
	if err != nil {
		return wireTransaction{}, err
	}

	w := wireTransaction{
		SignerID:   tx.SignerID,
		PublicKey:  pk,
		Nonce:      tx.Nonce,
		ReceiverID: tx.ReceiverID,
		BlockHash:  tx.BlockHash,
		Actions:    actions,
	}

	return w, nil
}

func (w wireTransaction) native() (Transaction, error) {
	pk, err := w.PublicKey.native()
	if err != nil {
		return Transaction{}, xerrors.Errorf("public key: %v", err)
	}

	actions, err := actionsFromWire(w.Actions, true)
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		SignerID:   w.SignerID,
		PublicKey:  pk,
		Nonce:      w.Nonce,
		ReceiverID: w.ReceiverID,
		BlockHash:  w.BlockHash,
		Actions:    actions,
	}

	return tx, nil
}

func (da DelegateAction) toWire() (wireDelegateAction, error) {
	actions, err := actionsToWire(da.Actions, false)
	if err != nil {
		return wireDelegateAction{}, err
	}

	pk, err := da.PublicKey.toWire()
	if err != nil {
		return wireDelegateAction{}, err
	}

	w := wireDelegateAction{
		SenderID:       da.SenderID,
		ReceiverID:     da.ReceiverID,
		Actions:        actions,
		Nonce:          da.Nonce,
		MaxBlockHeight: da.MaxBlockHeight,
		PublicKey:      pk,
	}

	return w, nil
}

func (w wireDelegateAction) native() (DelegateAction, error) {
	actions, err := actionsFromWire(w.Actions, false)
	if err != nil {
		return DelegateAction{}, err
	}

	pk, err := w.PublicKey.native()
	if err != nil {
		return DelegateAction{}, xerrors.Errorf("public key: %v", err)
	}

	da := DelegateAction{
		SenderID:       w.SenderID,
		ReceiverID:     w.ReceiverID,
		Actions:        actions,
		Nonce:          w.Nonce,
		MaxBlockHeight: w.MaxBlockHeight,
		PublicKey:      pk,
	}

	return da, nil
}

func (sda SignedDelegateAction) toWire() (wireSignedDelegateAction, error) {
	da, err := sda.DelegateAction.toWire()
	if err != nil {
		return wireSignedDelegateAction{}, err
	}

	sig, err := sda.Signature.toWire()
	if err != nil {
		return wireSignedDelegateAction{}, err
	}

	return wireSignedDelegateAction{DelegateAction: da, Signature: sig}, nil
}

func (w wireSignedDelegateAction) native() (SignedDelegateAction, error) {
	da, err := w.DelegateAction.native()
	if err != nil {
		return SignedDelegateAction{}, err
	}

	sig, err := w.Signature.native()
	if err != nil {
		return SignedDelegateAction{}, xerrors.Errorf("signature: %v", err)
	}

	return SignedDelegateAction{DelegateAction: da, Signature: sig}, nil
}

func nilIfEmpty(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	return data
}
