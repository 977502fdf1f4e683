package types

import (
	"encoding/base64"
	"encoding/json"

	"golang.org/x/xerrors"
)

// AccountView is the state of an account.
type AccountView struct {
	Amount        NearToken  `json:"amount"`
	Locked        NearToken  `json:"locked"`
	CodeHash      CryptoHash `json:"code_hash"`
	StorageUsage  uint64     `json:"storage_usage"`
	StoragePaidAt uint64     `json:"storage_paid_at"`
}

// FunctionCallPermission restricts an access key to calls on one contract.
type FunctionCallPermission struct {
	// Allowance is nil when the key can spend without limit.
	Allowance   *NearToken `json:"allowance"`
	ReceiverID  AccountID  `json:"receiver_id"`
	MethodNames []string   `json:"method_names"`
}

// AccessKeyPermission is either full access or a function call permission.
type AccessKeyPermission struct {
	// FunctionCall is nil for a full access key.
	FunctionCall *FunctionCallPermission
}

// IsFullAccess returns true if the key can sign any transaction.
func (p AccessKeyPermission) IsFullAccess() bool {
	return p.FunctionCall == nil
}

// MarshalJSON implements json.Marshaler.
func (p AccessKeyPermission) MarshalJSON() ([]byte, error) {
	if p.IsFullAccess() {
		return json.Marshal("FullAccess")
	}

	return json.Marshal(map[string]*FunctionCallPermission{"FunctionCall": p.FunctionCall})
}

// UnmarshalJSON implements json.Unmarshaler. The full access permission is a
// plain string while the other is an object.
func (p *AccessKeyPermission) UnmarshalJSON(data []byte) error {
	var name string
	if json.Unmarshal(data, &name) == nil {
		if name != "FullAccess" {
			return xerrors.Errorf("unknown permission '%s'", name)
		}

		p.FunctionCall = nil
		return nil
	}

	var obj struct {
		FunctionCall *FunctionCallPermission `json:"FunctionCall"`
	}

	err := json.Unmarshal(data, &obj)
	if err != nil {
		return xerrors.Errorf("couldn't decode permission: %v", err)
	}

	if obj.FunctionCall == nil {
		return xerrors.New("missing function call permission")
	}

	p.FunctionCall = obj.FunctionCall

	return nil
}

// AccessKeyView is the authorization record of a key on an account.
type AccessKeyView struct {
	Nonce      uint64              `json:"nonce"`
	Permission AccessKeyPermission `json:"permission"`
}

// AccessKeyInfo is an access key with its public key.
type AccessKeyInfo struct {
	PublicKey PublicKey     `json:"public_key"`
	AccessKey AccessKeyView `json:"access_key"`
}

// AccessKeyList is the list of the access keys of an account.
type AccessKeyList struct {
	Keys []AccessKeyInfo `json:"keys"`
}

// Bytes is a slice of bytes encoded as an array of numbers.
type Bytes []byte

// MarshalJSON implements json.Marshaler.
func (b Bytes) MarshalJSON() ([]byte, error) {
	numbers := make([]uint16, len(b))
	for i, v := range b {
		numbers[i] = uint16(v)
	}

	return json.Marshal(numbers)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var numbers []uint16
	err := json.Unmarshal(data, &numbers)
	if err != nil {
		return xerrors.Errorf("couldn't decode bytes: %v", err)
	}

	out := make([]byte, len(numbers))
	for i, v := range numbers {
		if v > 0xff {
			return xerrors.Errorf("byte overflow at index %d: %d", i, v)
		}

		out[i] = byte(v)
	}

	*b = out

	return nil
}

// CallResult is the result of a read-only call on a contract.
type CallResult struct {
	Result Bytes    `json:"result"`
	Logs   []string `json:"logs"`
}

// Decode decodes the JSON result of the call.
func (r CallResult) Decode(v interface{}) error {
	err := json.Unmarshal(r.Result, v)
	if err != nil {
		return xerrors.Errorf("couldn't decode call result: %v", err)
	}

	return nil
}

// Base64 is a slice of bytes encoded in base64.
type Base64 []byte

// MarshalText implements encoding.TextMarshaler.
func (b Base64) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(b)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Base64) UnmarshalText(text []byte) error {
	data, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return xerrors.Errorf("invalid base64: %v", err)
	}

	*b = data

	return nil
}

// ContractCodeView is the code deployed on an account.
type ContractCodeView struct {
	Code Base64     `json:"code_base64"`
	Hash CryptoHash `json:"hash"`
}

// StateItem is one entry of the storage of a contract.
type StateItem struct {
	Key   Base64 `json:"key"`
	Value Base64 `json:"value"`
}

// ViewStateResult is the storage of a contract under a prefix.
type ViewStateResult struct {
	Values []StateItem `json:"values"`
	Proof  []string    `json:"proof,omitempty"`
}

// BlockHeader is the subset of the header of a block used by the client.
type BlockHeader struct {
	Height    uint64     `json:"height"`
	Hash      CryptoHash `json:"hash"`
	PrevHash  CryptoHash `json:"prev_hash"`
	EpochID   CryptoHash `json:"epoch_id"`
	Timestamp uint64     `json:"timestamp"`
	GasPrice  NearToken  `json:"gas_price"`
}

// ChunkHeader is the subset of the header of a chunk used by the client.
type ChunkHeader struct {
	ChunkHash CryptoHash `json:"chunk_hash"`
	ShardID   uint64     `json:"shard_id"`
	GasUsed   uint64     `json:"gas_used"`
}

// BlockView is a block of the chain.
type BlockView struct {
	Author AccountID     `json:"author"`
	Header BlockHeader   `json:"header"`
	Chunks []ChunkHeader `json:"chunks"`
}
