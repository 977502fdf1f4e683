package types

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/xerrors"
)

// StatusKind is the kind of the status of an execution.
type StatusKind int

const (
	// StatusUnknown is the status of an execution that has not started or is
	// not known.
	StatusUnknown StatusKind = iota
	// StatusSuccessValue is the status of an execution that returned a value.
	StatusSuccessValue
	// StatusSuccessReceiptID is the status of an execution that produced a
	// receipt.
	StatusSuccessReceiptID
	// StatusFailure is the status of an execution that failed.
	StatusFailure
)

// ExecutionStatus is the status of a transaction or a receipt.
type ExecutionStatus struct {
	Kind      StatusKind
	Value     []byte
	ReceiptID CryptoHash
	// Failure is the error reported by the network, kept as it is.
	Failure json.RawMessage
}

// IsFailure returns true if the execution failed.
func (s ExecutionStatus) IsFailure() bool {
	return s.Kind == StatusFailure
}

// String implements fmt.Stringer.
func (s ExecutionStatus) String() string {
	switch s.Kind {
	case StatusSuccessValue:
		return fmt.Sprintf("SuccessValue(%q)", s.Value)
	case StatusSuccessReceiptID:
		return fmt.Sprintf("SuccessReceiptId(%v)", s.ReceiptID)
	case StatusFailure:
		return fmt.Sprintf("Failure(%s)", string(s.Failure))
	default:
		return "Unknown"
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	var name string
	if json.Unmarshal(data, &name) == nil {
		*s = ExecutionStatus{Kind: StatusUnknown}
		return nil
	}

	var obj struct {
		SuccessValue     *string         `json:"SuccessValue"`
		SuccessReceiptID *CryptoHash     `json:"SuccessReceiptId"`
		Failure          json.RawMessage `json:"Failure"`
	}

	err := json.Unmarshal(data, &obj)
	if err != nil {
		return xerrors.Errorf("couldn't decode status: %v", err)
	}

	switch {
	case obj.SuccessValue != nil:
		value, err := base64.StdEncoding.DecodeString(*obj.SuccessValue)
		if err != nil {
			return xerrors.Errorf("invalid success value: %v", err)
		}

		*s = ExecutionStatus{Kind: StatusSuccessValue, Value: value}
	case obj.SuccessReceiptID != nil:
		*s = ExecutionStatus{Kind: StatusSuccessReceiptID, ReceiptID: *obj.SuccessReceiptID}
	case obj.Failure != nil:
		*s = ExecutionStatus{Kind: StatusFailure, Failure: obj.Failure}
	default:
		*s = ExecutionStatus{Kind: StatusUnknown}
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
func (s ExecutionStatus) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatusSuccessValue:
		return json.Marshal(map[string]string{
			"SuccessValue": base64.StdEncoding.EncodeToString(s.Value),
		})
	case StatusSuccessReceiptID:
		return json.Marshal(map[string]CryptoHash{"SuccessReceiptId": s.ReceiptID})
	case StatusFailure:
		return json.Marshal(map[string]json.RawMessage{"Failure": s.Failure})
	default:
		return json.Marshal("Unknown")
	}
}

// Outcome is the result of the execution of a transaction or a receipt.
type Outcome struct {
	Logs        []string        `json:"logs"`
	ReceiptIDs  []CryptoHash    `json:"receipt_ids"`
	GasBurnt    Gas             `json:"gas_burnt"`
	TokensBurnt NearToken       `json:"tokens_burnt"`
	ExecutorID  AccountID       `json:"executor_id"`
	Status      ExecutionStatus `json:"status"`
}

// OutcomeWithID is an outcome with the identifier of the transaction or the
// receipt it belongs to.
type OutcomeWithID struct {
	ID        CryptoHash `json:"id"`
	BlockHash CryptoHash `json:"block_hash"`
	Outcome   Outcome    `json:"outcome"`
}

// ExecutionOutcome is the final result of a transaction with the outcomes of
// all the receipts it produced.
type ExecutionOutcome struct {
	Status             ExecutionStatus `json:"status"`
	TransactionOutcome OutcomeWithID   `json:"transaction_outcome"`
	ReceiptsOutcome    []OutcomeWithID `json:"receipts_outcome"`
}

// TransactionHash returns the hash of the transaction.
func (o ExecutionOutcome) TransactionHash() CryptoHash {
	return o.TransactionOutcome.ID
}

// Logs returns the logs of the transaction and its receipts.
func (o ExecutionOutcome) Logs() []string {
	logs := append([]string{}, o.TransactionOutcome.Outcome.Logs...)
	for _, receipt := range o.ReceiptsOutcome {
		logs = append(logs, receipt.Outcome.Logs...)
	}

	return logs
}

// TotalGasBurnt returns the gas burnt by the transaction and its receipts.
func (o ExecutionOutcome) TotalGasBurnt() Gas {
	total := o.TransactionOutcome.Outcome.GasBurnt
	for _, receipt := range o.ReceiptsOutcome {
		total += receipt.Outcome.GasBurnt
	}

	return total
}

// Failure returns the first failure of the transaction or of its receipts, or
// nil if the execution succeeded.
func (o ExecutionOutcome) Failure() json.RawMessage {
	if o.Status.IsFailure() {
		return o.Status.Failure
	}

	for _, receipt := range o.ReceiptsOutcome {
		if receipt.Outcome.Status.IsFailure() {
			return receipt.Outcome.Status.Failure
		}
	}

	return nil
}
