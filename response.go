package sorobango

import (
	"fmt"

	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// TransactionResponse wraps the result of a submitted transaction and
// exposes the Soroban-specific pieces of its metadata.
type TransactionResponse struct {
	raw protocol.GetTransactionResponse
}

// NewTransactionResponse wraps a raw transaction lookup response.
func NewTransactionResponse(resp protocol.GetTransactionResponse) *TransactionResponse {
	return &TransactionResponse{raw: resp}
}

// Raw returns the underlying RPC response.
func (r *TransactionResponse) Raw() protocol.GetTransactionResponse {
	return r.raw
}

// Hash returns the hex-encoded transaction hash.
func (r *TransactionResponse) Hash() string {
	return r.raw.TransactionHash
}

// Successful reports whether the transaction reached the SUCCESS state.
func (r *TransactionResponse) Successful() bool {
	return r.raw.Status == protocol.TransactionStatusSuccess
}

// Meta decodes the full transaction metadata.
func (r *TransactionResponse) Meta() (xdr.TransactionMeta, error) {
	var meta xdr.TransactionMeta
	if r.raw.ResultMetaXDR == "" {
		return meta, fmt.Errorf("%w: transaction has no result metadata", ErrXDREncodingFailed)
	}
	if err := xdr.SafeUnmarshalBase64(r.raw.ResultMetaXDR, &meta); err != nil {
		return meta, fmt.Errorf("%w: decoding result metadata: %v", ErrXDREncodingFailed, err)
	}
	return meta, nil
}

// SorobanMeta decodes the transaction metadata and returns its Soroban
// portion. Only V3 metadata carries Soroban data; anything else is an
// error.
func (r *TransactionResponse) SorobanMeta() (*xdr.SorobanTransactionMeta, error) {
	meta, err := r.Meta()
	if err != nil {
		return nil, err
	}
	if meta.V != 3 || meta.V3 == nil {
		return nil, fmt.Errorf("%w: expected V3 transaction metadata, got V%d", ErrXDREncodingFailed, meta.V)
	}
	if meta.V3.SorobanMeta == nil {
		return nil, fmt.Errorf("%w: transaction metadata has no Soroban section", ErrXDREncodingFailed)
	}
	return meta.V3.SorobanMeta, nil
}

// ReturnValue returns the value returned by the invoked host function.
func (r *TransactionResponse) ReturnValue() (xdr.ScVal, error) {
	meta, err := r.SorobanMeta()
	if err != nil {
		return xdr.ScVal{}, err
	}
	return meta.ReturnValue, nil
}

// Events returns the contract events emitted during execution.
func (r *TransactionResponse) Events() ([]xdr.ContractEvent, error) {
	meta, err := r.SorobanMeta()
	if err != nil {
		return nil, err
	}
	return meta.Events, nil
}

// DiagnosticEvents returns the diagnostic events recorded during
// execution. These are only present when the server has diagnostics
// enabled.
func (r *TransactionResponse) DiagnosticEvents() ([]xdr.DiagnosticEvent, error) {
	meta, err := r.SorobanMeta()
	if err != nil {
		return nil, err
	}
	return meta.DiagnosticEvents, nil
}

// TransactionResult decodes the XDR transaction result.
func (r *TransactionResponse) TransactionResult() (xdr.TransactionResult, error) {
	var result xdr.TransactionResult
	if r.raw.ResultXDR == "" {
		return result, fmt.Errorf("%w: transaction has no result", ErrXDREncodingFailed)
	}
	if err := xdr.SafeUnmarshalBase64(r.raw.ResultXDR, &result); err != nil {
		return result, fmt.Errorf("%w: decoding transaction result: %v", ErrXDREncodingFailed, err)
	}
	return result, nil
}
