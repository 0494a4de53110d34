package sorobango

import (
	"fmt"

	"github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// ParseKind selects what to extract from a transaction response.
type ParseKind int

const (
	// ParseAccountSetOptions extracts the updated account entry after a
	// SetOptions transaction.
	ParseAccountSetOptions ParseKind = iota
	// ParseInvokeFunction extracts the return value of a contract
	// invocation.
	ParseInvokeFunction
	// ParseDeploy extracts the contract ID created by a deployment.
	ParseDeploy
)

// ParseResult holds the fields extracted from a transaction response.
// Only the fields relevant to the requested kind are populated.
type ParseResult struct {
	Account     *xdr.AccountEntry
	ContractID  string
	ReturnValue *xdr.ScVal
}

// ParseTransactionResponse extracts kind-specific results from a
// successful transaction. Failed transactions are rejected with
// ErrTransactionFailed.
func ParseTransactionResponse(kind ParseKind, resp *TransactionResponse) (*ParseResult, error) {
	if !resp.Successful() {
		return nil, fmt.Errorf("%w: cannot parse a transaction that did not succeed", ErrTransactionFailed)
	}

	switch kind {
	case ParseAccountSetOptions:
		account, err := extractUpdatedAccount(resp)
		if err != nil {
			return nil, err
		}
		return &ParseResult{Account: account}, nil

	case ParseInvokeFunction:
		val, err := resp.ReturnValue()
		if err != nil {
			return nil, err
		}
		return &ParseResult{ReturnValue: &val}, nil

	case ParseDeploy:
		contractID, err := extractCreatedContractID(resp)
		if err != nil {
			return nil, err
		}
		return &ParseResult{ContractID: contractID}, nil

	default:
		return nil, fmt.Errorf("%w: unknown parse kind %d", ErrInvalidArgument, kind)
	}
}

// extractUpdatedAccount walks the ledger changes of the last operation and
// returns the updated account entry.
func extractUpdatedAccount(resp *TransactionResponse) (*xdr.AccountEntry, error) {
	meta, err := resp.Meta()
	if err != nil {
		return nil, err
	}

	changes, err := lastOperationChanges(meta)
	if err != nil {
		return nil, err
	}

	for i := len(changes) - 1; i >= 0; i-- {
		updated, ok := changes[i].GetUpdated()
		if !ok {
			continue
		}
		if updated.Data.Account != nil {
			return updated.Data.Account, nil
		}
	}
	return nil, fmt.Errorf("%w: no updated account entry in transaction metadata", ErrXDREncodingFailed)
}

// lastOperationChanges returns the ledger entry changes of the final
// operation in the transaction.
func lastOperationChanges(meta xdr.TransactionMeta) (xdr.LedgerEntryChanges, error) {
	var ops []xdr.OperationMeta
	switch meta.V {
	case 1:
		ops = meta.MustV1().Operations
	case 2:
		ops = meta.MustV2().Operations
	case 3:
		ops = meta.MustV3().Operations
	default:
		return nil, fmt.Errorf("%w: unsupported transaction metadata version V%d", ErrXDREncodingFailed, meta.V)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: transaction metadata has no operations", ErrXDREncodingFailed)
	}
	return ops[len(ops)-1].Changes, nil
}

// extractCreatedContractID reads the contract address returned by a
// create-contract host function.
func extractCreatedContractID(resp *TransactionResponse) (string, error) {
	val, err := resp.ReturnValue()
	if err != nil {
		return "", err
	}
	if val.Type != xdr.ScValTypeScvAddress || val.Address == nil {
		return "", fmt.Errorf("%w: deploy return value is not an address", ErrXDREncodingFailed)
	}
	addr := *val.Address
	if addr.Type != xdr.ScAddressTypeScAddressTypeContract || addr.ContractId == nil {
		return "", fmt.Errorf("%w: deploy return value is not a contract address", ErrXDREncodingFailed)
	}
	contractID, err := strkey.Encode(strkey.VersionByteContract, addr.ContractId[:])
	if err != nil {
		return "", fmt.Errorf("%w: encoding contract ID: %v", ErrXDREncodingFailed, err)
	}
	return contractID, nil
}
