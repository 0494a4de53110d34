package sorobango

import (
	"context"
	"fmt"

	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// defaultTimeoutSeconds bounds transaction validity when the caller does
// not set preconditions.
const defaultTimeoutSeconds = 300

// TransactionBuilder assembles transactions for a source account, with
// optional simulation to attach Soroban resource data and authorization.
type TransactionBuilder struct {
	env           *Env
	sourceAccount string
	operations    []txnbuild.Operation
	memo          txnbuild.Memo
	baseFee       int64
	preconditions txnbuild.Preconditions
}

// NewTransactionBuilder creates a builder for transactions originating
// from the given account.
func NewTransactionBuilder(env *Env, sourceAccountID string) *TransactionBuilder {
	return &TransactionBuilder{
		env:           env,
		sourceAccount: sourceAccountID,
		baseFee:       txnbuild.MinBaseFee,
		preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(defaultTimeoutSeconds)},
	}
}

// AddOperation appends an operation to the transaction.
func (b *TransactionBuilder) AddOperation(op txnbuild.Operation) *TransactionBuilder {
	b.operations = append(b.operations, op)
	return b
}

// SetMemo attaches a memo to the transaction.
func (b *TransactionBuilder) SetMemo(memo txnbuild.Memo) *TransactionBuilder {
	b.memo = memo
	return b
}

// SetBaseFee overrides the per-operation base fee in stroops.
func (b *TransactionBuilder) SetBaseFee(fee int64) *TransactionBuilder {
	b.baseFee = fee
	return b
}

// SetPreconditions overrides the transaction preconditions.
func (b *TransactionBuilder) SetPreconditions(cond txnbuild.Preconditions) *TransactionBuilder {
	b.preconditions = cond
	return b
}

// Build fetches the source account's sequence number and assembles an
// unsigned transaction.
func (b *TransactionBuilder) Build(ctx context.Context) (*txnbuild.Transaction, error) {
	seq, err := b.env.GetSequence(ctx, b.sourceAccount)
	if err != nil {
		return nil, err
	}
	return b.buildWithSequence(seq+1, b.baseFee)
}

func (b *TransactionBuilder) buildWithSequence(sequence, baseFee int64) (*txnbuild.Transaction, error) {
	if len(b.operations) == 0 {
		return nil, fmt.Errorf("%w: transaction has no operations", ErrTransactionBuildFailed)
	}
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{
			AccountID: b.sourceAccount,
			Sequence:  sequence,
		},
		IncrementSequenceNum: false,
		Operations:           b.operations,
		BaseFee:              baseFee,
		Memo:                 b.memo,
		Preconditions:        b.preconditions,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionBuildFailed, err)
	}
	return tx, nil
}

// SimulateAndBuild assembles the transaction, simulates it, and rebuilds
// it with the resource footprint, authorization entries and fee reported
// by the simulation. Transactions whose simulation requires
// address-credential authorization are rejected with ErrNotSupported;
// those flows need the address signer in the loop. When the simulation
// itself reports an error the unsimulated transaction is returned so the
// caller can still inspect or submit it.
func (b *TransactionBuilder) SimulateAndBuild(ctx context.Context) (*txnbuild.Transaction, error) {
	seq, err := b.env.GetSequence(ctx, b.sourceAccount)
	if err != nil {
		return nil, err
	}

	tx, err := b.buildWithSequence(seq+1, b.baseFee)
	if err != nil {
		return nil, err
	}

	txBase64, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}

	sim, err := b.env.SimulateTransaction(ctx, txBase64)
	if err != nil {
		return nil, err
	}
	if sim.Error != "" {
		b.env.logger.Warn("simulation reported an error, building without resource data",
			"error", sim.Error, "source", b.sourceAccount)
		return tx, nil
	}

	var authEntries []string
	if len(sim.Results) > 0 && sim.Results[0].AuthXDR != nil {
		authEntries = *sim.Results[0].AuthXDR
	}
	if err := b.applySimulation(sim.TransactionDataXDR, authEntries); err != nil {
		return nil, err
	}

	// The base fee is charged per operation. Soroban transactions carry a
	// single host-function operation, so folding the resource fee into it
	// yields the exact total of base fee plus resource fee.
	return b.buildWithSequence(seq+1, b.baseFee+sim.MinResourceFee)
}

// applySimulation decorates the last Soroban operation with the simulated
// transaction data and authorization entries.
func (b *TransactionBuilder) applySimulation(txDataBase64 string, authBase64 []string) error {
	var invokeOp *txnbuild.InvokeHostFunction
	for _, op := range b.operations {
		if hostOp, ok := op.(*txnbuild.InvokeHostFunction); ok {
			invokeOp = hostOp
		}
	}
	if invokeOp == nil {
		return nil
	}

	var auth []xdr.SorobanAuthorizationEntry
	for _, entryBase64 := range authBase64 {
		var entry xdr.SorobanAuthorizationEntry
		if err := xdr.SafeUnmarshalBase64(entryBase64, &entry); err != nil {
			return fmt.Errorf("%w: decoding authorization entry: %v", ErrXDREncodingFailed, err)
		}
		if entry.Credentials.Type == xdr.SorobanCredentialsTypeSorobanCredentialsAddress {
			return fmt.Errorf("%w: address-credential authorization requires the address signer", ErrNotSupported)
		}
		auth = append(auth, entry)
	}
	if len(auth) > 0 {
		invokeOp.Auth = auth
	}

	if txDataBase64 != "" {
		var txData xdr.SorobanTransactionData
		if err := xdr.SafeUnmarshalBase64(txDataBase64, &txData); err != nil {
			return fmt.Errorf("%w: decoding transaction data: %v", ErrXDREncodingFailed, err)
		}
		invokeOp.Ext = xdr.TransactionExt{V: 1, SorobanData: &txData}
	}

	return nil
}
