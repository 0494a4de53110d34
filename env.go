package sorobango

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/xdr"

	"sorobango/internal/metrics"
	"sorobango/internal/retry"
)

// Send transaction statuses reported by the RPC server.
const (
	sendStatusPending       = "PENDING"
	sendStatusDuplicate     = "DUPLICATE"
	sendStatusTryAgainLater = "TRY_AGAIN_LATER"
	sendStatusError         = "ERROR"
)

// Env is the gateway to a Soroban network. It wraps an RPC client and
// carries the network passphrase every transaction in this environment is
// signed against.
type Env struct {
	client            RPCClient
	networkPassphrase string
	retryStrategy     retry.Strategy
	logger            *slog.Logger
}

// NewEnv creates an environment connected to the RPC server named in the
// configuration.
func NewEnv(configs EnvConfigs) (*Env, error) {
	if err := configs.Validate(); err != nil {
		return nil, err
	}
	return NewEnvWithClient(newExternalRPCClient(configs.RPCURL), configs.NetworkPassphrase), nil
}

// NewEnvWithClient creates an environment backed by the given RPC client.
// Tests use this entry point to inject mock clients.
func NewEnvWithClient(client RPCClient, networkPassphrase string) *Env {
	return &Env{
		client:            client,
		networkPassphrase: networkPassphrase,
		retryStrategy:     retry.NewStrategy(retry.LoadConfig()),
		logger:            slog.Default().With("component", "env"),
	}
}

// NetworkPassphrase returns the passphrase of the network this environment
// talks to.
func (e *Env) NetworkPassphrase() string {
	return e.networkPassphrase
}

// NetworkID returns the 32-byte network identifier derived from the
// passphrase. Transaction hashes and contract ID preimages are computed
// over this value.
func (e *Env) NetworkID() xdr.Hash {
	return sha256Hash([]byte(e.networkPassphrase))
}

// Client returns the underlying RPC client.
func (e *Env) Client() RPCClient {
	return e.client
}

// GetAccount fetches the current ledger entry of a Stellar account.
func (e *Env) GetAccount(ctx context.Context, accountID string) (*xdr.AccountEntry, error) {
	return e.client.GetAccount(ctx, accountID)
}

// GetSequence returns the current sequence number of a Stellar account.
func (e *Env) GetSequence(ctx context.Context, accountID string) (int64, error) {
	entry, err := e.client.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return int64(entry.SeqNum), nil
}

// SimulateTransaction simulates a base64-encoded transaction envelope
// against the current ledger state without submitting it.
func (e *Env) SimulateTransaction(ctx context.Context, txBase64 string) (protocol.SimulateTransactionResponse, error) {
	started := time.Now()
	resp, err := e.client.SimulateTransaction(ctx, txBase64)
	metrics.SimulationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return protocol.SimulateTransactionResponse{}, err
	}
	metrics.SimulationsPerformed.Inc()
	return resp, nil
}

// SendTransaction submits a signed base64-encoded transaction envelope and
// polls until the network reports a terminal state. TRY_AGAIN_LATER
// responses are retried with backoff; a FAILED terminal status is returned
// as ErrTransactionFailed, and a failure caused by uploading WASM that is
// already installed is reported as ErrContractCodeAlreadyExists.
func (e *Env) SendTransaction(ctx context.Context, txBase64 string) (protocol.GetTransactionResponse, error) {
	started := time.Now()

	var sendResp protocol.SendTransactionResponse
	submit := func() error {
		var err error
		sendResp, err = e.client.SendTransaction(ctx, txBase64)
		if err != nil {
			return err
		}
		if sendResp.Status == sendStatusTryAgainLater {
			return fmt.Errorf("%w: send transaction status TRY_AGAIN_LATER", ErrNetworkRequestFailed)
		}
		return nil
	}

	if err := e.retryStrategy.Execute(ctx, submit); err != nil {
		return protocol.GetTransactionResponse{}, err
	}
	metrics.TransactionsSubmitted.Inc()

	switch sendResp.Status {
	case sendStatusPending, sendStatusDuplicate:
		// Keep polling below.
	case sendStatusError:
		metrics.TransactionsFailed.Inc()
		if err := e.mapSendError(sendResp.ErrorResultXDR, txBase64); err != nil {
			return protocol.GetTransactionResponse{}, err
		}
		return protocol.GetTransactionResponse{}, fmt.Errorf("%w: submission rejected", ErrTransactionFailed)
	default:
		return protocol.GetTransactionResponse{}, fmt.Errorf("%w: unexpected send status %s", ErrNetworkRequestFailed, sendResp.Status)
	}

	e.logger.Debug("transaction submitted, polling for result", "hash", sendResp.Hash)

	txResp, err := e.client.PollTransaction(ctx, sendResp.Hash)
	if err != nil {
		return protocol.GetTransactionResponse{}, err
	}
	metrics.SubmissionDuration.Observe(time.Since(started).Seconds())

	switch txResp.Status {
	case protocol.TransactionStatusSuccess:
		return txResp, nil
	case protocol.TransactionStatusFailed:
		metrics.TransactionsFailed.Inc()
		if err := e.mapResultError(txResp.ResultXDR, txBase64); err != nil {
			return txResp, err
		}
		return txResp, fmt.Errorf("%w: transaction %s failed", ErrTransactionFailed, sendResp.Hash)
	default:
		return txResp, fmt.Errorf("%w: transaction %s not found after polling", ErrNetworkRequestFailed, sendResp.Hash)
	}
}

// mapSendError inspects a base64 TransactionResult returned on immediate
// rejection and maps known failure causes to sentinel errors.
func (e *Env) mapSendError(errorResultXDR, txBase64 string) error {
	if errorResultXDR == "" {
		return nil
	}
	var result xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(errorResultXDR, &result); err != nil {
		e.logger.Warn("could not decode error result", "error", err)
		return nil
	}
	return e.mapTransactionResult(result, txBase64)
}

// mapResultError inspects the TransactionResult of a failed transaction.
func (e *Env) mapResultError(resultXDR, txBase64 string) error {
	if resultXDR == "" {
		return nil
	}
	var result xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(resultXDR, &result); err != nil {
		e.logger.Warn("could not decode transaction result", "error", err)
		return nil
	}
	return e.mapTransactionResult(result, txBase64)
}

func (e *Env) mapTransactionResult(result xdr.TransactionResult, txBase64 string) error {
	opResults, ok := result.OperationResults()
	if !ok {
		return nil
	}
	if !isUploadWasmEnvelope(txBase64) {
		return nil
	}
	for _, opResult := range opResults {
		tr, ok := opResult.GetTr()
		if !ok {
			continue
		}
		if isContractCodeAlreadyExists(tr) {
			return ErrContractCodeAlreadyExists
		}
	}
	return nil
}

// isUploadWasmEnvelope reports whether the submitted envelope carries an
// upload-contract-wasm host function. A trapped result may only mean
// "code already exists" for those transactions; trapped invocations of
// deployed contracts stay generic failures.
func isUploadWasmEnvelope(txBase64 string) bool {
	var envelope xdr.TransactionEnvelope
	if err := xdr.SafeUnmarshalBase64(txBase64, &envelope); err != nil {
		return false
	}

	var ops []xdr.Operation
	switch envelope.Type {
	case xdr.EnvelopeTypeEnvelopeTypeTxV0:
		ops = envelope.V0.Tx.Operations
	case xdr.EnvelopeTypeEnvelopeTypeTx:
		ops = envelope.V1.Tx.Operations
	case xdr.EnvelopeTypeEnvelopeTypeTxFeeBump:
		if envelope.FeeBump.Tx.InnerTx.V1 == nil {
			return false
		}
		ops = envelope.FeeBump.Tx.InnerTx.V1.Tx.Operations
	default:
		return false
	}

	for _, op := range ops {
		hostOp := op.Body.InvokeHostFunctionOp
		if op.Body.Type != xdr.OperationTypeInvokeHostFunction || hostOp == nil {
			continue
		}
		if hostOp.HostFunction.Type == xdr.HostFunctionTypeHostFunctionTypeUploadContractWasm {
			return true
		}
	}
	return false
}

// isContractCodeAlreadyExists reports whether an invoke host function
// result failed because the uploaded WASM is already installed. The host
// surfaces this as a trapped invocation rather than a dedicated result
// code.
func isContractCodeAlreadyExists(tr xdr.OperationResultTr) bool {
	invokeResult, ok := tr.GetInvokeHostFunctionResult()
	if !ok {
		return false
	}
	return invokeResult.Code == xdr.InvokeHostFunctionResultCodeInvokeHostFunctionTrapped
}

// Healthy reports whether the RPC server is up and in sync.
func (e *Env) Healthy(ctx context.Context) bool {
	resp, err := e.client.GetHealth(ctx)
	if err != nil {
		return false
	}
	return resp.Status == "healthy"
}

// VerifyNetwork checks that the RPC server serves the network this
// environment was configured for.
func (e *Env) VerifyNetwork(ctx context.Context) error {
	resp, err := e.client.GetNetwork(ctx)
	if err != nil {
		return err
	}
	if resp.Passphrase != e.networkPassphrase {
		return fmt.Errorf("%w: server network %q does not match configured %q",
			ErrInvalidArgument, resp.Passphrase, e.networkPassphrase)
	}
	return nil
}

// Close releases the underlying RPC client.
func (e *Env) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}
