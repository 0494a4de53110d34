package sorobango

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar/go-stellar-sdk/network"
	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stellar/go-stellar-sdk/xdr"

	"sorobango/internal/retry"
)

const testAccountID = "GAUDIVEMLTLLR3YTGVHXJWVUGLMGYBAJA3GBFMBJNSXF4FBRPAXKV622"

func newTestEnv(client RPCClient) *Env {
	env := NewEnvWithClient(client, network.TestNetworkPassphrase)
	env.retryStrategy = retry.NewExponentialBackoffStrategy(3, time.Millisecond, 10*time.Millisecond)
	return env
}

func TestNetworkID(t *testing.T) {
	env := newTestEnv(&mockRPCClient{})

	want := sha256.Sum256([]byte(network.TestNetworkPassphrase))
	assert.Equal(t, xdr.Hash(want), env.NetworkID())
}

func TestGetSequence(t *testing.T) {
	env := newTestEnv(mockClientWithAccount(41))

	seq, err := env.GetSequence(context.Background(), testAccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(41), seq)
}

func TestSendTransactionSuccess(t *testing.T) {
	client := &mockRPCClient{}
	env := newTestEnv(client)

	resp, err := env.SendTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, protocol.TransactionStatusSuccess, resp.Status)
	assert.Equal(t, 1, client.sendCalls)
}

func TestSendTransactionRetriesTryAgainLater(t *testing.T) {
	attempts := 0
	client := &mockRPCClient{}
	client.sendTransactionFn = func(_ context.Context, _ string) (protocol.SendTransactionResponse, error) {
		attempts++
		if attempts == 1 {
			return protocol.SendTransactionResponse{Status: "TRY_AGAIN_LATER"}, nil
		}
		return protocol.SendTransactionResponse{Status: "PENDING", Hash: "cafe"}, nil
	}
	env := newTestEnv(client)

	resp, err := env.SendTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, protocol.TransactionStatusSuccess, resp.Status)
	assert.Equal(t, 2, attempts)
}

func TestSendTransactionRejected(t *testing.T) {
	client := &mockRPCClient{
		sendTransactionFn: func(_ context.Context, _ string) (protocol.SendTransactionResponse, error) {
			return protocol.SendTransactionResponse{Status: "ERROR"}, nil
		},
	}
	env := newTestEnv(client)

	_, err := env.SendTransaction(context.Background(), "AAAA")
	require.ErrorIs(t, err, ErrTransactionFailed)
}

func TestSendTransactionFailedOnLedger(t *testing.T) {
	client := &mockRPCClient{
		pollTransactionFn: func(_ context.Context, txHash string) (protocol.GetTransactionResponse, error) {
			return protocol.GetTransactionResponse{
				TransactionDetails: protocol.TransactionDetails{
					Status:          protocol.TransactionStatusFailed,
					TransactionHash: txHash,
				},
			}, nil
		},
	}
	env := newTestEnv(client)

	_, err := env.SendTransaction(context.Background(), "AAAA")
	require.ErrorIs(t, err, ErrTransactionFailed)
}

// envelopeBase64 wraps the given operation in a minimal transaction
// envelope.
func envelopeBase64(t *testing.T, op txnbuild.Operation) string {
	t.Helper()
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{
			AccountID: testAccountID,
			Sequence:  1,
		},
		IncrementSequenceNum: false,
		Operations:           []txnbuild.Operation{op},
		BaseFee:              txnbuild.MinBaseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)
	b64, err := tx.Base64()
	require.NoError(t, err)
	return b64
}

// trappedResultBase64 builds the result of a transaction whose invoke
// host function trapped.
func trappedResultBase64(t *testing.T) string {
	t.Helper()
	opResults := []xdr.OperationResult{
		{
			Code: xdr.OperationResultCodeOpInner,
			Tr: &xdr.OperationResultTr{
				Type: xdr.OperationTypeInvokeHostFunction,
				InvokeHostFunctionResult: &xdr.InvokeHostFunctionResult{
					Code: xdr.InvokeHostFunctionResultCodeInvokeHostFunctionTrapped,
				},
			},
		},
	}
	result := xdr.TransactionResult{
		FeeCharged: 100,
		Result: xdr.TransactionResultResult{
			Code:    xdr.TransactionResultCodeTxFailed,
			Results: &opResults,
		},
	}
	resultBase64, err := xdr.MarshalBase64(result)
	require.NoError(t, err)
	return resultBase64
}

func newTrappedPollEnv(t *testing.T) *Env {
	t.Helper()
	resultBase64 := trappedResultBase64(t)
	client := &mockRPCClient{
		pollTransactionFn: func(_ context.Context, txHash string) (protocol.GetTransactionResponse, error) {
			return protocol.GetTransactionResponse{
				TransactionDetails: protocol.TransactionDetails{
					Status:          protocol.TransactionStatusFailed,
					TransactionHash: txHash,
					ResultXDR:       resultBase64,
				},
			}, nil
		},
	}
	return newTestEnv(client)
}

func TestSendTransactionMapsAlreadyExists(t *testing.T) {
	env := newTrappedPollEnv(t)

	upload := envelopeBase64(t, UploadWasmOperation([]byte("wasm"), testAccountID))
	_, err := env.SendTransaction(context.Background(), upload)
	require.ErrorIs(t, err, ErrContractCodeAlreadyExists)
}

func TestSendTransactionTrappedInvokeStaysFailed(t *testing.T) {
	env := newTrappedPollEnv(t)

	op, err := InvokeContractOperation(testContractID, "transfer", nil, testAccountID)
	require.NoError(t, err)

	// A contract that traps during invocation is a plain failure, not a
	// duplicate upload.
	_, err = env.SendTransaction(context.Background(), envelopeBase64(t, op))
	require.ErrorIs(t, err, ErrTransactionFailed)
	require.NotErrorIs(t, err, ErrContractCodeAlreadyExists)
}

func TestVerifyNetworkMismatch(t *testing.T) {
	client := &mockRPCClient{
		getNetworkFn: func(_ context.Context) (protocol.GetNetworkResponse, error) {
			return protocol.GetNetworkResponse{Passphrase: network.PublicNetworkPassphrase}, nil
		},
	}
	env := newTestEnv(client)

	err := env.VerifyNetwork(context.Background())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHealthy(t *testing.T) {
	env := newTestEnv(&mockRPCClient{})
	assert.True(t, env.Healthy(context.Background()))

	unhealthy := newTestEnv(&mockRPCClient{
		getHealthFn: func(_ context.Context) (protocol.GetHealthResponse, error) {
			return protocol.GetHealthResponse{Status: "behind"}, nil
		},
	})
	assert.False(t, unhealthy.Healthy(context.Background()))
}
