package sorobango

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stellar/go-stellar-sdk/xdr"
)

func marshalBase64(t *testing.T, v interface{ MarshalBinary() ([]byte, error) }) string {
	t.Helper()
	encoded, err := xdr.MarshalBase64(v)
	require.NoError(t, err)
	return encoded
}

func sourceAccountAuthEntry(t *testing.T) string {
	t.Helper()
	entry := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount,
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type: xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeContractFn,
				ContractFn: &xdr.InvokeContractArgs{
					ContractAddress: mustContractScAddress(t),
					FunctionName:    "transfer",
				},
			},
		},
	}
	return marshalBase64(t, entry)
}

func addressAuthEntry(t *testing.T) string {
	t.Helper()
	accountID := xdr.MustAddress(testAccountID)
	entry := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsAddress,
			Address: &xdr.SorobanAddressCredentials{
				Address: xdr.ScAddress{
					Type:      xdr.ScAddressTypeScAddressTypeAccount,
					AccountId: &accountID,
				},
				Signature: xdr.ScVal{Type: xdr.ScValTypeScvVoid},
			},
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type: xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeContractFn,
				ContractFn: &xdr.InvokeContractArgs{
					ContractAddress: mustContractScAddress(t),
					FunctionName:    "transfer",
				},
			},
		},
	}
	return marshalBase64(t, entry)
}

func mustContractScAddress(t *testing.T) xdr.ScAddress {
	t.Helper()
	addr, err := contractScAddress(testContractID)
	require.NoError(t, err)
	return addr
}

func TestBuildAssignsNextSequence(t *testing.T) {
	env := newTestEnv(mockClientWithAccount(41))

	op, err := InvokeContractOperation(testContractID, "transfer", nil, testAccountID)
	require.NoError(t, err)

	tx, err := NewTransactionBuilder(env, testAccountID).
		AddOperation(op).
		Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), tx.SequenceNumber())
	assert.Equal(t, int64(txnbuild.MinBaseFee), tx.BaseFee())
}

func TestBuildRejectsEmptyTransaction(t *testing.T) {
	env := newTestEnv(mockClientWithAccount(1))

	_, err := NewTransactionBuilder(env, testAccountID).Build(context.Background())
	require.ErrorIs(t, err, ErrTransactionBuildFailed)
}

func TestSimulateAndBuildAppliesSimulation(t *testing.T) {
	client := mockClientWithAccount(10)
	authEntry := sourceAccountAuthEntry(t)
	txData := marshalBase64(t, xdr.SorobanTransactionData{})
	client.simulateTransactionFn = func(_ context.Context, _ string) (protocol.SimulateTransactionResponse, error) {
		return protocol.SimulateTransactionResponse{
			MinResourceFee:     5000,
			TransactionDataXDR: txData,
			Results: []protocol.SimulateHostFunctionResult{
				{AuthXDR: &[]string{authEntry}},
			},
		}, nil
	}
	env := newTestEnv(client)

	op, err := InvokeContractOperation(testContractID, "transfer", nil, testAccountID)
	require.NoError(t, err)

	tx, err := NewTransactionBuilder(env, testAccountID).
		AddOperation(op).
		SimulateAndBuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(txnbuild.MinBaseFee+5000), tx.BaseFee())
	assert.Equal(t, int64(11), tx.SequenceNumber())
	require.Len(t, op.Auth, 1)
	assert.Equal(t, xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount, op.Auth[0].Credentials.Type)
	require.EqualValues(t, 1, op.Ext.V)
	assert.NotNil(t, op.Ext.SorobanData)
	assert.Equal(t, 1, client.simulateCalls)
}

func TestSimulateAndBuildRejectsAddressCredentials(t *testing.T) {
	client := mockClientWithAccount(10)
	authEntry := addressAuthEntry(t)
	client.simulateTransactionFn = func(_ context.Context, _ string) (protocol.SimulateTransactionResponse, error) {
		return protocol.SimulateTransactionResponse{
			MinResourceFee: 5000,
			Results: []protocol.SimulateHostFunctionResult{
				{AuthXDR: &[]string{authEntry}},
			},
		}, nil
	}
	env := newTestEnv(client)

	op, err := InvokeContractOperation(testContractID, "transfer", nil, testAccountID)
	require.NoError(t, err)

	_, err = NewTransactionBuilder(env, testAccountID).
		AddOperation(op).
		SimulateAndBuild(context.Background())
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestSimulateAndBuildContinuesOnSimulationError(t *testing.T) {
	client := mockClientWithAccount(10)
	client.simulateTransactionFn = func(_ context.Context, _ string) (protocol.SimulateTransactionResponse, error) {
		return protocol.SimulateTransactionResponse{Error: "host function failed"}, nil
	}
	env := newTestEnv(client)

	op, err := InvokeContractOperation(testContractID, "transfer", nil, testAccountID)
	require.NoError(t, err)

	tx, err := NewTransactionBuilder(env, testAccountID).
		AddOperation(op).
		SimulateAndBuild(context.Background())
	require.NoError(t, err)

	// The unsimulated transaction keeps the plain base fee and gets no
	// resource data attached.
	assert.Equal(t, int64(txnbuild.MinBaseFee), tx.BaseFee())
	assert.EqualValues(t, 0, op.Ext.V)
}
