package sorobango

import (
	"context"
	"fmt"

	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// mockRPCClient implements RPCClient with overridable behavior per method.
type mockRPCClient struct {
	getAccountFn          func(ctx context.Context, accountID string) (*xdr.AccountEntry, error)
	simulateTransactionFn func(ctx context.Context, txBase64 string) (protocol.SimulateTransactionResponse, error)
	sendTransactionFn     func(ctx context.Context, txBase64 string) (protocol.SendTransactionResponse, error)
	pollTransactionFn     func(ctx context.Context, txHash string) (protocol.GetTransactionResponse, error)
	getEventsFn           func(ctx context.Context, request protocol.GetEventsRequest) (protocol.GetEventsResponse, error)
	getHealthFn           func(ctx context.Context) (protocol.GetHealthResponse, error)
	getNetworkFn          func(ctx context.Context) (protocol.GetNetworkResponse, error)
	getLatestLedgerFn     func(ctx context.Context) (protocol.GetLatestLedgerResponse, error)

	sendCalls     int
	simulateCalls int
}

func (m *mockRPCClient) GetAccount(ctx context.Context, accountID string) (*xdr.AccountEntry, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, accountID)
	}
	return nil, fmt.Errorf("%w: no account configured", ErrNetworkRequestFailed)
}

func (m *mockRPCClient) SimulateTransaction(ctx context.Context, txBase64 string) (protocol.SimulateTransactionResponse, error) {
	m.simulateCalls++
	if m.simulateTransactionFn != nil {
		return m.simulateTransactionFn(ctx, txBase64)
	}
	return protocol.SimulateTransactionResponse{}, nil
}

func (m *mockRPCClient) SendTransaction(ctx context.Context, txBase64 string) (protocol.SendTransactionResponse, error) {
	m.sendCalls++
	if m.sendTransactionFn != nil {
		return m.sendTransactionFn(ctx, txBase64)
	}
	return protocol.SendTransactionResponse{Status: sendStatusPending, Hash: "deadbeef"}, nil
}

func (m *mockRPCClient) PollTransaction(ctx context.Context, txHash string) (protocol.GetTransactionResponse, error) {
	if m.pollTransactionFn != nil {
		return m.pollTransactionFn(ctx, txHash)
	}
	return protocol.GetTransactionResponse{
		TransactionDetails: protocol.TransactionDetails{
			Status:          protocol.TransactionStatusSuccess,
			TransactionHash: txHash,
		},
	}, nil
}

func (m *mockRPCClient) GetEvents(ctx context.Context, request protocol.GetEventsRequest) (protocol.GetEventsResponse, error) {
	if m.getEventsFn != nil {
		return m.getEventsFn(ctx, request)
	}
	return protocol.GetEventsResponse{}, nil
}

func (m *mockRPCClient) GetHealth(ctx context.Context) (protocol.GetHealthResponse, error) {
	if m.getHealthFn != nil {
		return m.getHealthFn(ctx)
	}
	return protocol.GetHealthResponse{Status: "healthy"}, nil
}

func (m *mockRPCClient) GetNetwork(ctx context.Context) (protocol.GetNetworkResponse, error) {
	if m.getNetworkFn != nil {
		return m.getNetworkFn(ctx)
	}
	return protocol.GetNetworkResponse{}, nil
}

func (m *mockRPCClient) GetLatestLedger(ctx context.Context) (protocol.GetLatestLedgerResponse, error) {
	if m.getLatestLedgerFn != nil {
		return m.getLatestLedgerFn(ctx)
	}
	return protocol.GetLatestLedgerResponse{Sequence: 1000}, nil
}

func (m *mockRPCClient) Close() error {
	return nil
}

// accountEntryFor builds a minimal account entry with the given sequence.
func accountEntryFor(accountID string, seq int64) *xdr.AccountEntry {
	return &xdr.AccountEntry{
		AccountId: xdr.MustAddress(accountID),
		SeqNum:    xdr.SequenceNumber(seq),
	}
}

// mockClientWithAccount wires GetAccount to return the given sequence for
// any account.
func mockClientWithAccount(seq int64) *mockRPCClient {
	return &mockRPCClient{
		getAccountFn: func(_ context.Context, accountID string) (*xdr.AccountEntry, error) {
			return accountEntryFor(accountID, seq), nil
		},
	}
}
