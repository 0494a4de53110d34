package sorobango

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stellar/go-stellar-sdk/clients/rpcclient"
	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// RPCClient is the interface for RPC operations against a Soroban server.
// It abstracts the underlying client so tests can inject mock
// implementations.
type RPCClient interface {
	GetAccount(ctx context.Context, accountID string) (*xdr.AccountEntry, error)
	SimulateTransaction(ctx context.Context, txBase64 string) (protocol.SimulateTransactionResponse, error)
	SendTransaction(ctx context.Context, txBase64 string) (protocol.SendTransactionResponse, error)
	PollTransaction(ctx context.Context, txHash string) (protocol.GetTransactionResponse, error)
	GetEvents(ctx context.Context, request protocol.GetEventsRequest) (protocol.GetEventsResponse, error)
	GetHealth(ctx context.Context) (protocol.GetHealthResponse, error)
	GetNetwork(ctx context.Context) (protocol.GetNetworkResponse, error)
	GetLatestLedger(ctx context.Context) (protocol.GetLatestLedgerResponse, error)
	Close() error
}

// externalRPCClient implements RPCClient on top of the stellar-sdk rpcclient.
type externalRPCClient struct {
	client *rpcclient.Client
}

// newExternalRPCClient creates an RPC client connected to the given URL.
func newExternalRPCClient(url string) *externalRPCClient {
	return &externalRPCClient{
		client: rpcclient.NewClient(url, &http.Client{}),
	}
}

// GetAccount fetches the account ledger entry for a G-address via
// getLedgerEntries.
func (c *externalRPCClient) GetAccount(ctx context.Context, accountID string) (*xdr.AccountEntry, error) {
	if !strkey.IsValidEd25519PublicKey(accountID) {
		return nil, fmt.Errorf("%w: %q is not a valid Stellar account", ErrInvalidArgument, accountID)
	}

	xdrAccountID, err := xdr.AddressToAccountId(accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	lk, err := xdrAccountID.LedgerKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}

	accountKey, err := xdr.MarshalBase64(lk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}

	resp, err := c.client.GetLedgerEntries(ctx, protocol.GetLedgerEntriesRequest{
		Keys: []string{accountKey},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get account %s: %v", ErrNetworkRequestFailed, accountID, err)
	}
	if len(resp.Entries) != 1 {
		return nil, fmt.Errorf("%w: no ledger entry for account %s", ErrNetworkRequestFailed, accountID)
	}

	var entry xdr.LedgerEntryData
	if err := xdr.SafeUnmarshalBase64(resp.Entries[0].DataXDR, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}
	if entry.Account == nil {
		return nil, fmt.Errorf("%w: ledger entry for %s is not an account", ErrNetworkRequestFailed, accountID)
	}

	return entry.Account, nil
}

func (c *externalRPCClient) SimulateTransaction(ctx context.Context, txBase64 string) (protocol.SimulateTransactionResponse, error) {
	resp, err := c.client.SimulateTransaction(ctx, protocol.SimulateTransactionRequest{
		Transaction: txBase64,
	})
	if err != nil {
		return protocol.SimulateTransactionResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) SendTransaction(ctx context.Context, txBase64 string) (protocol.SendTransactionResponse, error) {
	resp, err := c.client.SendTransaction(ctx, protocol.SendTransactionRequest{
		Transaction: txBase64,
	})
	if err != nil {
		return protocol.SendTransactionResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) PollTransaction(ctx context.Context, txHash string) (protocol.GetTransactionResponse, error) {
	resp, err := c.client.PollTransaction(ctx, txHash)
	if err != nil {
		return protocol.GetTransactionResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) GetEvents(ctx context.Context, request protocol.GetEventsRequest) (protocol.GetEventsResponse, error) {
	resp, err := c.client.GetEvents(ctx, request)
	if err != nil {
		return protocol.GetEventsResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) GetHealth(ctx context.Context) (protocol.GetHealthResponse, error) {
	resp, err := c.client.GetHealth(ctx)
	if err != nil {
		return protocol.GetHealthResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) GetNetwork(ctx context.Context) (protocol.GetNetworkResponse, error) {
	resp, err := c.client.GetNetwork(ctx)
	if err != nil {
		return protocol.GetNetworkResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) GetLatestLedger(ctx context.Context) (protocol.GetLatestLedgerResponse, error) {
	resp, err := c.client.GetLatestLedger(ctx)
	if err != nil {
		return protocol.GetLatestLedgerResponse{}, fmt.Errorf("%w: %v", ErrNetworkRequestFailed, err)
	}
	return resp, nil
}

func (c *externalRPCClient) Close() error {
	return c.client.Close()
}
