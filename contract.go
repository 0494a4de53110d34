package sorobango

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/stellar/go-stellar-sdk/xdr"

	"sorobango/internal/metrics"
)

// constructorExport is the export name Soroban contracts use for their
// constructor.
const constructorExport = "__constructor"

// ClientConfigs binds a deployed contract to the environment and account
// used to invoke it.
type ClientConfigs struct {
	Env        *Env
	Account    *Account
	ContractID string
}

// Contract handles deployment and invocation of a Soroban contract.
type Contract struct {
	wasm     []byte
	wasmHash xdr.Hash
	configs  *ClientConfigs
	logger   *slog.Logger
}

// NewContract creates a contract from raw WASM bytes.
func NewContract(wasm []byte) *Contract {
	return &Contract{
		wasm:     wasm,
		wasmHash: sha256Hash(wasm),
		logger:   slog.Default().With("component", "contract"),
	}
}

// NewContractFromFile creates a contract by reading WASM from disk.
func NewContractFromFile(path string) (*Contract, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading wasm file %s: %v", ErrInvalidArgument, path, err)
	}
	return NewContract(wasm), nil
}

// ContractFromConfigs creates a handle to an already deployed contract.
func ContractFromConfigs(configs ClientConfigs) (*Contract, error) {
	if configs.Env == nil || configs.Account == nil || configs.ContractID == "" {
		return nil, fmt.Errorf("%w: client configs need env, account and contract ID", ErrInvalidArgument)
	}
	return &Contract{
		configs: &configs,
		logger:  slog.Default().With("component", "contract", "contract_id", configs.ContractID),
	}, nil
}

// WasmHash returns the SHA-256 hash of the contract code.
func (c *Contract) WasmHash() xdr.Hash {
	return c.wasmHash
}

// ContractID returns the C-address of the deployed contract, or an empty
// string if the contract has not been deployed or bound yet.
func (c *Contract) ContractID() string {
	if c.configs == nil {
		return ""
	}
	return c.configs.ContractID
}

// ClientConfigs returns the deployment binding, or nil before deployment.
func (c *Contract) ClientConfigs() *ClientConfigs {
	return c.configs
}

// hasConstructor reports whether the WASM exports a constructor.
func (c *Contract) hasConstructor() bool {
	return bytes.Contains(c.wasm, []byte(constructorExport))
}

// Deploy installs the contract code and instantiates the contract,
// returning its C-address. Constructor arguments are only passed along
// when the code actually exports a constructor. After a successful deploy
// the contract is bound to env and account so Invoke can be called
// directly.
func (c *Contract) Deploy(ctx context.Context, env *Env, account *Account, constructorArgs []xdr.ScVal) (string, error) {
	if len(c.wasm) == 0 {
		return "", fmt.Errorf("%w: contract has no wasm to deploy", ErrInvalidArgument)
	}

	if err := c.uploadWasm(ctx, env, account); err != nil {
		if !errors.Is(err, ErrContractCodeAlreadyExists) {
			return "", err
		}
		c.logger.Info("contract code already installed, reusing", "wasm_hash", c.wasmHash.HexString())
	}

	salt, err := generateSalt()
	if err != nil {
		return "", err
	}

	deployer, err := xdr.AddressToAccountId(account.AccountID())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	contractID, err := CalculateContractID(env.NetworkID(), deployer, salt)
	if err != nil {
		return "", err
	}

	if !c.hasConstructor() {
		constructorArgs = nil
	}

	op := CreateContractOperation(deployer, c.wasmHash, salt, constructorArgs, account.AccountID())
	tx, err := NewTransactionBuilder(env, account.AccountID()).
		AddOperation(op).
		SimulateAndBuild(ctx)
	if err != nil {
		return "", err
	}

	signed, err := account.SignTransaction(tx, env.NetworkPassphrase())
	if err != nil {
		return "", err
	}
	signedBase64, err := signed.Base64()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}

	if _, err := env.SendTransaction(ctx, signedBase64); err != nil {
		return "", err
	}

	metrics.ContractsDeployed.Inc()
	c.logger.Info("contract deployed", "contract_id", contractID)

	c.configs = &ClientConfigs{Env: env, Account: account, ContractID: contractID}
	return contractID, nil
}

// uploadWasm installs the contract code on the ledger.
func (c *Contract) uploadWasm(ctx context.Context, env *Env, account *Account) error {
	op := UploadWasmOperation(c.wasm, account.AccountID())
	tx, err := NewTransactionBuilder(env, account.AccountID()).
		AddOperation(op).
		SimulateAndBuild(ctx)
	if err != nil {
		return err
	}

	signed, err := account.SignTransaction(tx, env.NetworkPassphrase())
	if err != nil {
		return err
	}
	signedBase64, err := signed.Base64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}

	if _, err := env.SendTransaction(ctx, signedBase64); err != nil {
		return err
	}

	metrics.WasmUploads.Inc()
	return nil
}

// Invoke calls a function on the deployed contract and waits for the
// result. The contract must have been deployed through Deploy or bound
// with ContractFromConfigs first.
func (c *Contract) Invoke(ctx context.Context, function string, args []xdr.ScVal) (*TransactionResponse, error) {
	if c.configs == nil {
		return nil, ErrContractConfigsNotSet
	}
	env := c.configs.Env
	account := c.configs.Account

	op, err := InvokeContractOperation(c.configs.ContractID, function, args, account.AccountID())
	if err != nil {
		return nil, err
	}

	tx, err := NewTransactionBuilder(env, account.AccountID()).
		AddOperation(op).
		SimulateAndBuild(ctx)
	if err != nil {
		return nil, err
	}

	signed, err := account.SignTransaction(tx, env.NetworkPassphrase())
	if err != nil {
		return nil, err
	}
	signedBase64, err := signed.Base64()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXDREncodingFailed, err)
	}

	resp, err := env.SendTransaction(ctx, signedBase64)
	if err != nil {
		return nil, err
	}

	metrics.ContractInvocations.WithLabelValues(function).Inc()
	return NewTransactionResponse(resp), nil
}
