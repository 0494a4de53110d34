/*
Package sorobango provides helpers for deploying and invoking Soroban smart
contracts on the Stellar network.

The package wraps the Stellar RPC API with a small set of types:

  - [Env] holds the RPC connection and network identity, and submits and
    simulates transactions.
  - [Signer] signs transactions with an Ed25519 keypair.
  - [Account] represents a single-signature or multisig source account with a
    guarded signing budget.
  - [TransactionBuilder] assembles transactions and sizes their fees and
    Soroban resources through simulation.
  - [Contract] deploys WASM bytecode and invokes contract functions.
  - [TransactionResponse] decodes return values and contract events from
    transaction metadata.

A minimal deploy-and-invoke flow:

	env, err := sorobango.NewEnv(sorobango.EnvConfigs{
		RPCURL:            "https://soroban-testnet.stellar.org",
		NetworkPassphrase: network.TestNetworkPassphrase,
	})
	signer, err := sorobango.NewSigner(os.Getenv("SOROBAN_SECRET_SEED"))
	account := sorobango.SingleAccount(signer)

	contract, err := sorobango.NewContractFromFile("counter.wasm")
	contractID, err := contract.Deploy(ctx, env, account, nil)
	resp, err := contract.Invoke(ctx, "increment", []xdr.ScVal{sorobango.ScU32(1)})

Typed clients for specific contracts can be generated from a Go interface
description with the sorobangen command; see the gen package.
*/
package sorobango
