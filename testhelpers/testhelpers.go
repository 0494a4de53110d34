// Package testhelpers provides fixtures for tests that exercise contract
// flows: a configured environment plus generated signers and accounts.
package testhelpers

import (
	"testing"

	"sorobango"
)

// NewEnv creates an environment from SOROBAN_RPC_URL and
// SOROBAN_NETWORK_PASSPHRASE, falling back to testnet defaults. The
// environment is closed when the test finishes.
func NewEnv(t *testing.T) *sorobango.Env {
	t.Helper()
	env, err := sorobango.NewEnv(sorobango.LoadEnvConfigs())
	if err != nil {
		t.Fatalf("failed to create environment: %v", err)
	}
	t.Cleanup(func() { _ = env.Close() })
	return env
}

// GenerateSigner creates a signer with a fresh random keypair.
func GenerateSigner(t *testing.T) *sorobango.Signer {
	t.Helper()
	signer, err := sorobango.GenerateSigner()
	if err != nil {
		t.Fatalf("failed to generate signer: %v", err)
	}
	return signer
}

// GenerateAddress returns the G-address of a fresh random keypair.
func GenerateAddress(t *testing.T) string {
	t.Helper()
	return GenerateSigner(t).AccountID()
}

// GenerateAccounts creates n single-signer accounts.
func GenerateAccounts(t *testing.T, n int) []*sorobango.Account {
	t.Helper()
	accounts := make([]*sorobango.Account, n)
	for i := range accounts {
		accounts[i] = sorobango.SingleAccount(GenerateSigner(t))
	}
	return accounts
}
