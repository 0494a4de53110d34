package sorobango

import (
	"fmt"
	"os"

	"github.com/stellar/go-stellar-sdk/network"
)

// EnvConfigs holds the parameters needed to connect to a Soroban RPC server
// and identify the target network.
type EnvConfigs struct {
	// RPCURL is the URL of the Soroban RPC server.
	RPCURL string

	// NetworkPassphrase identifies the Stellar network, e.g.
	// network.TestNetworkPassphrase.
	NetworkPassphrase string
}

// LoadEnvConfigs reads environment configuration from SOROBAN_RPC_URL and
// SOROBAN_NETWORK_PASSPHRASE, defaulting to the public testnet RPC endpoint
// and testnet passphrase.
func LoadEnvConfigs() EnvConfigs {
	cfg := EnvConfigs{
		RPCURL:            os.Getenv("SOROBAN_RPC_URL"),
		NetworkPassphrase: os.Getenv("SOROBAN_NETWORK_PASSPHRASE"),
	}
	if cfg.RPCURL == "" {
		cfg.RPCURL = "https://soroban-testnet.stellar.org"
	}
	if cfg.NetworkPassphrase == "" {
		cfg.NetworkPassphrase = network.TestNetworkPassphrase
	}
	return cfg
}

// Validate checks that the configuration is complete.
func (c EnvConfigs) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("%w: RPCURL is required", ErrInvalidArgument)
	}
	if c.NetworkPassphrase == "" {
		return fmt.Errorf("%w: NetworkPassphrase is required", ErrInvalidArgument)
	}
	return nil
}
