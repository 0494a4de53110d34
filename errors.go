package sorobango

import "errors"

// Sentinel errors returned by this package. Callers should match them with
// errors.Is; most are returned wrapped with additional context.
var (
	// ErrTransactionFailed indicates a submitted transaction reached a
	// terminal FAILED state on the network.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrContractCodeAlreadyExists indicates an upload of contract WASM
	// that is already installed on the network. Deployment treats this
	// as success.
	ErrContractCodeAlreadyExists = errors.New("contract code already exists")

	// ErrNetworkRequestFailed indicates an RPC request to the Soroban
	// server failed.
	ErrNetworkRequestFailed = errors.New("network request failed")

	// ErrSigningFailed indicates a signature could not be produced.
	ErrSigningFailed = errors.New("signing failed")

	// ErrXDREncodingFailed indicates XDR encoding or decoding failed.
	ErrXDREncodingFailed = errors.New("xdr encoding failed")

	// ErrInvalidArgument indicates a caller-supplied value is not valid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransactionBuildFailed indicates a transaction could not be
	// assembled.
	ErrTransactionBuildFailed = errors.New("transaction build failed")

	// ErrUnauthorized indicates an account has exhausted its authorized
	// call budget.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrContractConfigsNotSet indicates an invocation was attempted on a
	// contract with no deployment configuration.
	ErrContractConfigsNotSet = errors.New("contract client configs not set")

	// ErrNotSupported indicates the operation requires a feature this
	// library does not implement, such as address-credential
	// authorization.
	ErrNotSupported = errors.New("not supported")
)
