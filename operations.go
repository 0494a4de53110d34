package sorobango

import (
	"fmt"

	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// UploadWasmOperation builds the host function invocation that installs
// contract code on the ledger.
func UploadWasmOperation(wasm []byte, sourceAccount string) *txnbuild.InvokeHostFunction {
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeUploadContractWasm,
			Wasm: &wasm,
		},
		SourceAccount: sourceAccount,
	}
}

// CreateContractOperation builds the host function invocation that
// instantiates a contract from installed code. When constructorArgs is
// non-nil the V2 host function is used so the constructor runs at
// creation. The operation carries a source-account authorization entry
// for the create invocation.
func CreateContractOperation(deployer xdr.AccountId, wasmHash xdr.Hash, salt xdr.Uint256, constructorArgs []xdr.ScVal, sourceAccount string) *txnbuild.InvokeHostFunction {
	preimage := xdr.ContractIdPreimage{
		Type: xdr.ContractIdPreimageTypeContractIdPreimageFromAddress,
		FromAddress: &xdr.ContractIdPreimageFromAddress{
			Address: xdr.ScAddress{
				Type:      xdr.ScAddressTypeScAddressTypeAccount,
				AccountId: &deployer,
			},
			Salt: salt,
		},
	}
	executable := xdr.ContractExecutable{
		Type:     xdr.ContractExecutableTypeContractExecutableWasm,
		WasmHash: &wasmHash,
	}

	var hostFn xdr.HostFunction
	var authFn xdr.SorobanAuthorizedFunction
	if constructorArgs == nil {
		args := xdr.CreateContractArgs{
			ContractIdPreimage: preimage,
			Executable:         executable,
		}
		hostFn = xdr.HostFunction{
			Type:           xdr.HostFunctionTypeHostFunctionTypeCreateContract,
			CreateContract: &args,
		}
		authFn = xdr.SorobanAuthorizedFunction{
			Type:                 xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeCreateContractHostFn,
			CreateContractHostFn: &args,
		}
	} else {
		args := xdr.CreateContractArgsV2{
			ContractIdPreimage: preimage,
			Executable:         executable,
			ConstructorArgs:    constructorArgs,
		}
		hostFn = xdr.HostFunction{
			Type:             xdr.HostFunctionTypeHostFunctionTypeCreateContractV2,
			CreateContractV2: &args,
		}
		authFn = xdr.SorobanAuthorizedFunction{
			Type:                   xdr.SorobanAuthorizedFunctionTypeSorobanAuthorizedFunctionTypeCreateContractV2HostFn,
			CreateContractV2HostFn: &args,
		}
	}

	auth := xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeSorobanCredentialsSourceAccount,
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: authFn,
		},
	}

	return &txnbuild.InvokeHostFunction{
		HostFunction:  hostFn,
		Auth:          []xdr.SorobanAuthorizationEntry{auth},
		SourceAccount: sourceAccount,
	}
}

// InvokeContractOperation builds the host function invocation that calls
// a contract function with the given arguments.
func InvokeContractOperation(contractID, function string, args []xdr.ScVal, sourceAccount string) (*txnbuild.InvokeHostFunction, error) {
	if len(function) > maxSymbolLength {
		return nil, fmt.Errorf("%w: function name %q exceeds %d bytes", ErrInvalidArgument, function, maxSymbolLength)
	}
	contractAddress, err := contractScAddress(contractID)
	if err != nil {
		return nil, err
	}
	return &txnbuild.InvokeHostFunction{
		HostFunction: xdr.HostFunction{
			Type: xdr.HostFunctionTypeHostFunctionTypeInvokeContract,
			InvokeContract: &xdr.InvokeContractArgs{
				ContractAddress: contractAddress,
				FunctionName:    xdr.ScSymbol(function),
				Args:            args,
			},
		},
		SourceAccount: sourceAccount,
	}, nil
}

// PaymentOperation builds a payment of the given asset. The amount is
// expressed in whole units as a decimal string; pass
// txnbuild.NativeAsset{} for lumens.
func PaymentOperation(destination, amount string, asset txnbuild.Asset, sourceAccount string) *txnbuild.Payment {
	return &txnbuild.Payment{
		Destination:   destination,
		Amount:        amount,
		Asset:         asset,
		SourceAccount: sourceAccount,
	}
}
