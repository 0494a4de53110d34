package sorobango

import (
	"fmt"
	"time"

	"github.com/stellar/go-stellar-sdk/xdr"
)

// maxSymbolLength is the protocol limit on ScSymbol length in bytes.
const maxSymbolLength = 32

// ScValConverter is implemented by types that know how to represent
// themselves as contract argument values.
type ScValConverter interface {
	ToScVal() (xdr.ScVal, error)
}

// ConvertArgs converts a list of custom values into ScVals.
func ConvertArgs(values ...ScValConverter) ([]xdr.ScVal, error) {
	args := make([]xdr.ScVal, 0, len(values))
	for _, value := range values {
		val, err := value.ToScVal()
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

// ScBool wraps a bool as an ScVal.
func ScBool(v bool) xdr.ScVal {
	return xdr.ScVal{Type: xdr.ScValTypeScvBool, B: &v}
}

// ScU32 wraps a uint32 as an ScVal.
func ScU32(v uint32) xdr.ScVal {
	val := xdr.Uint32(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &val}
}

// ScI32 wraps an int32 as an ScVal.
func ScI32(v int32) xdr.ScVal {
	val := xdr.Int32(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvI32, I32: &val}
}

// ScU64 wraps a uint64 as an ScVal.
func ScU64(v uint64) xdr.ScVal {
	val := xdr.Uint64(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &val}
}

// ScI64 wraps an int64 as an ScVal.
func ScI64(v int64) xdr.ScVal {
	val := xdr.Int64(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvI64, I64: &val}
}

// ScString wraps a string as an ScVal.
func ScString(v string) xdr.ScVal {
	val := xdr.ScString(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &val}
}

// ScBytes wraps a byte slice as an ScVal.
func ScBytes(v []byte) xdr.ScVal {
	val := xdr.ScBytes(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvBytes, Bytes: &val}
}

// ScSymbol wraps a string as a symbol ScVal. Symbols are capped at 32
// bytes by the protocol.
func ScSymbol(v string) (xdr.ScVal, error) {
	if len(v) > maxSymbolLength {
		return xdr.ScVal{}, fmt.Errorf("%w: symbol %q exceeds %d bytes", ErrInvalidArgument, v, maxSymbolLength)
	}
	val := xdr.ScSymbol(v)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &val}, nil
}

// ScDuration wraps a duration as an ScVal, truncated to whole seconds.
func ScDuration(v time.Duration) xdr.ScVal {
	val := xdr.Duration(v / time.Second)
	return xdr.ScVal{Type: xdr.ScValTypeScvDuration, Duration: &val}
}

// ScVec wraps a list of ScVals as a vector ScVal.
func ScVec(vals ...xdr.ScVal) xdr.ScVal {
	vec := xdr.ScVec(vals)
	vecPtr := &vec
	return xdr.ScVal{Type: xdr.ScValTypeScvVec, Vec: &vecPtr}
}

// ScAccountAddress wraps a G-address as an address ScVal.
func ScAccountAddress(accountID string) (xdr.ScVal, error) {
	xdrAccountID, err := xdr.AddressToAccountId(accountID)
	if err != nil {
		return xdr.ScVal{}, fmt.Errorf("%w: %q is not a valid account: %v", ErrInvalidArgument, accountID, err)
	}
	addr := xdr.ScAddress{
		Type:      xdr.ScAddressTypeScAddressTypeAccount,
		AccountId: &xdrAccountID,
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

// ScContractAddress wraps a C-address as an address ScVal.
func ScContractAddress(contractID string) (xdr.ScVal, error) {
	addr, err := contractScAddress(contractID)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}
