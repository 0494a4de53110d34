package sorobango

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// sha256Hash returns the SHA-256 digest of data as an xdr.Hash.
func sha256Hash(data []byte) xdr.Hash {
	return xdr.Hash(sha256.Sum256(data))
}

// generateSalt returns 32 cryptographically random bytes for contract ID
// derivation.
func generateSalt() (xdr.Uint256, error) {
	var salt xdr.Uint256
	if _, err := rand.Read(salt[:]); err != nil {
		return xdr.Uint256{}, fmt.Errorf("%w: generating salt: %v", ErrXDREncodingFailed, err)
	}
	return salt, nil
}

// CalculateContractID derives the C-address of a contract deployed by the
// given deployer account with the given salt, on the network identified by
// networkID. The ID is the SHA-256 of the HashIdPreimage for contract
// creation.
func CalculateContractID(networkID xdr.Hash, deployer xdr.AccountId, salt xdr.Uint256) (string, error) {
	preimage := xdr.HashIdPreimage{
		Type: xdr.EnvelopeTypeEnvelopeTypeContractId,
		ContractId: &xdr.HashIdPreimageContractId{
			NetworkId: networkID,
			ContractIdPreimage: xdr.ContractIdPreimage{
				Type: xdr.ContractIdPreimageTypeContractIdPreimageFromAddress,
				FromAddress: &xdr.ContractIdPreimageFromAddress{
					Address: xdr.ScAddress{
						Type:      xdr.ScAddressTypeScAddressTypeAccount,
						AccountId: &deployer,
					},
					Salt: salt,
				},
			},
		},
	}

	raw, err := preimage.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("%w: encoding contract ID preimage: %v", ErrXDREncodingFailed, err)
	}

	hash := sha256.Sum256(raw)
	contractID, err := strkey.Encode(strkey.VersionByteContract, hash[:])
	if err != nil {
		return "", fmt.Errorf("%w: encoding contract ID: %v", ErrXDREncodingFailed, err)
	}
	return contractID, nil
}

// contractScAddress converts a C-address string into an ScAddress.
func contractScAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, fmt.Errorf("%w: %q is not a valid contract ID: %v", ErrInvalidArgument, contractID, err)
	}
	var id xdr.ContractId
	copy(id[:], raw)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: &id,
	}, nil
}
