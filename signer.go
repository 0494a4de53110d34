package sorobango

import (
	"fmt"

	"github.com/stellar/go-stellar-sdk/keypair"
	"github.com/stellar/go-stellar-sdk/txnbuild"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// Signer signs transactions with a single Ed25519 keypair.
type Signer struct {
	kp *keypair.Full
}

// NewSigner creates a signer from an S-encoded Ed25519 secret seed.
func NewSigner(secretSeed string) (*Signer, error) {
	kp, err := keypair.ParseFull(secretSeed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return &Signer{kp: kp}, nil
}

// NewSignerFromKeypair wraps an existing full keypair.
func NewSignerFromKeypair(kp *keypair.Full) *Signer {
	return &Signer{kp: kp}
}

// NewSignerFromRawSeed creates a signer from a raw 32-byte Ed25519 seed.
func NewSignerFromRawSeed(seed [32]byte) (*Signer, error) {
	kp, err := keypair.FromRawSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return &Signer{kp: kp}, nil
}

// GenerateSigner creates a signer with a freshly generated random keypair.
func GenerateSigner() (*Signer, error) {
	kp, err := keypair.Random()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return &Signer{kp: kp}, nil
}

// AccountID returns the G-encoded public key of this signer.
func (s *Signer) AccountID() string {
	return s.kp.Address()
}

// Keypair returns the underlying full keypair.
func (s *Signer) Keypair() *keypair.Full {
	return s.kp
}

// AccountId returns the signer's public key as an xdr.AccountId.
func (s *Signer) AccountId() (xdr.AccountId, error) {
	return xdr.AddressToAccountId(s.kp.Address())
}

// Hint returns the last four bytes of the public key, used to match
// decorated signatures to signers.
func (s *Signer) Hint() [4]byte {
	return s.kp.Hint()
}

// SignTransaction produces a signed copy of tx for the given network.
// The input transaction is not modified.
func (s *Signer) SignTransaction(tx *txnbuild.Transaction, networkPassphrase string) (*txnbuild.Transaction, error) {
	signed, err := tx.Sign(networkPassphrase, s.kp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return signed, nil
}

// SignPayload signs the transaction signature payload hash of tx and
// returns the decorated signature, without attaching it.
func (s *Signer) SignPayload(tx *txnbuild.Transaction, networkPassphrase string) (xdr.DecoratedSignature, error) {
	hash, err := tx.Hash(networkPassphrase)
	if err != nil {
		return xdr.DecoratedSignature{}, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	sig, err := s.kp.SignDecorated(hash[:])
	if err != nil {
		return xdr.DecoratedSignature{}, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}
	return sig, nil
}
