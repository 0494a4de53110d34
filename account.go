package sorobango

import (
	"context"
	"fmt"
	"sync"

	"github.com/stellar/go-stellar-sdk/txnbuild"
)

// maxEnvelopeSignatures is the protocol limit on signatures per envelope.
const maxEnvelopeSignatures = 20

// Account represents a Stellar account together with the signers allowed
// to act for it. It can optionally carry a signing budget that caps how
// many transactions the account will authorize.
type Account struct {
	signers   []*Signer
	accountID string

	mu              sync.Mutex
	authorizedCalls *int
}

// SingleAccount creates an account controlled by one signer. The signer's
// public key is used as the account ID.
func SingleAccount(signer *Signer) *Account {
	return &Account{
		signers:   []*Signer{signer},
		accountID: signer.AccountID(),
	}
}

// MultisigAccount creates an account whose transactions are co-signed by
// all given signers. The account ID may belong to none of the signers.
func MultisigAccount(accountID string, signers ...*Signer) (*Account, error) {
	if len(signers) == 0 {
		return nil, fmt.Errorf("%w: multisig account needs at least one signer", ErrInvalidArgument)
	}
	return &Account{
		signers:   append([]*Signer(nil), signers...),
		accountID: accountID,
	}, nil
}

// AccountID returns the G-address of this account.
func (a *Account) AccountID() string {
	return a.accountID
}

// Signers returns a snapshot of the signers attached to this account.
func (a *Account) Signers() []*Signer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Signer(nil), a.signers...)
}

// AddSigner attaches another signer to this account.
func (a *Account) AddSigner(signer *Signer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signers = append(a.signers, signer)
}

// Sequence returns the account's current sequence number.
func (a *Account) Sequence(ctx context.Context, env *Env) (int64, error) {
	return env.GetSequence(ctx, a.accountID)
}

// NextSequence returns the sequence number the account's next transaction
// must carry.
func (a *Account) NextSequence(ctx context.Context, env *Env) (int64, error) {
	seq, err := env.GetSequence(ctx, a.accountID)
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

// SetAuthorizedCalls arms the signing budget. After n successful signing
// calls, further attempts fail with ErrUnauthorized.
func (a *Account) SetAuthorizedCalls(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	calls := n
	a.authorizedCalls = &calls
}

// AuthorizedCalls returns the remaining signing budget, or -1 when the
// budget is not armed.
func (a *Account) AuthorizedCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.authorizedCalls == nil {
		return -1
	}
	return *a.authorizedCalls
}

// consumeAuthorizedCall decrements the signing budget if armed.
func (a *Account) consumeAuthorizedCall() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.authorizedCalls == nil {
		return nil
	}
	if *a.authorizedCalls <= 0 {
		return fmt.Errorf("%w: signing budget exhausted", ErrUnauthorized)
	}
	*a.authorizedCalls--
	return nil
}

// SignTransaction signs tx with every signer of this account, consuming
// one unit of the signing budget when it is armed.
func (a *Account) SignTransaction(tx *txnbuild.Transaction, networkPassphrase string) (*txnbuild.Transaction, error) {
	if err := a.consumeAuthorizedCall(); err != nil {
		return nil, err
	}
	return a.signAll(tx, networkPassphrase)
}

// SignTransactionUnsafe signs tx with every signer, bypassing the signing
// budget. Intended for flows that manage authorization themselves.
func (a *Account) SignTransactionUnsafe(tx *txnbuild.Transaction, networkPassphrase string) (*txnbuild.Transaction, error) {
	return a.signAll(tx, networkPassphrase)
}

func (a *Account) signAll(tx *txnbuild.Transaction, networkPassphrase string) (*txnbuild.Transaction, error) {
	signed := tx
	for _, signer := range a.Signers() {
		var err error
		signed, err = signer.SignTransaction(signed, networkPassphrase)
		if err != nil {
			return nil, err
		}
	}
	return signed, nil
}

// SignEnvelope appends this account's signatures to an already signed
// transaction, preserving the existing signatures. The combined envelope
// may not exceed the protocol limit of 20 signatures.
func (a *Account) SignEnvelope(tx *txnbuild.Transaction, networkPassphrase string) (*txnbuild.Transaction, error) {
	if err := a.consumeAuthorizedCall(); err != nil {
		return nil, err
	}

	signers := a.Signers()
	existing := len(tx.Signatures())
	if existing+len(signers) > maxEnvelopeSignatures {
		return nil, fmt.Errorf("%w: envelope would carry %d signatures, limit is %d",
			ErrInvalidArgument, existing+len(signers), maxEnvelopeSignatures)
	}

	signed := tx
	for _, signer := range signers {
		sig, err := signer.SignPayload(tx, networkPassphrase)
		if err != nil {
			return nil, err
		}
		signed, err = signed.AddSignatureDecorated(sig)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
		}
	}
	return signed, nil
}

// AccountConfig describes a change to an account's signing setup. Nil
// fields are left untouched.
type AccountConfig struct {
	MasterWeight    *txnbuild.Threshold
	LowThreshold    *txnbuild.Threshold
	MediumThreshold *txnbuild.Threshold
	HighThreshold   *txnbuild.Threshold
	SignersToAdd    []txnbuild.Signer
}

// Configure builds the SetOptions operations that apply cfg to this
// account. Threshold changes go into one operation; each added signer gets
// its own operation.
func (a *Account) Configure(cfg AccountConfig) []txnbuild.Operation {
	var ops []txnbuild.Operation

	if cfg.MasterWeight != nil || cfg.LowThreshold != nil ||
		cfg.MediumThreshold != nil || cfg.HighThreshold != nil {
		ops = append(ops, &txnbuild.SetOptions{
			MasterWeight:    cfg.MasterWeight,
			LowThreshold:    cfg.LowThreshold,
			MediumThreshold: cfg.MediumThreshold,
			HighThreshold:   cfg.HighThreshold,
			SourceAccount:   a.accountID,
		})
	}

	for i := range cfg.SignersToAdd {
		ops = append(ops, &txnbuild.SetOptions{
			Signer:        &cfg.SignersToAdd[i],
			SourceAccount: a.accountID,
		})
	}

	return ops
}
