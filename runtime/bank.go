// Copyright 2024 The go-solnode Authors
// This file is part of the go-solnode library.

package runtime

import (
	"crypto/ed25519"

	"filippo.io/edwards25519"

	"github.com/cielu/go-solnode/types"
)

// Bank is the pre-execution validation layer. It rejects invalid
// transactions before the virtual machine runs: it serializes the
// message into its canonical bytes and verifies every required Ed25519
// signature against them.
//
// Blockhash expiry, the fee-payer balance pre-check and account-key
// deduplication are not enforced yet; Validate is the seam where those
// checks go, ahead of signature verification.
type Bank struct{}

// NewBank returns a Bank.
func NewBank() *Bank {
	return &Bank{}
}

// Validate runs every pre-execution check on tx.
func (b *Bank) Validate(tx *types.Transaction) error {
	return b.VerifySignatures(tx)
}

// VerifySignatures checks that, for each signer i in
// [0, numRequiredSignatures), Signatures[i] is a valid Ed25519 signature
// of the canonical message bytes under AccountKeys[i]. Verification
// halts on the first failing signer.
func (b *Bank) VerifySignatures(tx *types.Transaction) error {
	numRequired := int(tx.Message.Header.NumRequiredSignatures)

	if len(tx.Signatures) < numRequired {
		return &NotEnoughSignaturesError{
			Expected: numRequired,
			Got:      len(tx.Signatures),
		}
	}

	messageBytes, err := tx.Message.Serialize()
	if err != nil {
		return err
	}

	for i := 0; i < numRequired; i++ {
		pubkey := tx.Message.AccountKeys[i]

		// A 32-byte value is only a verifying key if it decodes as a
		// curve point.
		if _, err := new(edwards25519.Point).SetBytes(pubkey[:]); err != nil {
			return &InvalidPublicKeyError{Index: i}
		}

		if !ed25519.Verify(ed25519.PublicKey(pubkey[:]), messageBytes, tx.Signatures[i][:]) {
			return &SignatureVerificationFailedError{Index: i}
		}
	}

	return nil
}
