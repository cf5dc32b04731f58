// Package signer builds the canonical response message and handles
// secp256k1 personal-message signing and signer recovery.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrMalformedSignature = errors.New("malformed signature")

// TaskMessage returns the canonical message an operator signs for one task
// response: every signed field in a fixed order, terminated by the verifying
// ledger identity so a signature never replays against another deployment.
func TaskMessage(kind string, taskID uint64, subject common.Address, level, score uint8, amount uint64, proofURI string, ledgerID common.Address) string {
	return fmt.Sprintf("%s:%d:%s:%d:%d:%d:%s:%s",
		kind, taskID, subject.Hex(), level, score, amount, proofURI, ledgerID.Hex())
}

// Sign hashes msg with the personal-message prefix and signs the digest.
// The returned signature is 65 bytes, recovery id last.
func Sign(priv *ecdsa.PrivateKey, msg string) ([]byte, error) {
	return crypto.Sign(accounts.TextHash([]byte(msg)), priv)
}

// Recover returns the address that produced sig over msg. Malformed input
// yields ErrMalformedSignature, never a panic.
func Recover(msg string, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrMalformedSignature
	}
	// Tolerate the 27/28 recovery id convention used by wallet tooling.
	cp := make([]byte, crypto.SignatureLength)
	copy(cp, sig)
	if cp[crypto.RecoveryIDOffset] >= 27 {
		cp[crypto.RecoveryIDOffset] -= 27
	}
	if cp[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, ErrMalformedSignature
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(msg)), cp)
	if err != nil {
		return common.Address{}, ErrMalformedSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}
