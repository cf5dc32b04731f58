package node

import (
	"crypto/sha256"
	"encoding/hex"
)

// ProofStore is the evidence-storage collaborator. A Put failure is fatal
// to that task's processing attempt.
type ProofStore interface {
	Put(evidence []byte) (string, error)
}

// ContentStore is the mock proof store: a content-addressed URI over the
// evidence bytes, no actual upload.
type ContentStore struct{}

func (ContentStore) Put(evidence []byte) (string, error) {
	sum := sha256.Sum256(evidence)
	return "ipfs://" + hex.EncodeToString(sum[:]), nil
}
