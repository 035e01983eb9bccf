package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Sign produces a hybrid signature over message.
//
// Validation order: empty message, oversized message, usage accounting,
// algorithm policy. The usage counter is incremented before the limit
// check, so the count observed at rejection reflects the attempted use.
// On success both components sign the identical message bytes and are
// concatenated as ml_dsa_signature || ed25519_signature.
func (k *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(message) > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrMessageTooLarge, len(message), MaxMessageSize)
	}

	used := k.usage.Add(1) - 1
	if used >= MaxKeyUses {
		return nil, fmt.Errorf("%w: %d operations (max %d)", ErrUsageLimitExceeded, used+1, MaxKeyUses)
	}

	if err := k.Algorithm.Allowed(); err != nil {
		return nil, err
	}

	combined := make([]byte, HybridSignatureSize)
	mldsa65.SignTo(k.material.pqSecret, message, nil, false, combined[:PQSignatureSize])
	copy(combined[PQSignatureSize:], ed25519.Sign(k.material.classical, message))

	operationID := k.clock()
	return &Signature{
		Algorithm:   k.Algorithm,
		Bytes:       combined,
		CreatedAt:   k.clock(),
		OperationID: operationID,
		SignerKeyID: k.KeyID,
	}, nil
}
