package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Verify checks a hybrid signature over message. Each step is a hard gate:
// verification stops and fails at the first unmet condition, and success
// requires both the ML-DSA and the Ed25519 components to verify. The two
// component failures are reported distinctly so audit consumers know which
// half failed. Verify has no side effects.
func (p *PublicKey) Verify(message []byte, sig *Signature) error {
	if err := p.Algorithm.Allowed(); err != nil {
		return err
	}

	if len(p.Bytes) < PQPublicKeySize {
		return fmt.Errorf("%w: got %d bytes, want at least %d", ErrInvalidKeyLength, len(p.Bytes), HybridPublicKeySize)
	}

	var pqPub mldsa65.PublicKey
	if err := pqPub.UnmarshalBinary(p.Bytes[:PQPublicKeySize]); err != nil {
		return fmt.Errorf("%w: malformed ML-DSA segment: %v", ErrInvalidKeyLength, err)
	}

	classicalSeg := p.Bytes[PQPublicKeySize:]
	if len(classicalSeg) < ClassicalPublicKeySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidClassicalKey, len(classicalSeg), ClassicalPublicKeySize)
	}
	classicalPub := ed25519.PublicKey(classicalSeg[:ClassicalPublicKeySize])

	if len(sig.Bytes) < HybridSignatureSize {
		return fmt.Errorf("%w: got %d bytes, want at least %d", ErrInvalidSignatureLength, len(sig.Bytes), HybridSignatureSize)
	}

	if !mldsa65.Verify(&pqPub, message, nil, sig.Bytes[:PQSignatureSize]) {
		return ErrPQVerificationFailed
	}

	if !ed25519.Verify(classicalPub, message, sig.Bytes[PQSignatureSize:PQSignatureSize+ClassicalSignatureSize]) {
		return ErrClassicalVerificationFailed
	}

	return nil
}
