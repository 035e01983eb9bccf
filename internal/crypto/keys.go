package crypto

import (
	"crypto/ed25519"
	"fmt"
	"sync/atomic"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Fixed widths of the hybrid byte layouts. The post-quantum widths are
// constants of ML-DSA-65; the classical widths are Ed25519's. Stored values
// shorter than the summed widths are rejected before any cryptographic call.
const (
	// PQPublicKeySize is the size of an ML-DSA-65 public key in bytes.
	PQPublicKeySize = mldsa65.PublicKeySize
	// PQSecretKeySize is the size of an ML-DSA-65 secret key in bytes.
	PQSecretKeySize = mldsa65.PrivateKeySize
	// PQSignatureSize is the size of an ML-DSA-65 signature in bytes.
	PQSignatureSize = mldsa65.SignatureSize

	// ClassicalPublicKeySize is the size of an Ed25519 public key in bytes.
	ClassicalPublicKeySize = ed25519.PublicKeySize
	// ClassicalSignatureSize is the size of an Ed25519 signature in bytes.
	ClassicalSignatureSize = ed25519.SignatureSize

	// HybridPublicKeySize is the full public key layout:
	// ml_dsa_public(1952) || ed25519_public(32).
	HybridPublicKeySize = PQPublicKeySize + ClassicalPublicKeySize
	// HybridSignatureSize is the full signature layout:
	// ml_dsa_signature(3309) || ed25519_signature(64).
	HybridSignatureSize = PQSignatureSize + ClassicalSignatureSize

	// SeedSize is the exact length of a deterministic derivation seed.
	SeedSize = 32

	// MaxMessageSize is the largest message the engine will sign.
	MaxMessageSize = 1 << 20

	// MaxKeyUses is the per-key signing operation limit.
	MaxKeyUses = 1_000_000
)

// keyMaterial holds both halves of a hybrid key. It is only constructed by
// newKeyMaterial, which requires all components, so a key with a single
// half is unrepresentable.
type keyMaterial struct {
	pqPublic  *mldsa65.PublicKey
	pqSecret  *mldsa65.PrivateKey
	classical ed25519.PrivateKey
}

func newKeyMaterial(pqPub *mldsa65.PublicKey, pqSec *mldsa65.PrivateKey, classical ed25519.PrivateKey) (keyMaterial, error) {
	if pqPub == nil || pqSec == nil || len(classical) != ed25519.PrivateKeySize {
		return keyMaterial{}, fmt.Errorf("%w: incomplete hybrid key material", ErrInvalidKeyLength)
	}
	return keyMaterial{pqPublic: pqPub, pqSecret: pqSec, classical: classical}, nil
}

// publicBytes returns the concatenated hybrid public key layout.
func (m keyMaterial) publicBytes() []byte {
	out := make([]byte, 0, HybridPublicKeySize)
	out = append(out, m.pqPublic.Bytes()...)
	out = append(out, m.classical.Public().(ed25519.PublicKey)...)
	return out
}

// PrivateKey is a hybrid signing key with usage tracking and provenance
// metadata. The usage counter is the only mutable state and is safe for
// concurrent use; everything else is fixed at construction. A PrivateKey
// is never persisted as a whole: only its post-quantum half may be cached,
// encrypted, in the seed-derived path.
type PrivateKey struct {
	Algorithm   AlgorithmVersion
	CreatedAt   uint64
	OperationID uint64
	KeyID       string

	material keyMaterial
	usage    atomic.Uint64
	clock    func() uint64
}

// UsageCount returns the number of signing operations attempted with this
// key, including attempts rejected by the usage limit.
func (k *PrivateKey) UsageCount() uint64 {
	return k.usage.Load()
}

// PublicKey derives the public key for this private key. The returned
// bytes are exactly the concatenation produced at generation time; this
// equality is a correctness invariant of the engine.
func (k *PrivateKey) PublicKey() (*PublicKey, error) {
	if err := k.Algorithm.Allowed(); err != nil {
		return nil, err
	}
	return &PublicKey{
		Algorithm:   k.Algorithm,
		Bytes:       k.material.publicBytes(),
		CreatedAt:   k.CreatedAt,
		OperationID: k.OperationID,
	}, nil
}

// PublicKey is the verification half of a hybrid key pair. Immutable after
// construction; safe to persist and transmit in cleartext.
type PublicKey struct {
	Algorithm   AlgorithmVersion
	Bytes       []byte
	CreatedAt   uint64
	OperationID uint64
}

// Signature is a hybrid signature: ML-DSA-65 bytes followed by Ed25519
// bytes, both over the identical message. Immutable. SignerKeyID is
// advisory provenance metadata, not part of the security check.
type Signature struct {
	Algorithm   AlgorithmVersion
	Bytes       []byte
	CreatedAt   uint64
	OperationID uint64
	SignerKeyID string
}
