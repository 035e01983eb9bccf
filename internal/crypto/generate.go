package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"golang.org/x/crypto/chacha20"
)

// Generate produces a fresh hybrid key pair from the operating-system
// entropy source. Both halves share one creation timestamp and operation
// identifier.
func Generate() (*PrivateKey, *PublicKey, error) {
	return GenerateWithAlgorithm(AlgMandatoryHybrid)
}

// GenerateWithAlgorithm generates a key pair for an explicit version.
// Only AlgMandatoryHybrid proceeds; the legacy versions fail with
// ErrAlgorithmForbidden before any key material is produced.
func GenerateWithAlgorithm(alg AlgorithmVersion) (*PrivateKey, *PublicKey, error) {
	if err := alg.Allowed(); err != nil {
		return nil, nil, err
	}
	return generate(wallClock)
}

// generate is the shared fresh-generation path. clock supplies the
// timestamp source (wall clock, or a witness's clock for bound keys) and
// is retained by the private key for signature timestamps.
func generate(clock func() uint64) (*PrivateKey, *PublicKey, error) {
	pqPub, pqSec, err := mldsa65.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: ML-DSA keygen: %v", ErrEntropyFailure, err)
	}

	_, classical, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: Ed25519 keygen: %v", ErrEntropyFailure, err)
	}

	material, err := newKeyMaterial(pqPub, pqSec, classical)
	if err != nil {
		return nil, nil, err
	}

	operationID := clock()
	now := clock()

	priv := &PrivateKey{
		Algorithm:   AlgMandatoryHybrid,
		CreatedAt:   now,
		OperationID: operationID,
		KeyID:       fmt.Sprintf("mandatory-hybrid-%d", operationID),
		material:    material,
		clock:       clock,
	}
	pub := &PublicKey{
		Algorithm:   AlgMandatoryHybrid,
		Bytes:       material.publicBytes(),
		CreatedAt:   now,
		OperationID: operationID,
	}
	return priv, pub, nil
}

// GenerateFromSeed deterministically derives a hybrid key pair from a
// 32-byte seed.
//
// The classical half is a pure function of the seed: an Ed25519 keypair
// drawn from a ChaCha20 stream keyed with exactly those 32 bytes, so the
// same seed always yields byte-identical classical material. The
// post-quantum half is served from the encrypted secret cache; on a cache
// miss a fresh ML-DSA keypair is generated and written into the cache
// before being returned. For a fixed seed and storage environment the
// returned public key is therefore stable across calls.
//
// Cache write failures and any read failure other than a miss are
// surfaced: a lost cache entry means future derivations would silently
// produce a different post-quantum half.
func GenerateFromSeed(seed *[SeedSize]byte, cache *SeedCache) (*PrivateKey, *PublicKey, error) {
	operationID := binary.BigEndian.Uint64(seed[:8])

	classical, err := deriveClassicalKey(seed)
	if err != nil {
		return nil, nil, err
	}

	pqPub, pqSec, err := cache.Load(seed)
	if errors.Is(err, ErrCacheMiss) {
		pqPub, pqSec, err = mldsa65.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: ML-DSA keygen: %v", ErrEntropyFailure, err)
		}
		if err := cache.Save(seed, pqPub, pqSec); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	material, err := newKeyMaterial(pqPub, pqSec, classical)
	if err != nil {
		return nil, nil, err
	}

	now := wallClock()
	priv := &PrivateKey{
		Algorithm:   AlgMandatoryHybrid,
		CreatedAt:   now,
		OperationID: operationID,
		KeyID:       fmt.Sprintf("deterministic-hybrid-%s", hex.EncodeToString(seed[:8])),
		material:    material,
		clock:       wallClock,
	}
	pub := &PublicKey{
		Algorithm:   AlgMandatoryHybrid,
		Bytes:       material.publicBytes(),
		CreatedAt:   now,
		OperationID: operationID,
	}
	return priv, pub, nil
}

// deriveClassicalKey draws an Ed25519 keypair from a deterministic
// ChaCha20 keystream keyed with the seed.
func deriveClassicalKey(seed *[SeedSize]byte) (ed25519.PrivateKey, error) {
	stream, err := newSeedStream(seed)
	if err != nil {
		return nil, err
	}
	_, classical, err := ed25519.GenerateKey(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: seeded Ed25519 keygen: %v", ErrEntropyFailure, err)
	}
	return classical, nil
}

// seedStream is an io.Reader yielding the ChaCha20 keystream for a seed.
type seedStream struct {
	cipher *chacha20.Cipher
}

func newSeedStream(seed *[SeedSize]byte) (*seedStream, error) {
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("%w: seeded stream: %v", ErrEntropyFailure, err)
	}
	return &seedStream{cipher: c}, nil
}

func (s *seedStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}
