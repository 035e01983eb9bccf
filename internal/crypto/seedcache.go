package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Domain-separation labels for the cache derivations. The cipher key and
// the entry name use distinct labels so neither derivation reveals the
// other, and neither reveals the seed. These values are part of the on-disk
// format and must not change.
const (
	encryptionKeyLabel   = "AF_ENCRYPTION_KEY_V1"
	encryptionKeyContext = "DILITHIUM_STORAGE"
	entryNameLabel       = "AF_FILENAME_V1"
	entryNamePrefix      = ".af_dilithium_"
	cacheNonceSize       = 12
	cachePlaintextSize   = PQPublicKeySize + PQSecretKeySize
)

// SeedCache persists the post-quantum half of a seed-derived key pair,
// encrypted at rest with AES-256-GCM under a key derived from the seed.
// The seed itself is never stored and never used directly as a cipher key.
//
// Entry layout on disk: nonce(12) || ciphertext. Plaintext layout:
// ml_dsa_public(1952) || ml_dsa_secret(4032).
type SeedCache struct {
	store SecretStore
}

// NewSeedCache creates a cache backed by the given store.
func NewSeedCache(store SecretStore) *SeedCache {
	return &SeedCache{store: store}
}

// deriveEncryptionKey produces the AES-256 key for a seed's cache entry:
// SHA-256 over the key label, the seed and the storage context.
func deriveEncryptionKey(seed *[SeedSize]byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(encryptionKeyLabel))
	h.Write(seed[:])
	h.Write([]byte(encryptionKeyContext))
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// entryName derives the storage name for a seed's cache entry from a hash
// with its own label, so the name neither collides across seeds nor leaks
// the seed.
func entryName(seed *[SeedSize]byte) string {
	h := sha256.New()
	h.Write([]byte(entryNameLabel))
	h.Write(seed[:])
	sum := h.Sum(nil)
	return entryNamePrefix + hex.EncodeToString(sum[:16])
}

// EntryName exposes the derived entry name for a seed so callers can rotate
// cached secrets through SecretStore implementations that support removal.
func EntryName(seed *[SeedSize]byte) string {
	return entryName(seed)
}

func newSeedCipher(seed *[SeedSize]byte) (cipher.AEAD, error) {
	key := deriveEncryptionKey(seed)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheDecrypt, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheDecrypt, err)
	}
	return aead, nil
}

// Save encrypts the ML-DSA keypair and writes it to the store. A fresh
// random nonce is generated per write.
func (c *SeedCache) Save(seed *[SeedSize]byte, pqPub *mldsa65.PublicKey, pqSec *mldsa65.PrivateKey) error {
	aead, err := newSeedCipher(seed)
	if err != nil {
		return err
	}

	nonce := make([]byte, cacheNonceSize)
	if err := SecureRandomBytes(nonce); err != nil {
		return err
	}

	plaintext := make([]byte, 0, cachePlaintextSize)
	plaintext = append(plaintext, pqPub.Bytes()...)
	plaintext = append(plaintext, pqSec.Bytes()...)

	entry := aead.Seal(nonce, nonce, plaintext, nil)
	return c.store.Store(entryName(seed), entry)
}

// Load reads and decrypts the ML-DSA keypair for a seed. Returns
// ErrCacheMiss when no entry exists; decryption failure (wrong key,
// corruption, tampering) is ErrCacheDecrypt; a plaintext that does not
// match the fixed keypair layout is ErrCacheDecode.
func (c *SeedCache) Load(seed *[SeedSize]byte) (*mldsa65.PublicKey, *mldsa65.PrivateKey, error) {
	entry, err := c.store.Load(entryName(seed))
	if err != nil {
		return nil, nil, err
	}

	if len(entry) < cacheNonceSize {
		return nil, nil, fmt.Errorf("%w: entry shorter than nonce", ErrCacheDecode)
	}
	nonce, ciphertext := entry[:cacheNonceSize], entry[cacheNonceSize:]

	aead, err := newSeedCipher(seed)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrCacheDecrypt, entryName(seed))
	}

	if len(plaintext) != cachePlaintextSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrCacheDecode, len(plaintext), cachePlaintextSize)
	}

	var pqPub mldsa65.PublicKey
	if err := pqPub.UnmarshalBinary(plaintext[:PQPublicKeySize]); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCacheDecode, err)
	}
	var pqSec mldsa65.PrivateKey
	if err := pqSec.UnmarshalBinary(plaintext[PQPublicKeySize:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCacheDecode, err)
	}

	return &pqPub, &pqSec, nil
}
