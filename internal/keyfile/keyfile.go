// Package keyfile persists public keys and signatures as JSON files.
//
// The persisted form is human-readable: byte fields are hex-encoded and
// every metadata field round-trips byte-for-byte. Private keys are never
// serialized by this package.
package keyfile

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/authority-fabric/af-pqc/internal/crypto"
)

// publicKeyFile is the persisted form of a crypto.PublicKey.
type publicKeyFile struct {
	Algorithm   string `json:"algorithm"`
	Bytes       string `json:"bytes"`
	CreatedAt   uint64 `json:"created_at"`
	OperationID uint64 `json:"operation_id"`
}

// signatureFile is the persisted form of a crypto.Signature.
type signatureFile struct {
	Algorithm   string `json:"algorithm"`
	Bytes       string `json:"bytes"`
	CreatedAt   uint64 `json:"created_at"`
	OperationID uint64 `json:"operation_id"`
	SignerKeyID string `json:"signer_key_id"`
}

// MarshalPublicKey encodes a public key to its JSON persisted form.
func MarshalPublicKey(pk *crypto.PublicKey) ([]byte, error) {
	return json.MarshalIndent(publicKeyFile{
		Algorithm:   pk.Algorithm.String(),
		Bytes:       hex.EncodeToString(pk.Bytes),
		CreatedAt:   pk.CreatedAt,
		OperationID: pk.OperationID,
	}, "", "  ")
}

// UnmarshalPublicKey decodes a public key from its JSON persisted form.
// The algorithm tag must be recognized; legacy tags decode successfully so
// stored material can be inspected, but every operation rejects them.
func UnmarshalPublicKey(data []byte) (*crypto.PublicKey, error) {
	var f publicKeyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse public key JSON: %w", err)
	}
	alg, err := crypto.ParseAlgorithm(f.Algorithm)
	if err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(f.Bytes)
	if err != nil {
		return nil, fmt.Errorf("decode public key bytes: %w", err)
	}
	return &crypto.PublicKey{
		Algorithm:   alg,
		Bytes:       raw,
		CreatedAt:   f.CreatedAt,
		OperationID: f.OperationID,
	}, nil
}

// MarshalSignature encodes a signature to its JSON persisted form.
func MarshalSignature(sig *crypto.Signature) ([]byte, error) {
	return json.MarshalIndent(signatureFile{
		Algorithm:   sig.Algorithm.String(),
		Bytes:       hex.EncodeToString(sig.Bytes),
		CreatedAt:   sig.CreatedAt,
		OperationID: sig.OperationID,
		SignerKeyID: sig.SignerKeyID,
	}, "", "  ")
}

// UnmarshalSignature decodes a signature from its JSON persisted form.
func UnmarshalSignature(data []byte) (*crypto.Signature, error) {
	var f signatureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse signature JSON: %w", err)
	}
	alg, err := crypto.ParseAlgorithm(f.Algorithm)
	if err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(f.Bytes)
	if err != nil {
		return nil, fmt.Errorf("decode signature bytes: %w", err)
	}
	return &crypto.Signature{
		Algorithm:   alg,
		Bytes:       raw,
		CreatedAt:   f.CreatedAt,
		OperationID: f.OperationID,
		SignerKeyID: f.SignerKeyID,
	}, nil
}

// SavePublicKey writes a public key JSON file.
func SavePublicKey(path string, pk *crypto.PublicKey) error {
	data, err := MarshalPublicKey(pk)
	if err != nil {
		return fmt.Errorf("serialize public key: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write public key file: %w", err)
	}
	return nil
}

// LoadPublicKey reads a public key JSON file.
func LoadPublicKey(path string) (*crypto.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key file: %w", err)
	}
	return UnmarshalPublicKey(data)
}

// SaveSignature writes a signature JSON file.
func SaveSignature(path string, sig *crypto.Signature) error {
	data, err := MarshalSignature(sig)
	if err != nil {
		return fmt.Errorf("serialize signature: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write signature file: %w", err)
	}
	return nil
}

// LoadSignature reads a signature JSON file.
func LoadSignature(path string) (*crypto.Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signature file: %w", err)
	}
	return UnmarshalSignature(data)
}
