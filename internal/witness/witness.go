// Package witness implements the external attestation collaborator.
//
// A witness service attests policy commitments and provides a monotonic
// time source. The engine consumes it only through the narrow
// crypto.Witness interface; this package supplies the attestation token
// format and two implementations: a token-directory witness fed with
// pre-issued CBOR tokens, and a static in-process witness for tests.
package witness

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/authority-fabric/af-pqc/internal/crypto"
)

// Entry types a witness records.
const (
	EntryPolicyCreate = "policy-create"
)

// Sentinel errors for token handling.
var (
	// ErrTokenNotFound is returned when no token exists for a policy hash.
	ErrTokenNotFound = errors.New("attestation token not found")

	// ErrTokenMalformed is returned when a token fails CBOR decoding or
	// field validation.
	ErrTokenMalformed = errors.New("attestation token malformed")

	// ErrTokenMismatch is returned when a token's policy hash does not
	// match the hash the caller asked to attest.
	ErrTokenMismatch = errors.New("attestation token policy hash mismatch")
)

// Token is the CBOR attestation token issued by the witness service.
// Integer keys keep the wire form compact and stable.
type Token struct {
	PolicyHash     []byte `cbor:"1,keyasint"`
	CommitmentHash []byte `cbor:"2,keyasint"`
	Timestamp      uint64 `cbor:"3,keyasint"`
	EntryType      string `cbor:"4,keyasint"`
}

// DecodeToken parses and validates a CBOR attestation token.
func DecodeToken(data []byte) (*Token, error) {
	var tok Token
	if err := cbor.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if len(tok.PolicyHash) != 32 || len(tok.CommitmentHash) != 32 {
		return nil, fmt.Errorf("%w: hash fields must be 32 bytes", ErrTokenMalformed)
	}
	if tok.EntryType == "" {
		return nil, fmt.Errorf("%w: missing entry type", ErrTokenMalformed)
	}
	return &tok, nil
}

// EncodeToken serializes a token to its CBOR wire form.
func EncodeToken(tok *Token) ([]byte, error) {
	return cbor.Marshal(tok)
}

// TokenWitness serves attestations from pre-issued token files in a
// directory, named <hex(policy_hash)>.cwt. Its clock is the local wall
// clock; the token timestamp records when the witness issued the proof.
type TokenWitness struct {
	dir string
}

var _ crypto.Witness = (*TokenWitness)(nil)

// NewTokenWitness creates a witness reading tokens from dir.
func NewTokenWitness(dir string) *TokenWitness {
	return &TokenWitness{dir: dir}
}

// Attest looks up and validates the token for policyHash.
func (w *TokenWitness) Attest(policyHash [32]byte) (*crypto.Attestation, error) {
	name := hex.EncodeToString(policyHash[:]) + ".cwt"
	data, err := os.ReadFile(filepath.Join(w.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, name)
		}
		return nil, fmt.Errorf("read attestation token: %w", err)
	}

	tok, err := DecodeToken(data)
	if err != nil {
		return nil, err
	}
	if [32]byte(tok.PolicyHash) != policyHash {
		return nil, fmt.Errorf("%w: %s", ErrTokenMismatch, name)
	}

	att := &crypto.Attestation{Timestamp: tok.Timestamp}
	copy(att.CommitmentHash[:], tok.CommitmentHash)
	return att, nil
}

// Now returns the current time as Unix seconds.
func (w *TokenWitness) Now() uint64 {
	return uint64(time.Now().Unix())
}

// StaticWitness attests every policy hash with a fixed commitment and
// clock. Intended for tests and local development.
type StaticWitness struct {
	Commitment [32]byte
	Time       uint64
}

var _ crypto.Witness = (*StaticWitness)(nil)

// Attest returns the fixed commitment for any policy hash.
func (w *StaticWitness) Attest(policyHash [32]byte) (*crypto.Attestation, error) {
	return &crypto.Attestation{CommitmentHash: w.Commitment, Timestamp: w.Time}, nil
}

// Now returns the fixed time.
func (w *StaticWitness) Now() uint64 { return w.Time }
