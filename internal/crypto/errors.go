package crypto

import "errors"

// Error kinds returned by the hybrid signature engine.
//
// Every failure maps to exactly one of these sentinels; callers match with
// errors.Is and must never inspect message text. Context (lengths, counters,
// file names) is attached by wrapping with fmt.Errorf("%w: ...").
var (
	// ErrAlgorithmForbidden is returned when an operation is attempted with
	// a legacy single-algorithm version. This is a permanent policy, not a
	// feature flag: no configuration path re-enables the legacy schemes.
	ErrAlgorithmForbidden = errors.New("algorithm version forbidden: use mandatory-hybrid")

	// ErrEmptyMessage is returned when signing a zero-length message.
	ErrEmptyMessage = errors.New("cannot sign empty message")

	// ErrMessageTooLarge is returned when a message exceeds MaxMessageSize.
	ErrMessageTooLarge = errors.New("message too large for signing")

	// ErrUsageLimitExceeded is returned once a key's usage counter reaches
	// MaxKeyUses. The rejected attempt is still counted.
	ErrUsageLimitExceeded = errors.New("key usage limit exceeded")

	// ErrInvalidKeyLength is returned when a public key buffer is shorter
	// than the fixed hybrid layout, or a segment fails to decode.
	ErrInvalidKeyLength = errors.New("invalid hybrid public key length")

	// ErrInvalidSignatureLength is returned when a signature buffer is
	// shorter than the fixed hybrid layout.
	ErrInvalidSignatureLength = errors.New("invalid hybrid signature length")

	// ErrInvalidClassicalKey is returned when the classical public key
	// segment following the ML-DSA segment is shorter than 32 bytes.
	// Distinct from ErrInvalidKeyLength, which covers the ML-DSA segment,
	// so callers know which half of the layout was malformed.
	ErrInvalidClassicalKey = errors.New("invalid Ed25519 public key segment")

	// ErrPQVerificationFailed is returned when the ML-DSA component of a
	// hybrid signature does not verify. Reported distinctly from the
	// classical component so audit consumers know which half failed.
	ErrPQVerificationFailed = errors.New("ML-DSA signature verification failed")

	// ErrClassicalVerificationFailed is returned when the Ed25519 component
	// of a hybrid signature does not verify.
	ErrClassicalVerificationFailed = errors.New("Ed25519 signature verification failed")

	// ErrCacheMiss is returned by a SecretStore when no entry exists for
	// the derived name. The seed-derived generation path treats this as
	// "generate and populate"; every other cache failure is surfaced.
	ErrCacheMiss = errors.New("encrypted keypair not found in cache")

	// ErrCacheRead is returned when reading a cache entry fails for any
	// reason other than absence.
	ErrCacheRead = errors.New("secret cache read failed")

	// ErrCacheWrite is returned when persisting a cache entry fails.
	ErrCacheWrite = errors.New("secret cache write failed")

	// ErrCacheDecrypt is returned when a cache entry fails authenticated
	// decryption (wrong key, corruption, or tampering). The entry is never
	// partially trusted.
	ErrCacheDecrypt = errors.New("secret cache decryption failed")

	// ErrCacheDecode is returned when a decrypted cache entry does not
	// match the fixed keypair layout.
	ErrCacheDecode = errors.New("secret cache entry malformed")

	// ErrUnsafeCachePath is returned when a derived cache entry name does
	// not resolve to a single path segment.
	ErrUnsafeCachePath = errors.New("unsafe cache entry path")

	// ErrWitnessUnavailable is returned by GenerateWitnessBound when no
	// witness is configured and unattested generation was not explicitly
	// requested. Policy binding fails closed.
	ErrWitnessUnavailable = errors.New("witness collaborator unavailable")

	// ErrAttestationRejected is returned when the witness refuses to attest
	// a policy hash.
	ErrAttestationRejected = errors.New("witness attestation rejected")

	// ErrEntropyFailure is returned when the operating-system entropy
	// source fails. Fatal: the engine never substitutes a weaker source.
	ErrEntropyFailure = errors.New("entropy source failure")
)
