// Package crypto implements the Authority Fabric hybrid signature engine.
// Every signature is the conjunction of an ML-DSA-65 (post-quantum) and an
// Ed25519 (classical) signature over the same message; the legacy pure
// single-algorithm schemes are kept in the type system but permanently
// rejected by every operation.
package crypto

import "fmt"

// AlgorithmVersion identifies a signature scheme version.
type AlgorithmVersion string

const (
	// AlgDilithium3V1 is the legacy pure lattice scheme. Permanently
	// forbidden: generation, signing and verification all reject it.
	AlgDilithium3V1 AlgorithmVersion = "dilithium3-v1"

	// AlgEd25519V1 is the legacy pure elliptic-curve scheme. Permanently
	// forbidden.
	AlgEd25519V1 AlgorithmVersion = "ed25519-v1"

	// AlgMandatoryHybrid is the only live scheme: ML-DSA-65 + Ed25519,
	// both signatures required.
	AlgMandatoryHybrid AlgorithmVersion = "mandatory-hybrid"
)

// algorithmDescriptions maps each recognized version to its description.
var algorithmDescriptions = map[AlgorithmVersion]string{
	AlgDilithium3V1:    "Pure Dilithium3 (forbidden legacy scheme)",
	AlgEd25519V1:       "Pure Ed25519 (forbidden legacy scheme)",
	AlgMandatoryHybrid: "Mandatory hybrid ML-DSA-65 + Ed25519",
}

// IsValid returns true if the version is recognized, including the
// forbidden legacy versions.
func (a AlgorithmVersion) IsValid() bool {
	_, ok := algorithmDescriptions[a]
	return ok
}

// IsLegacy returns true for the permanently disabled single-algorithm
// versions.
func (a AlgorithmVersion) IsLegacy() bool {
	return a == AlgDilithium3V1 || a == AlgEd25519V1
}

// Allowed reports whether operations may proceed under this version.
// The two legacy versions always fail with ErrAlgorithmForbidden; an
// unrecognized version fails the same way so nothing can degrade to a
// single-algorithm scheme.
func (a AlgorithmVersion) Allowed() error {
	if a == AlgMandatoryHybrid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrAlgorithmForbidden, a)
}

// Description returns a human-readable description of the version.
func (a AlgorithmVersion) Description() string {
	if d, ok := algorithmDescriptions[a]; ok {
		return d
	}
	return "Unknown algorithm version"
}

// String returns the version identifier as a string.
func (a AlgorithmVersion) String() string {
	return string(a)
}

// ParseAlgorithm parses a string into an AlgorithmVersion.
// Legacy versions parse successfully so persisted keys and signatures can
// be inspected; every operation still rejects them via Allowed.
func ParseAlgorithm(s string) (AlgorithmVersion, error) {
	alg := AlgorithmVersion(s)
	if !alg.IsValid() {
		return "", fmt.Errorf("unknown algorithm version: %s", s)
	}
	return alg, nil
}
