package crypto

import (
	"errors"
	"testing"
)

// =============================================================================
// [Unit] Algorithm Policy Tests
// =============================================================================

func TestU_Algorithm_Properties(t *testing.T) {
	tests := []struct {
		name        string
		alg         AlgorithmVersion
		wantValid   bool
		wantLegacy  bool
		wantAllowed bool
	}{
		{"[Unit] Properties: mandatory hybrid", AlgMandatoryHybrid, true, false, true},
		{"[Unit] Properties: legacy Dilithium3", AlgDilithium3V1, true, true, false},
		{"[Unit] Properties: legacy Ed25519", AlgEd25519V1, true, true, false},
		{"[Unit] Properties: unknown version", "hybrid-v2", false, false, false},
		{"[Unit] Properties: empty version", "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.alg.IsValid(); got != tt.wantValid {
				t.Errorf("IsValid() = %v, want %v", got, tt.wantValid)
			}
			if got := tt.alg.IsLegacy(); got != tt.wantLegacy {
				t.Errorf("IsLegacy() = %v, want %v", got, tt.wantLegacy)
			}
			err := tt.alg.Allowed()
			if tt.wantAllowed && err != nil {
				t.Errorf("Allowed() = %v, want nil", err)
			}
			if !tt.wantAllowed && !errors.Is(err, ErrAlgorithmForbidden) {
				t.Errorf("Allowed() = %v, want ErrAlgorithmForbidden", err)
			}
		})
	}
}

func TestU_Algorithm_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AlgorithmVersion
		wantErr bool
	}{
		{"[Unit] Parse: mandatory hybrid", "mandatory-hybrid", AlgMandatoryHybrid, false},
		{"[Unit] Parse: legacy tag parses", "dilithium3-v1", AlgDilithium3V1, false},
		{"[Unit] Parse: unknown rejected", "rsa-2048", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestU_Algorithm_Description(t *testing.T) {
	if AlgMandatoryHybrid.Description() == "Unknown algorithm version" {
		t.Error("mandatory hybrid should have a description")
	}
	if AlgorithmVersion("bogus").Description() != "Unknown algorithm version" {
		t.Error("unknown version should report unknown description")
	}
}
