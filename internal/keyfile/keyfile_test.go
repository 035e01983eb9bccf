package keyfile

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/authority-fabric/af-pqc/internal/crypto"
)

func TestU_PublicKey_FileRoundTrip(t *testing.T) {
	_, pub, err := crypto.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "pub.json")
	if err := SavePublicKey(path, pub); err != nil {
		t.Fatalf("SavePublicKey() error = %v", err)
	}
	got, err := LoadPublicKey(path)
	if err != nil {
		t.Fatalf("LoadPublicKey() error = %v", err)
	}

	if got.Algorithm != pub.Algorithm {
		t.Errorf("Algorithm = %v, want %v", got.Algorithm, pub.Algorithm)
	}
	if !bytes.Equal(got.Bytes, pub.Bytes) {
		t.Error("public key bytes not preserved byte-for-byte")
	}
	if got.CreatedAt != pub.CreatedAt || got.OperationID != pub.OperationID {
		t.Error("public key metadata not preserved")
	}
}

func TestU_Signature_FileRoundTrip(t *testing.T) {
	priv, _, err := crypto.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	sig, err := priv.Sign([]byte("persisted"))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "sig.json")
	if err := SaveSignature(path, sig); err != nil {
		t.Fatalf("SaveSignature() error = %v", err)
	}
	got, err := LoadSignature(path)
	if err != nil {
		t.Fatalf("LoadSignature() error = %v", err)
	}

	if !bytes.Equal(got.Bytes, sig.Bytes) {
		t.Error("signature bytes not preserved byte-for-byte")
	}
	if got.SignerKeyID != sig.SignerKeyID {
		t.Errorf("SignerKeyID = %q, want %q", got.SignerKeyID, sig.SignerKeyID)
	}
	if got.CreatedAt != sig.CreatedAt || got.OperationID != sig.OperationID {
		t.Error("signature metadata not preserved")
	}
}

func TestU_Unmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"[Unit] Parse: not JSON", "not json"},
		{"[Unit] Parse: unknown algorithm", `{"algorithm":"rsa-2048","bytes":"","created_at":0,"operation_id":0}`},
		{"[Unit] Parse: bad hex", `{"algorithm":"mandatory-hybrid","bytes":"zz","created_at":0,"operation_id":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalPublicKey([]byte(tt.data)); err == nil {
				t.Error("UnmarshalPublicKey() succeeded, want error")
			}
			if _, err := UnmarshalSignature([]byte(tt.data)); err == nil {
				t.Error("UnmarshalSignature() succeeded, want error")
			}
		})
	}
}

func TestI_Verify_AfterFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	priv, pub, err := crypto.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	msg := []byte("round-trip then verify")
	sig, err := priv.Sign(msg)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	pubPath := filepath.Join(dir, "pub.json")
	sigPath := filepath.Join(dir, "sig.json")
	if err := SavePublicKey(pubPath, pub); err != nil {
		t.Fatalf("SavePublicKey() error = %v", err)
	}
	if err := SaveSignature(sigPath, sig); err != nil {
		t.Fatalf("SaveSignature() error = %v", err)
	}

	loadedPub, err := LoadPublicKey(pubPath)
	if err != nil {
		t.Fatalf("LoadPublicKey() error = %v", err)
	}
	loadedSig, err := LoadSignature(sigPath)
	if err != nil {
		t.Fatalf("LoadSignature() error = %v", err)
	}
	if err := loadedPub.Verify(msg, loadedSig); err != nil {
		t.Errorf("Verify() after round-trip = %v", err)
	}
}
