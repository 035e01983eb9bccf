package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// =============================================================================
// [Unit] Encrypted Secret Cache Tests
// =============================================================================

func testSeed(t *testing.T, fill byte) *[SeedSize]byte {
	t.Helper()
	var seed [SeedSize]byte
	for i := range seed {
		seed[i] = fill
	}
	return &seed
}

func TestU_SeedCache_RoundTrip(t *testing.T) {
	cache := NewSeedCache(NewMemoryStore())
	seed := testSeed(t, 0x42)

	pub, sec, err := mldsa65.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("mldsa65.GenerateKey() error = %v", err)
	}
	if err := cache.Save(seed, pub, sec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	gotPub, gotSec, err := cache.Load(seed)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(gotPub.Bytes(), pub.Bytes()) {
		t.Error("loaded public key differs from stored")
	}
	if !bytes.Equal(gotSec.Bytes(), sec.Bytes()) {
		t.Error("loaded secret key differs from stored")
	}
}

func TestU_SeedCache_WrongSeedFailsDecryption(t *testing.T) {
	store := NewMemoryStore()
	cache := NewSeedCache(store)
	seed := testSeed(t, 0x01)
	other := testSeed(t, 0x02)

	pub, sec, err := mldsa65.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("mldsa65.GenerateKey() error = %v", err)
	}
	if err := cache.Save(seed, pub, sec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A different seed derives a different entry name, so force the
	// stored bytes under the other seed's name to exercise the cipher.
	entry, err := store.Load(EntryName(seed))
	if err != nil {
		t.Fatalf("store.Load() error = %v", err)
	}
	if err := store.Store(EntryName(other), entry); err != nil {
		t.Fatalf("store.Store() error = %v", err)
	}

	_, _, err = cache.Load(other)
	if !errors.Is(err, ErrCacheDecrypt) {
		t.Errorf("Load(wrong seed) = %v, want ErrCacheDecrypt", err)
	}
}

func TestU_SeedCache_TamperedEntry(t *testing.T) {
	store := NewMemoryStore()
	cache := NewSeedCache(store)
	seed := testSeed(t, 0x07)

	pub, sec, err := mldsa65.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("mldsa65.GenerateKey() error = %v", err)
	}
	if err := cache.Save(seed, pub, sec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entry, err := store.Load(EntryName(seed))
	if err != nil {
		t.Fatalf("store.Load() error = %v", err)
	}
	entry[len(entry)-1] ^= 0x01
	if err := store.Store(EntryName(seed), entry); err != nil {
		t.Fatalf("store.Store() error = %v", err)
	}

	_, _, err = cache.Load(seed)
	if !errors.Is(err, ErrCacheDecrypt) {
		t.Errorf("Load(tampered) = %v, want ErrCacheDecrypt", err)
	}
}

func TestU_SeedCache_TruncatedEntry(t *testing.T) {
	store := NewMemoryStore()
	cache := NewSeedCache(store)
	seed := testSeed(t, 0x09)

	if err := store.Store(EntryName(seed), []byte{0x01, 0x02}); err != nil {
		t.Fatalf("store.Store() error = %v", err)
	}

	_, _, err := cache.Load(seed)
	if !errors.Is(err, ErrCacheDecode) {
		t.Errorf("Load(truncated) = %v, want ErrCacheDecode", err)
	}
}

func TestU_SeedCache_Miss(t *testing.T) {
	cache := NewSeedCache(NewMemoryStore())
	_, _, err := cache.Load(testSeed(t, 0xFF))
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load(empty store) = %v, want ErrCacheMiss", err)
	}
}

func TestU_EntryName_Derivation(t *testing.T) {
	a := EntryName(testSeed(t, 0x01))
	b := EntryName(testSeed(t, 0x02))

	if !strings.HasPrefix(a, ".af_dilithium_") {
		t.Errorf("entry name %q missing fixed prefix", a)
	}
	if len(a) != len(".af_dilithium_")+32 {
		t.Errorf("entry name %q has unexpected length", a)
	}
	if a == b {
		t.Error("different seeds derived the same entry name")
	}
	if err := validateEntryName(a); err != nil {
		t.Errorf("derived name failed path safety: %v", err)
	}

	// Name derivation and key derivation use distinct labels: the name
	// must not reveal the encryption key derivation.
	key := deriveEncryptionKey(testSeed(t, 0x01))
	if strings.Contains(a, string(key[:])) {
		t.Error("entry name derived from encryption key material")
	}
}

func TestU_ValidateEntryName_PathSafety(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		safe  bool
	}{
		{"[Unit] Path: derived name", ".af_dilithium_00112233445566778899aabbccddeeff", true},
		{"[Unit] Path: empty", "", false},
		{"[Unit] Path: dot", ".", false},
		{"[Unit] Path: dotdot", "..", false},
		{"[Unit] Path: absolute", "/etc/passwd", false},
		{"[Unit] Path: traversal", "../escape", false},
		{"[Unit] Path: nested", "a/b", false},
		{"[Unit] Path: backslash", `a\b`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEntryName(tt.entry)
			if tt.safe && err != nil {
				t.Errorf("validateEntryName(%q) = %v, want nil", tt.entry, err)
			}
			if !tt.safe && !errors.Is(err, ErrUnsafeCachePath) {
				t.Errorf("validateEntryName(%q) = %v, want ErrUnsafeCachePath", tt.entry, err)
			}
		})
	}
}

func TestU_FileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if _, err := store.Load(".af_dilithium_aa"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load(absent) = %v, want ErrCacheMiss", err)
	}

	data := []byte("nonce-and-ciphertext")
	if err := store.Store(".af_dilithium_aa", data); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	got, err := store.Load(".af_dilithium_aa")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("loaded bytes differ from stored")
	}

	if err := store.Remove(".af_dilithium_aa"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := store.Load(".af_dilithium_aa"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load(removed) = %v, want ErrCacheMiss", err)
	}
	if err := store.Remove(".af_dilithium_aa"); err != nil {
		t.Errorf("Remove(absent) = %v, want nil", err)
	}
}

func TestU_FileStore_RejectsUnsafeNames(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Store("../escape", []byte("x")); !errors.Is(err, ErrUnsafeCachePath) {
		t.Errorf("Store(traversal) = %v, want ErrUnsafeCachePath", err)
	}
	if _, err := store.Load("/etc/passwd"); !errors.Is(err, ErrUnsafeCachePath) {
		t.Errorf("Load(absolute) = %v, want ErrUnsafeCachePath", err)
	}
}
