package seal

import (
	"crypto/ed25519"
	"encoding/hex"
	"os"
	"testing"
)

func TestKeystore_InitLoadList(t *testing.T) {
	ks := &Keystore{Directory: t.TempDir()}

	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	path, err := ks.Init("signer", seed, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file mode = %o, want 0600", perm)
	}

	priv, err := ks.Load("signer")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := ed25519.NewKeyFromSeed(seed); !priv.Equal(want) {
		t.Fatalf("loaded key differs from seeded key")
	}

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "signer" {
		t.Fatalf("List = %v", names)
	}
}

func TestKeystore_InitGeneratesSeed(t *testing.T) {
	ks := &Keystore{Directory: t.TempDir()}
	if _, err := ks.Init("fresh", nil, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	priv, err := ks.Load("fresh")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(priv) != ed25519.PrivateKeySize {
		t.Fatalf("key size = %d", len(priv))
	}
}

func TestKeystore_NoSilentOverwrite(t *testing.T) {
	ks := &Keystore{Directory: t.TempDir()}
	if _, err := ks.Init("signer", nil, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := ks.Init("signer", nil, false); err == nil {
		t.Fatalf("expected error re-initializing without overwrite")
	}
	if _, err := ks.Init("signer", nil, true); err != nil {
		t.Fatalf("Init with overwrite: %v", err)
	}
}

func TestKeystore_RejectsBadNames(t *testing.T) {
	ks := &Keystore{Directory: t.TempDir()}
	for _, name := range []string{"", "../escape", "a/b", "dot.name"} {
		if _, err := ks.Init(name, nil, false); err == nil {
			t.Fatalf("Init(%q) succeeded, want error", name)
		}
	}
}

func TestParseSeedHex(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	got, err := ParseSeedHex(" 0x" + hex.EncodeToString(seed) + "\n")
	if err != nil {
		t.Fatalf("ParseSeedHex: %v", err)
	}
	if len(got) != ed25519.SeedSize {
		t.Fatalf("seed length = %d", len(got))
	}

	if _, err := ParseSeedHex("abcd"); err == nil {
		t.Fatalf("expected error for short seed")
	}
	if _, err := ParseSeedHex("zz"); err == nil {
		t.Fatalf("expected error for non-hex seed")
	}
}
