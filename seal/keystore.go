package seal

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Keystore is a local directory of named Ed25519 signing seeds.
//
// Seeds are stored one per file as lowercase hex, mode 0600. The store
// holds sealing keys for the CLI only; it is not a general key manager.
type Keystore struct {
	Directory string
}

// OpenKeystore returns a keystore rooted at directory, or under the
// user's home directory when directory is empty.
func OpenKeystore(directory string) (*Keystore, error) {
	if directory == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		directory = filepath.Join(home, ".pqbin", "keys")
	}
	return &Keystore{Directory: directory}, nil
}

func checkKeyName(name string) error {
	if name == "" {
		return errors.New("seal: key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("seal: invalid character %q in key name", char)
	}
	return nil
}

func (ks *Keystore) pathFor(name string) string {
	return filepath.Join(ks.Directory, name+".key")
}

// ParseSeedHex parses a hex-encoded Ed25519 seed, accepting an optional
// 0x prefix and surrounding whitespace.
func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != ed25519.SeedSize {
		return nil, fmt.Errorf("seal: expected seed length of %d bytes, got %d", ed25519.SeedSize, len(data))
	}
	return data, nil
}

// Init stores seed under name. A nil seed generates a fresh random one.
// Existing keys are not overwritten unless overwrite is set.
func (ks *Keystore) Init(name string, seed []byte, overwrite bool) (string, error) {
	if err := checkKeyName(name); err != nil {
		return "", err
	}
	if seed == nil {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return "", err
		}
	}
	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("seal: expected seed length of %d bytes", ed25519.SeedSize)
	}

	path := ks.pathFor(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Load returns the private key stored under name.
func (ks *Keystore) Load(name string) (ed25519.PrivateKey, error) {
	if err := checkKeyName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ks.pathFor(name))
	if err != nil {
		return nil, err
	}
	seed, err := ParseSeedHex(string(data))
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// List returns the sorted names of all stored keys.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".key") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".key"))
		}
	}
	sort.Strings(names)
	return names, nil
}
