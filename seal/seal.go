// Package seal binds a binary payload to a signature over its digest.
//
// A Seal names the payload by content id and carries the hash algorithm,
// signature algorithm, public key, and signature. Verification recomputes
// the payload id and the digest from the payload bytes; a seal never
// vouches for bytes it was not computed from.
package seal

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"github.com/veldtlabs/pqbin/payloadid"
)

// Supported algorithm identifiers.
const (
	HashSHA256  = "sha256"
	HashSHA512  = "sha512"
	HashSHA3256 = "sha3-256"

	SigEd25519    = "ed25519"
	SigDilithium3 = "dilithium3"
)

// Seal is the JSON-encodable signature record for one payload.
type Seal struct {
	PayloadID string `json:"payloadId"`
	HashAlg   string `json:"hashAlg"`
	SigAlg    string `json:"sigAlg"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// ErrMismatch means the payload bytes do not match the seal's payload id.
var ErrMismatch = errors.New("seal: payload does not match sealed id")

// ErrBadSignature means the signature did not verify against the digest.
var ErrBadSignature = errors.New("seal: signature did not verify")

func digestFor(hashAlg string, payload []byte) ([]byte, error) {
	switch hashAlg {
	case HashSHA256:
		s := sha256.Sum256(payload)
		return s[:], nil
	case HashSHA512:
		s := sha512.Sum512(payload)
		return s[:], nil
	case HashSHA3256:
		s := sha3.Sum256(payload)
		return s[:], nil
	default:
		return nil, fmt.Errorf("seal: unsupported hash algorithm: %q", hashAlg)
	}
}

// SignEd25519 seals payload with an Ed25519 key over hash(payload).
// hashAlg must be one of: sha256, sha512, sha3-256.
func SignEd25519(payload []byte, hashAlg string, privateKey ed25519.PrivateKey) (*Seal, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, errors.New("seal: invalid ed25519 private key")
	}
	digest, err := digestFor(hashAlg, payload)
	if err != nil {
		return nil, err
	}
	id, err := payloadid.New(payload)
	if err != nil {
		return nil, err
	}
	pub := privateKey.Public().(ed25519.PublicKey)
	sig := ed25519.Sign(privateKey, digest)
	return &Seal{
		PayloadID: id.String(),
		HashAlg:   hashAlg,
		SigAlg:    SigEd25519,
		PublicKey: SigEd25519 + ":" + base64.StdEncoding.EncodeToString(pub),
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// SignDilithium3 seals payload with a Dilithium3 key over hash(payload).
func SignDilithium3(payload []byte, hashAlg string, publicKey *mode3.PublicKey, privateKey *mode3.PrivateKey) (*Seal, error) {
	if publicKey == nil || privateKey == nil {
		return nil, errors.New("seal: missing dilithium3 key")
	}
	digest, err := digestFor(hashAlg, payload)
	if err != nil {
		return nil, err
	}
	id, err := payloadid.New(payload)
	if err != nil {
		return nil, err
	}
	pubBytes, err := publicKey.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("seal: encode dilithium3 public key: %w", err)
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest, sig)
	return &Seal{
		PayloadID: id.String(),
		HashAlg:   hashAlg,
		SigAlg:    SigDilithium3,
		PublicKey: SigDilithium3 + ":" + base64.StdEncoding.EncodeToString(pubBytes),
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// Verify checks s against the payload bytes: the payload must hash to
// s.PayloadID and the signature must verify over the named digest.
func Verify(payload []byte, s *Seal) error {
	if s == nil {
		return errors.New("seal: nil seal")
	}
	id, err := payloadid.New(payload)
	if err != nil {
		return err
	}
	if id.String() != s.PayloadID {
		return ErrMismatch
	}

	digest, err := digestFor(s.HashAlg, payload)
	if err != nil {
		return err
	}
	sig, err := base64.StdEncoding.DecodeString(s.Signature)
	if err != nil {
		return fmt.Errorf("seal: invalid signature encoding: %w", err)
	}

	switch s.SigAlg {
	case SigEd25519:
		pub, err := parseKey(s.PublicKey, SigEd25519, ed25519.PublicKeySize)
		if err != nil {
			return err
		}
		if len(sig) != ed25519.SignatureSize {
			return errors.New("seal: invalid ed25519 signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return ErrBadSignature
		}
		return nil
	case SigDilithium3:
		raw, err := parseKey(s.PublicKey, SigDilithium3, mode3.PublicKeySize)
		if err != nil {
			return err
		}
		if len(sig) != mode3.SignatureSize {
			return errors.New("seal: invalid dilithium3 signature length")
		}
		var pub mode3.PublicKey
		if err := pub.UnmarshalBinary(raw); err != nil {
			return fmt.Errorf("seal: invalid dilithium3 public key: %w", err)
		}
		if !mode3.Verify(&pub, digest, sig) {
			return ErrBadSignature
		}
		return nil
	default:
		return fmt.Errorf("seal: unsupported signature algorithm: %q", s.SigAlg)
	}
}

func parseKey(s, alg string, size int) ([]byte, error) {
	prefix := alg + ":"
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("seal: unsupported public key %q", s)
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, prefix))
	if err != nil {
		return nil, fmt.Errorf("seal: invalid public key encoding: %w", err)
	}
	if len(b) != size {
		return nil, fmt.Errorf("seal: invalid %s public key length", alg)
	}
	return b, nil
}

// Encode renders s as JSON with a trailing newline.
func Encode(s *Seal) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode parses a JSON seal, rejecting records with missing fields.
func Decode(b []byte) (*Seal, error) {
	var s Seal
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("seal: invalid seal document: %w", err)
	}
	if s.PayloadID == "" || s.HashAlg == "" || s.SigAlg == "" || s.PublicKey == "" || s.Signature == "" {
		return nil, errors.New("seal: incomplete seal document")
	}
	return &s, nil
}
