package telebirr

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid RSA private key")
	ErrInvalidSignature  = errors.New("signature verification failed")
)

var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthEqualsHash,
	Hash:       crypto.SHA256,
}

// Signer produces SHA256withRSA/PSS signatures with the merchant private key.
type Signer struct {
	key *rsa.PrivateKey
}

// NewSigner parses the merchant key once. The key may be a PEM block (PKCS#8 or
// PKCS#1) or the bare base64 body as distributed by the merchant portal.
func NewSigner(keyMaterial string) (*Signer, error) {
	key, err := ParsePrivateKey(keyMaterial)
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

func ParsePrivateKey(keyMaterial string) (*rsa.PrivateKey, error) {
	material := strings.TrimSpace(strings.ReplaceAll(keyMaterial, `\n`, "\n"))
	if material == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPrivateKey)
	}

	var der []byte
	if block, _ := pem.Decode([]byte(material)); block != nil {
		der = block.Bytes
	} else {
		raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(material), ""))
		if err != nil {
			return nil, fmt.Errorf("%w: not PEM or base64", ErrInvalidPrivateKey)
		}
		der = raw
	}

	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidPrivateKey)
		}
		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported encoding", ErrInvalidPrivateKey)
	}
	return key, nil
}

// Sign returns the base64 signature over text.
func (s *Signer) Sign(text string) (string, error) {
	digest := sha256.Sum256([]byte(text))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], pssOptions)
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// SignRequest canonicalizes obj and stores sign and sign_type on it. The object
// must not be modified afterwards.
func (s *Signer) SignRequest(obj RequestObject) error {
	sig, err := s.Sign(Canonicalize(obj))
	if err != nil {
		return err
	}
	obj[FieldSign] = sig
	obj[FieldSignType] = SignTypeRSA
	return nil
}

func (s *Signer) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

// VerifySignature checks a base64 signature produced by Sign.
func VerifySignature(pub *rsa.PublicKey, text, signature string) error {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := sha256.Sum256([]byte(text))
	if err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], sig, pssOptions); err != nil {
		return ErrInvalidSignature
	}
	return nil
}
