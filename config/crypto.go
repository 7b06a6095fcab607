package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh"
)

var ErrPassphraseRequired = errors.New("SSH key is encrypted - passphrase required")

// Sealer encrypts small blobs with AES-256-GCM.
// Format: [nonce (12 bytes)][ciphertext + tag]
type Sealer struct {
	key []byte
}

// NewSSHSealer loads the private key at keyPath and derives the AES key from
// its signature over a fixed message. Ed25519 and RSA signatures are
// deterministic, so the same key always yields the same AES key.
func NewSSHSealer(keyPath, passphrase string) (*Sealer, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if !errors.As(err, &missing) {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key (wrong passphrase?): %w", err)
		}
	}

	if DebugLog != nil {
		DebugLog.Printf("[Credentials] Loaded SSH key %s (%s)", keyPath, signer.PublicKey().Type())
	}

	key, err := DeriveAESKeyFromSSH(signer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return &Sealer{key: key}, nil
}

func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func (s *Sealer) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// DeriveAESKeyFromSSH derives a 32-byte AES-256 key from an SSH key signature
func DeriveAESKeyFromSSH(signer ssh.Signer) ([]byte, error) {
	message := []byte("jarvis-encryption-key-derivation-v1")

	signature, err := signer.Sign(rand.Reader, message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}
