package config

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "test", []byte(passphrase))
	}
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlainTextRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	store.Set("anthropic", "sk-ant")
	store.Set("openai", "sk-oai")
	store.Delete("openai")
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dataDir, "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials.toml perms = %v, want 0600", info.Mode().Perm())
	}

	loaded := NewCredentialStore(SecurityPlainText, "")
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Get("anthropic"); got != "sk-ant" {
		t.Errorf("Get(anthropic) = %q", got)
	}
	if got := loaded.Get("openai"); got != "" {
		t.Errorf("Get(openai) = %q, want deleted", got)
	}
}

func TestLoadMissingFilesIsEmpty(t *testing.T) {
	dataDir := t.TempDir()
	for _, method := range []SecurityMethod{SecurityPlainText, SecuritySSHKey} {
		store := NewCredentialStore(method, "/nonexistent")
		if err := store.Load(dataDir); err != nil {
			t.Errorf("%s: Load() error = %v", method, err)
		}
		if got := store.Get("openrouter"); got != "" {
			t.Errorf("%s: Get() = %q, want empty", method, got)
		}
	}
}

func TestSSHEncryptedRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	keyPath := writeTestKey(t, "")

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	store.Set("openrouter", "sk-or-secret")
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "credentials.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("sk-or-secret")) {
		t.Error("credentials.enc contains the plaintext key")
	}

	loaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := loaded.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Get("openrouter"); got != "sk-or-secret" {
		t.Errorf("Get() = %q, want sk-or-secret", got)
	}
}

func TestSSHSealerPassphrase(t *testing.T) {
	keyPath := writeTestKey(t, "hunter2")

	if _, err := NewSSHSealer(keyPath, ""); !errors.Is(err, ErrPassphraseRequired) {
		t.Errorf("NewSSHSealer() without passphrase error = %v, want ErrPassphraseRequired", err)
	}
	if _, err := NewSSHSealer(keyPath, "wrong"); err == nil {
		t.Error("NewSSHSealer() with wrong passphrase succeeded")
	}

	s, err := NewSSHSealer(keyPath, "hunter2")
	if err != nil {
		t.Fatalf("NewSSHSealer() error = %v", err)
	}
	sealed, err := s.Seal([]byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if string(opened) != "hello" {
		t.Errorf("Open() = %q", opened)
	}
	if _, err := s.Open(sealed[:4]); err == nil {
		t.Error("Open() of truncated ciphertext succeeded")
	}
}
