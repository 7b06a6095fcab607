package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// CredentialStore holds provider API keys, either in credentials.toml or
// AES-GCM encrypted in credentials.enc with a key derived from an SSH key.
type CredentialStore struct {
	method      SecurityMethod
	credentials map[string]string // provider → API key
	sshKeyPath  string
	passphrase  string
	sealer      *Sealer
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
		sshKeyPath:  sshKeyPath,
	}
}

// SetPassphrase sets the passphrase for an encrypted SSH key
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
	c.sealer = nil
}

func (c *CredentialStore) Load(dataDir string) error {
	var (
		creds map[string]string
		err   error
	)
	switch c.method {
	case SecurityPlainText:
		creds, err = loadPlainText(dataDir)
	case SecuritySSHKey:
		creds, err = c.loadSSHEncrypted(dataDir)
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
	if err != nil {
		return err
	}
	if creds == nil {
		creds = make(map[string]string)
	}
	c.credentials = creds
	return nil
}

func (c *CredentialStore) Save(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(dataDir, c.credentials)
	case SecuritySSHKey:
		return c.saveSSHEncrypted(dataDir)
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

func (c *CredentialStore) Get(provider string) string {
	return c.credentials[provider]
}

func (c *CredentialStore) Set(provider, apiKey string) {
	c.credentials[provider] = apiKey
}

func (c *CredentialStore) Delete(provider string) {
	delete(c.credentials, provider)
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

func loadPlainText(dataDir string) (map[string]string, error) {
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return cf.Credentials, nil
}

func savePlainText(dataDir string, creds map[string]string) error {
	f, err := os.OpenFile(credentialsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialsFile{Credentials: creds}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	return nil
}

func (c *CredentialStore) ensureSealer() error {
	if c.sealer != nil {
		return nil
	}
	sealer, err := NewSSHSealer(c.sshKeyPath, c.passphrase)
	if err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}
	c.sealer = sealer
	return nil
}

func (c *CredentialStore) loadSSHEncrypted(dataDir string) (map[string]string, error) {
	path := encryptedCredentialsPath(dataDir)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	if err := c.ensureSealer(); err != nil {
		return nil, err
	}

	encryptedData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted credentials: %w", err)
	}

	decryptedData, err := c.sealer.Open(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var creds map[string]string
	if err := json.Unmarshal(decryptedData, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}

	return creds, nil
}

func (c *CredentialStore) saveSSHEncrypted(dataDir string) error {
	if err := c.ensureSealer(); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(c.credentials, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	encryptedData, err := c.sealer.Seal(jsonData)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	if err := os.WriteFile(encryptedCredentialsPath(dataDir), encryptedData, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}

	return nil
}
