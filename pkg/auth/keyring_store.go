package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "ghbot"
	keyringPrefix  = "github_"
	keyringProbe   = "availability_probe"
)

// KeyringStore keeps one JSON-encoded Account per login in the system keychain
type KeyringStore struct{}

// NewKeyringStore probes the keychain with a throwaway entry and fails when
// it is not usable (headless Linux without a secret service, for example)
func NewKeyringStore() (*KeyringStore, error) {
	if err := keyring.Set(keyringService, keyringProbe, "ok"); err != nil {
		return nil, fmt.Errorf("%w: keyring: %v", ErrStoreUnavailable, err)
	}
	_ = keyring.Delete(keyringService, keyringProbe)

	return &KeyringStore{}, nil
}

func keyringKey(username string) string {
	return keyringPrefix + username
}

// keyringErr maps go-keyring's not-found to ErrCredentialsNotFound
func keyringErr(op string, err error) error {
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrCredentialsNotFound
	}
	return fmt.Errorf("keyring %s failed: %w", op, err)
}

func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := keyring.Set(keyringService, keyringKey(account.Username), string(data)); err != nil {
		return keyringErr("store", err)
	}
	return nil
}

func (k *KeyringStore) Retrieve(username string) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(keyringService, keyringKey(username))
	if err != nil {
		return nil, keyringErr("read", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("corrupt keyring entry for %s: %w", username, err)
	}
	return &account, nil
}

// List always returns nothing: go-keyring cannot enumerate entries. The
// Manager keeps a listable copy in the encrypted file.
func (k *KeyringStore) List() ([]*Account, error) {
	return nil, nil
}

func (k *KeyringStore) Delete(username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}
	if err := keyring.Delete(keyringService, keyringKey(username)); err != nil {
		return keyringErr("delete", err)
	}
	return nil
}

func (k *KeyringStore) Exists(username string) bool {
	_, err := k.Retrieve(username)
	return err == nil
}
