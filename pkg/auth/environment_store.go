package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads a token from GHBOT_TOKEN or GITHUB_TOKEN. It is
// read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve builds an account from the environment. An empty username falls
// back to GITHUB_USERNAME, then "default".
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	token := envToken()
	if token == "" {
		return nil, ErrCredentialsNotFound
	}

	envUser := os.Getenv("GITHUB_USERNAME")
	switch {
	case username == "" && envUser != "":
		username = envUser
	case username == "":
		username = "default"
	case envUser != "" && envUser != username:
		return nil, ErrCredentialsNotFound
	}

	return &Account{
		Username:     username,
		Token:        token,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if a token is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment token is set
func (e *EnvironmentStore) Exists(username string) bool {
	return envToken() != ""
}

func envToken() string {
	if token := os.Getenv("GHBOT_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}
