//go:build windows

package credentials

import (
	"strings"

	"github.com/danieljoos/wincred"
)

// CredentialBackend provides Windows Credential Manager storage.
type CredentialBackend struct {
	prefix string
}

// NewCredentialBackend creates a Windows Credential Manager backend.
func NewCredentialBackend() (Backend, error) {
	return &CredentialBackend{prefix: "gradval:"}, nil
}

func (c *CredentialBackend) Set(key, value string) error {
	cred := wincred.NewGenericCredential(c.prefix + key)
	cred.CredentialBlob = []byte(value)
	cred.Persist = wincred.PersistLocalMachine
	// host/kind are stored in Comment purely for Credential Manager's
	// UI — TargetName itself already carries the Store's "host\x1fkind"
	// key, but the control-character separator renders unreadably there.
	if host, kind, ok := strings.Cut(key, defaultKeySeparator); ok {
		cred.Comment = "gradval registry credential (" + kind + ") for " + host
	}
	return cred.Write()
}

func (c *CredentialBackend) Get(key string) (string, error) {
	cred, err := wincred.GetGenericCredential(c.prefix + key)
	if err != nil {
		if err == wincred.ErrElementNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(cred.CredentialBlob), nil
}

func (c *CredentialBackend) Delete(key string) error {
	cred, err := wincred.GetGenericCredential(c.prefix + key)
	if err != nil {
		if err == wincred.ErrElementNotFound {
			return nil
		}
		return err
	}
	return cred.Delete()
}

func (c *CredentialBackend) Exists(key string) (bool, error) {
	_, err := wincred.GetGenericCredential(c.prefix + key)
	if err != nil {
		if err == wincred.ErrElementNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *CredentialBackend) List() ([]string, error) {
	creds, err := wincred.List()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0)
	for _, cred := range creds {
		if strings.HasPrefix(cred.TargetName, c.prefix) {
			keys = append(keys, strings.TrimPrefix(cred.TargetName, c.prefix))
		}
	}
	return keys, nil
}
