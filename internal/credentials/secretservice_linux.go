//go:build linux

package credentials

import (
	"strings"

	"github.com/zalando/go-keyring"
)

// SecretServiceBackend provides Linux Secret Service storage (GNOME
// Keyring, KWallet). Unlike the teacher's single flat "drun" service
// covering every secret, each registry host gets its own
// "gradval:<host>" service — the Secret Service's service/user pair maps
// naturally onto a registry host/credential-kind pair, and keeping hosts
// in separate services means revoking access to one registry (e.g. via a
// Secret Service ACL prompt) can't leak credentials for another.
type SecretServiceBackend struct {
	servicePrefix string
}

// NewSecretServiceBackend creates a Linux Secret Service backend.
func NewSecretServiceBackend() (Backend, error) {
	return &SecretServiceBackend{servicePrefix: "gradval:"}, nil
}

// split recovers the host/kind pair a Store-formatted key carries, so
// they can be mapped onto this backend's per-host service, per-kind user.
func split(key string) (host, kind string, ok bool) {
	return strings.Cut(key, defaultKeySeparator)
}

func (s *SecretServiceBackend) Set(key, value string) error {
	host, kind, ok := split(key)
	if !ok {
		return keyring.Set(s.servicePrefix+"default", key, value)
	}
	return keyring.Set(s.servicePrefix+host, kind, value)
}

func (s *SecretServiceBackend) Get(key string) (string, error) {
	host, kind, ok := split(key)
	service, user := s.servicePrefix+"default", key
	if ok {
		service, user = s.servicePrefix+host, kind
	}

	value, err := keyring.Get(service, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *SecretServiceBackend) Delete(key string) error {
	host, kind, ok := split(key)
	service, user := s.servicePrefix+"default", key
	if ok {
		service, user = s.servicePrefix+host, kind
	}

	err := keyring.Delete(service, user)
	if err != nil && err != keyring.ErrNotFound {
		return err
	}
	return nil
}

func (s *SecretServiceBackend) Exists(key string) (bool, error) {
	host, kind, ok := split(key)
	service, user := s.servicePrefix+"default", key
	if ok {
		service, user = s.servicePrefix+host, kind
	}

	_, err := keyring.Get(service, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List is unsupported by the freedesktop.org Secret Service API — it has
// no notion of enumerating all items across services — so host/kind
// listing degrades to an empty result on Linux regardless of the
// per-host service split above.
func (s *SecretServiceBackend) List() ([]string, error) {
	return []string{}, nil
}
