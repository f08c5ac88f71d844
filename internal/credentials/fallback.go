package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100000
	saltSize         = 32
	keySize          = 32

	// fallbackFormatVersion is bumped whenever the on-disk envelope
	// shape changes. It is bound into the AEAD's associated data (see
	// encrypt/decrypt below), so a file written by an older or newer
	// gradval — or any file that isn't a gradval credential store at
	// all — fails authentication instead of silently decrypting into
	// garbage secrets.
	fallbackFormatVersion = 1
)

// FallbackBackend provides encrypted file-based credential storage for
// platforms without a native secret store.
type FallbackBackend struct {
	filepath string
	key      []byte
	secrets  map[string]string
	mu       sync.RWMutex
}

type encryptedData struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Cipher  []byte `json:"cipher"`
}

func associatedData(version int) []byte {
	return []byte(fmt.Sprintf("gradval-credentials-v%d", version))
}

// NewFallbackBackend creates a fallback backend at the default location,
// ~/.gradval/credentials.enc.
func NewFallbackBackend() Backend {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	dir := filepath.Join(homeDir, ".gradval")
	os.MkdirAll(dir, 0o700)

	return NewFallbackBackendWithPath(filepath.Join(dir, "credentials.enc"))
}

// NewFallbackBackendWithPath creates a fallback backend at a custom path.
func NewFallbackBackendWithPath(storagePath string) Backend {
	os.MkdirAll(filepath.Dir(storagePath), 0o700)

	backend := &FallbackBackend{
		filepath: storagePath,
		key:      deriveKey(),
		secrets:  make(map[string]string),
	}
	backend.load()
	return backend
}

func (f *FallbackBackend) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets[key] = value
	return f.save()
}

func (f *FallbackBackend) Get(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.secrets[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *FallbackBackend) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.secrets, key)
	return f.save()
}

func (f *FallbackBackend) Exists(key string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.secrets[key]
	return ok, nil
}

func (f *FallbackBackend) List() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.secrets))
	for key := range f.secrets {
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *FallbackBackend) save() error {
	data, err := json.Marshal(f.secrets)
	if err != nil {
		return err
	}
	encrypted, err := f.encrypt(data)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filepath, encrypted, 0o600)
}

func (f *FallbackBackend) load() error {
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decrypted, err := f.decrypt(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(decrypted, &f.secrets)
}

func (f *FallbackBackend) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	key := pbkdf2.Key(f.key, salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, associatedData(fallbackFormatVersion))
	return json.Marshal(encryptedData{Version: fallbackFormatVersion, Salt: salt, Nonce: nonce, Cipher: ciphertext})
}

func (f *FallbackBackend) decrypt(data []byte) ([]byte, error) {
	var envelope encryptedData
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	if envelope.Version != fallbackFormatVersion {
		return nil, fmt.Errorf("credentials: unsupported fallback store version %d", envelope.Version)
	}

	key := pbkdf2.Key(f.key, envelope.Salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(envelope.Nonce) != gcm.NonceSize() {
		return nil, errors.New("credentials: invalid nonce size")
	}

	return gcm.Open(nil, envelope.Nonce, envelope.Cipher, associatedData(envelope.Version))
}

// deriveKey derives a deterministic local encryption key from
// machine-specific data. It is not a substitute for a platform keyring —
// it exists only so the fallback backend has something at rest besides
// plaintext.
func deriveKey() []byte {
	homeDir, _ := os.UserHomeDir()
	hostname, _ := os.Hostname()
	seed := homeDir + ":" + hostname + ":gradval-credentials"
	return pbkdf2.Key([]byte(seed), []byte("gradval-salt"), pbkdf2Iterations, keySize, sha256.New)
}

// SecureRandom generates cryptographically secure random bytes.
func SecureRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
