// Package grammarcache records, keyed by the content hash of a grammar's
// source YAML, that the grammar has already passed grammar.Check, so an
// unchanged grammar file is not re-checked on every run. The grammar
// itself is not stored: grammaryaml.Parse runs on every Load. It is adapted from the teacher's internal/cache, which
// caches remote includes the same way: SoloDB-backed, content-hash keyed,
// TTL-expiring blobs.
package grammarcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	solodb "github.com/phillarmonic/SoloDB"

	"github.com/regdir/gradval/internal/grammar"
	"github.com/regdir/gradval/internal/grammaryaml"
)

// Manager caches parsed grammars in a SoloDB-backed blob store.
type Manager struct {
	db         *solodb.DB
	expiration time.Duration
	disabled   bool
}

// Stats reports the cache's current footprint.
type Stats struct {
	Keys      int
	FileBytes int64
}

// NewManager opens (or creates) a cache database under ~/.gradval. When
// disabled is true, no grammar counts as already checked and nothing is
// recorded, so Load always runs grammar.Check — useful for
// one-shot CLI invocations that would otherwise pay for an unused cache
// file.
func NewManager(expiration time.Duration, disabled bool) (*Manager, error) {
	if disabled {
		return &Manager{disabled: true, expiration: expiration}, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("grammarcache: %w", err)
	}

	dir := filepath.Join(homeDir, ".gradval")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("grammarcache: %w", err)
	}

	db, err := solodb.Open(solodb.Options{
		Path:       filepath.Join(dir, "grammars.solo"),
		Durability: solodb.SyncBatch,
	})
	if err != nil {
		return nil, fmt.Errorf("grammarcache: %w", err)
	}

	return &Manager{db: db, expiration: expiration}, nil
}

// Key derives the cache key for a grammar source's bytes.
func Key(source []byte) string {
	sum := sha256.Sum256(source)
	return "grammar:" + hex.EncodeToString(sum[:])
}

// Load parses source and returns the resulting grammar. grammar.Check is
// skipped when source's content hash is already recorded as having
// passed it, since Check is the part of compiling a grammar that scales
// with the number of rules and types — Parse itself is cheap enough to
// always redo.
func (m *Manager) Load(source []byte, hasType func(string) bool) (grammar.Grammar, error) {
	g, err := grammaryaml.Parse(source)
	if err != nil {
		return nil, err
	}

	key := Key(source)
	if m.alreadyChecked(key) {
		return g, nil
	}

	if err := g.Check(hasType); err != nil {
		return nil, fmt.Errorf("grammarcache: %w", err)
	}
	m.markChecked(key)
	return g, nil
}

func (m *Manager) alreadyChecked(key string) bool {
	if m.disabled {
		return false
	}
	rc, _, _, err := m.db.GetBlob(key)
	if err != nil {
		return false
	}
	rc.Close()
	return true
}

func (m *Manager) markChecked(key string) {
	if m.disabled {
		return
	}
	expiry := time.Now().Add(m.expiration)
	_ = m.db.SetBlob(key, bytes.NewReader([]byte("ok")), 2, expiry)
}

// Stats reports cache size.
func (m *Manager) Stats() Stats {
	if m.disabled || m.db == nil {
		return Stats{}
	}
	s := m.db.Stats()
	return Stats{Keys: s.Keys, FileBytes: s.FileBytes}
}

// Close releases the underlying database handle.
func (m *Manager) Close() error {
	if m.disabled || m.db == nil {
		return nil
	}
	return m.db.Close()
}
