// Package grammaryaml loads a grammar.Grammar from YAML. The core
// validator mandates no on-the-wire format for a grammar — any loader
// producing the §3 shape suffices — so this is one concrete loader,
// structured the way the teacher's internal/spec.Loader loads and caches
// drun.yml: default filenames, a modification-time-keyed cache, content
// hashing via crypto/sha256.
package grammaryaml

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/regdir/gradval/internal/grammar"
	"gopkg.in/yaml.v3"
)

// DefaultFilenames are the default grammar file names to look for, the
// way the teacher looks for drun.yml/drun.yaml/.drun.yml/etc.
var DefaultFilenames = []string{
	"grammar.yml",
	"grammar.yaml",
	".grammar.yml",
	".grammar.yaml",
}

type wireQuantifier string

type wireEntry struct {
	Name       string         `yaml:"name"`
	Line       string         `yaml:"line,omitempty"`
	Type       string         `yaml:"type,omitempty"`
	Quantifier wireQuantifier `yaml:"quantifier,omitempty"`
}

type wireRule struct {
	Kind         string               `yaml:"kind"` // "sequence" or "choice"
	Entries      []wireEntry          `yaml:"entries,omitempty"`
	Alternatives map[string]wireEntry `yaml:"alternatives,omitempty"`
}

type wireGrammar struct {
	Rules map[string]wireRule `yaml:"rules"`
}

var repeatableMaxPattern = regexp.MustCompile(`^repeatable max (\d+)$`)

func (q wireQuantifier) resolve() (grammar.Quantifier, error) {
	switch s := strings.TrimSpace(string(q)); {
	case s == "":
		return grammar.Quantifier{Kind: grammar.ExactlyOnce}, nil
	case s == "optional-constrained":
		return grammar.Quantifier{Kind: grammar.OptionalConstrained}, nil
	case s == "optional-free":
		return grammar.Quantifier{Kind: grammar.OptionalFree}, nil
	case s == "optional-repeatable":
		return grammar.Quantifier{Kind: grammar.OptionalRepeatable}, nil
	case s == "repeatable":
		return grammar.Quantifier{Kind: grammar.Repeatable}, nil
	default:
		if m := repeatableMaxPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			return grammar.Quantifier{Kind: grammar.RepeatableMax, Max: n}, nil
		}
		return grammar.Quantifier{}, fmt.Errorf("unrecognized quantifier %q", s)
	}
}

func (e wireEntry) resolve() (grammar.Entry, error) {
	q, err := e.Quantifier.resolve()
	if err != nil {
		return grammar.Entry{}, fmt.Errorf("entry %q: %w", e.Name, err)
	}

	var line grammar.LineKind
	switch e.Line {
	case "":
		line = grammar.NotTerminal
	case "field":
		line = grammar.LineField
	case "any line":
		line = grammar.LineAny
	case "EOF":
		line = grammar.LineEOF
	default:
		return grammar.Entry{}, fmt.Errorf("entry %q: unrecognized line kind %q", e.Name, e.Line)
	}

	return grammar.Entry{Name: e.Name, Line: line, Type: e.Type, Quantifier: q}, nil
}

// Parse decodes YAML bytes into a grammar.Grammar. It does not check the
// grammar's invariants against a type registry; call Grammar.Check for
// that once a registry is available.
func Parse(data []byte) (grammar.Grammar, error) {
	var wire wireGrammar
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("grammaryaml: %w", err)
	}

	g := make(grammar.Grammar, len(wire.Rules))
	for name, rule := range wire.Rules {
		switch rule.Kind {
		case "sequence", "":
			entries := make([]grammar.Entry, 0, len(rule.Entries))
			for _, we := range rule.Entries {
				entry, err := we.resolve()
				if err != nil {
					return nil, fmt.Errorf("rule %q: %w", name, err)
				}
				entries = append(entries, entry)
			}
			g[name] = grammar.NewSequence(entries...)
		case "choice":
			alts := make(map[string]grammar.Entry, len(rule.Alternatives))
			for altName, we := range rule.Alternatives {
				if we.Name == "" {
					we.Name = altName
				}
				if we.Line == "" {
					we.Line = "field"
				}
				entry, err := we.resolve()
				if err != nil {
					return nil, fmt.Errorf("rule %q, alternative %q: %w", name, altName, err)
				}
				alts[altName] = entry
			}
			g[name] = grammar.NewChoice(alts)
		default:
			return nil, fmt.Errorf("rule %q: unrecognized kind %q", name, rule.Kind)
		}
	}
	return g, nil
}

// Decode reads and parses a grammar from r.
func Decode(r io.Reader) (grammar.Grammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

type cacheEntry struct {
	grammar grammar.Grammar
	modTime time.Time
	hash    string
}

// Loader loads and caches grammar files from a base directory, keyed by
// modification time the way the teacher's spec.Loader caches drun.yml.
type Loader struct {
	baseDir string
	cache   sync.Map // path -> cacheEntry
}

// NewLoader creates a Loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{baseDir: baseDir}
}

// Load loads a grammar file. An empty filename searches DefaultFilenames
// under the loader's base directory.
func (l *Loader) Load(filename string) (grammar.Grammar, error) {
	path, err := l.resolvePath(filename)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("grammaryaml: %w", err)
	}

	if cached, ok := l.cache.Load(path); ok {
		entry := cached.(cacheEntry)
		if entry.modTime.Equal(info.ModTime()) {
			return entry.grammar, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grammaryaml: %w", err)
	}

	g, err := Parse(data)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	l.cache.Store(path, cacheEntry{grammar: g, modTime: info.ModTime(), hash: hex.EncodeToString(sum[:])})
	return g, nil
}

func (l *Loader) resolvePath(filename string) (string, error) {
	if filename != "" {
		if filepath.IsAbs(filename) {
			return filename, nil
		}
		return filepath.Join(l.baseDir, filename), nil
	}
	for _, candidate := range DefaultFilenames {
		path := filepath.Join(l.baseDir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("grammaryaml: no grammar file found (tried: %s)", strings.Join(DefaultFilenames, ", "))
}
