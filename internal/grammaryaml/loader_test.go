package grammaryaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/regdir/gradval/internal/grammar"
)

const sampleYAML = `
rules:
  Top:
    kind: sequence
    entries:
      - name: Domain Name
        line: field
        type: hostname
      - name: Referral URL
        line: field
        type: url
        quantifier: optional-free
      - name: Nameserver
        line: field
        type: hostname
        quantifier: repeatable max 13
      - name: Choice
      - name: EOF
        line: EOF
  Choice:
    kind: choice
    alternatives:
      Domain Name:
        type: hostname
      Referral URL:
        type: url
`

func TestParse_SequenceAndChoice(t *testing.T) {
	g, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	top := g["Top"]
	if top.IsChoice() {
		t.Fatal("expected Top to be a sequence")
	}
	if len(top.Sequence) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(top.Sequence))
	}
	if top.Sequence[1].Quantifier.Kind != grammar.OptionalFree {
		t.Errorf("expected optional-free, got %v", top.Sequence[1].Quantifier.Kind)
	}
	if k := top.Sequence[2].Quantifier; k.Kind != grammar.RepeatableMax || k.Max != 13 {
		t.Errorf("expected repeatable max 13, got %+v", k)
	}

	choice := g["Choice"]
	if !choice.IsChoice() {
		t.Fatal("expected Choice to be a choice section")
	}
	if len(choice.Choice) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(choice.Choice))
	}
}

func TestParse_UnknownQuantifier(t *testing.T) {
	_, err := Parse([]byte(`
rules:
  Top:
    kind: sequence
    entries:
      - name: X
        line: field
        quantifier: sometimes
`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized quantifier")
	}
}

func TestLoader_LoadAndCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "grammar.yml"), []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(dir)
	g1, err := loader.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g2, err := loader.Load("")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if len(g1) != len(g2) {
		t.Fatalf("expected cached grammar to match, got %d vs %d rules", len(g1), len(g2))
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(t.TempDir())
	if _, err := loader.Load(""); err == nil {
		t.Fatal("expected an error when no grammar file exists")
	}
}
