package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testGrammar = `
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
      - name: EOF
        line: EOF
`

func runValidate(t *testing.T, dir, transcript string, extraArgs ...string) (string, error) {
	t.Helper()

	grammarPath := filepath.Join(dir, "grammar.yml")
	if err := os.WriteFile(grammarPath, []byte(testGrammar), 0o644); err != nil {
		t.Fatal(err)
	}
	transcriptPath := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newValidateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	args := append([]string{"--grammar", grammarPath, "--no-cache", transcriptPath}, extraArgs...)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand_ValidTranscriptPasses(t *testing.T) {
	dir := t.TempDir()
	out, err := runValidate(t, dir, "Domain Name: example.com\n")
	if err != nil {
		t.Fatalf("expected success, got error %v (output: %s)", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("OK")) {
		t.Fatalf("expected an OK message, got %q", out)
	}
}

func TestValidateCommand_InvalidTranscriptFails(t *testing.T) {
	dir := t.TempDir()
	out, err := runValidate(t, dir, "Domain Name: not a valid hostname!!\n")
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !bytes.Contains([]byte(out), []byte("Validation error")) {
		t.Fatalf("expected a rendered diagnostic, got %q", out)
	}
}

func TestValidateCommand_MissingGrammarFile(t *testing.T) {
	dir := t.TempDir()
	transcriptPath := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte("Domain Name: example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newValidateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--grammar", filepath.Join(dir, "missing.yml"), transcriptPath})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing grammar file")
	}
}
