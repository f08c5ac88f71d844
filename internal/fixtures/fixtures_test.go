package fixtures

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	for name, content := range files {
		hdr := &tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExtract_TarGz(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "bundle.tar.gz")
	writeTarGz(t, archivePath, map[string]string{
		"grammar.yml":            "rules:\n  Top:\n    kind: sequence\n",
		"transcripts/sample.txt": "Domain Name: example.com\n",
	})

	extractTo := filepath.Join(dir, "out")
	if err := Extract(context.Background(), archivePath, extractTo); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	grammarBytes, err := os.ReadFile(GrammarPath(extractTo))
	if err != nil {
		t.Fatalf("reading extracted grammar: %v", err)
	}
	if len(grammarBytes) == 0 {
		t.Fatal("expected non-empty grammar file")
	}

	transcriptPath := filepath.Join(TranscriptsDir(extractTo), "sample.txt")
	if _, err := os.Stat(transcriptPath); err != nil {
		t.Fatalf("expected extracted transcript file: %v", err)
	}
}

func TestExtract_MissingArchive(t *testing.T) {
	dir := t.TempDir()
	if err := Extract(context.Background(), filepath.Join(dir, "nope.tar.gz"), filepath.Join(dir, "out")); err == nil {
		t.Fatal("expected an error for a missing archive")
	}
}

func TestExtract_NotAnArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(path, []byte("just some text, not an archive"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Extract(context.Background(), path, filepath.Join(dir, "out")); err == nil {
		t.Fatal("expected an error identifying a non-archive file")
	}
}
