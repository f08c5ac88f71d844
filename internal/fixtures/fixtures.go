// Package fixtures extracts bundled fixture packs — archives containing
// a grammar.yml plus sample reply transcripts — used by integration
// tests and the `gradval fixtures extract` command. Extraction is
// adapted from the teacher's Engine.extractArchive, which uses
// github.com/mholt/archives to identify and unpack an arbitrary archive
// format rather than assuming a single format up front.
package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
)

// Extract identifies archivePath's format and unpacks its contents into
// extractTo, creating it if necessary.
func Extract(ctx context.Context, archivePath, extractTo string) error {
	if err := os.MkdirAll(extractTo, 0o755); err != nil {
		return fmt.Errorf("fixtures: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("fixtures: %w", err)
	}
	defer archiveFile.Close()

	format, archiveReader, err := archives.Identify(ctx, archivePath, archiveFile)
	if err != nil {
		return fmt.Errorf("fixtures: identify %s: %w", archivePath, err)
	}

	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("fixtures: %s is not an extractable archive format", archivePath)
	}

	handler := func(ctx context.Context, f archives.FileInfo) error {
		outputPath := filepath.Join(extractTo, f.NameInArchive)

		if f.IsDir() {
			return os.MkdirAll(outputPath, f.Mode())
		}
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return fmt.Errorf("fixtures: %w", err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("fixtures: open %s in archive: %w", f.NameInArchive, err)
		}
		defer rc.Close()

		outFile, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return fmt.Errorf("fixtures: %w", err)
		}
		defer outFile.Close()

		if _, err := io.Copy(outFile, rc); err != nil {
			return fmt.Errorf("fixtures: extract %s: %w", f.NameInArchive, err)
		}
		return nil
	}

	if err := extractor.Extract(ctx, archiveReader, handler); err != nil {
		return fmt.Errorf("fixtures: extraction failed: %w", err)
	}
	return nil
}

// GrammarPath returns the conventional location of a fixture bundle's
// grammar file once extracted: <dir>/grammar.yml.
func GrammarPath(extractedDir string) string {
	return filepath.Join(extractedDir, "grammar.yml")
}

// TranscriptsDir returns the conventional location of a fixture bundle's
// sample reply transcripts once extracted: <dir>/transcripts.
func TranscriptsDir(extractedDir string) string {
	return filepath.Join(extractedDir, "transcripts")
}
