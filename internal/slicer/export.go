package slicer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xy2yp/Artify/pkg/logger"
)

// Archiver packages named tile artifacts into one downloadable blob.
type Archiver interface {
	Archive(tiles []Tile) ([]byte, error)
}

// ZipArchiver is the default Archiver.
type ZipArchiver struct{}

var _ Archiver = ZipArchiver{}

func (ZipArchiver) Archive(tiles []Tile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, t := range tiles {
		f, err := zw.Create(t.Filename())
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", t.Filename(), err)
		}
		if _, err := f.Write(t.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", t.Filename(), err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

// Exporter writes tiles as individual files, pacing the writes. It is the
// fallback path when no archiver is available.
type Exporter struct {
	dir    string
	delay  time.Duration
	logger logger.Logger
}

func NewExporter(dir string, delay time.Duration, l logger.Logger) *Exporter {
	return &Exporter{
		dir:    dir,
		delay:  delay,
		logger: l,
	}
}

// ExportArchive writes one archive blob into the export directory under a
// timestamped name and returns its path.
func (e *Exporter) ExportArchive(data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("slices_%s.zip", time.Now().Format("20060102_150405"))
	p := filepath.Join(e.dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}

	e.logger.Debug("archive exported", "path", p, "size", len(data))

	return p, nil
}

// ExportAll writes one file per tile into the export directory, pausing
// between writes. Returns the paths written; on failure the paths written
// so far accompany the error.
func (e *Exporter) ExportAll(tiles []Tile) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	paths := make([]string, 0, len(tiles))
	for n, t := range tiles {
		if n > 0 && e.delay > 0 {
			time.Sleep(e.delay)
		}

		p := filepath.Join(e.dir, t.Filename())
		if err := os.WriteFile(p, t.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write tile %d: %w", t.SequenceIndex, err)
		}
		paths = append(paths, p)

		e.logger.Debug("tile exported", "path", p, "size", len(t.Data))
	}

	return paths, nil
}
