package usecase

import (
	"errors"
	"io"
	"time"

	"github.com/xy2yp/Artify/internal/slicer"
	"github.com/xy2yp/Artify/pkg/logger"
	"github.com/xy2yp/Artify/pkg/metrics"
)

// ErrArchiverUnavailable reports an archive request with no archiver wired.
var ErrArchiverUnavailable = errors.New("archive packaging unavailable")

// SliceSpec carries the partition description for one slicing run. An
// explicit grid wins over explicit lines; with neither, the default 3x3
// grid applied on load stands.
type SliceSpec struct {
	Horizontal []int
	Vertical   []int
	GridRows   int
	GridCols   int
	Padding    slicer.PaddingPolicy
}

// DownloadResult reports how a batch download was fulfilled: a single
// archive file, or sequentially written tile files.
type DownloadResult struct {
	ArchivePath string   `json:"archive_path,omitempty"`
	Files       []string `json:"files,omitempty"`
}

type SliceUseCase struct {
	archiver slicer.Archiver // nil forces the sequential fallback
	exporter *slicer.Exporter
	logger   logger.Logger
}

func NewSliceUseCase(archiver slicer.Archiver, exporter *slicer.Exporter, l logger.Logger) *SliceUseCase {
	return &SliceUseCase{
		archiver: archiver,
		exporter: exporter,
		logger:   l,
	}
}

// Slice decodes the image and produces tiles for the requested partition.
func (uc *SliceUseCase) Slice(r io.Reader, spec SliceSpec) ([]slicer.Tile, error) {
	start := time.Now()

	s := slicer.New(uc.logger)
	if err := s.LoadImage(r); err != nil {
		return nil, err
	}

	switch {
	case spec.GridRows > 0 || spec.GridCols > 0:
		rows, cols := spec.GridRows, spec.GridCols
		if rows < 1 {
			rows = 1
		}
		if cols < 1 {
			cols = 1
		}
		if err := s.AutoGrid(rows, cols); err != nil {
			return nil, err
		}
	case len(spec.Horizontal) > 0 || len(spec.Vertical) > 0:
		s.ClearLines()
		for _, y := range spec.Horizontal {
			s.AddLine(slicer.Horizontal, y)
		}
		for _, x := range spec.Vertical {
			s.AddLine(slicer.Vertical, x)
		}
	}

	tiles, err := s.Process(spec.Padding)
	if err != nil {
		return nil, err
	}

	metrics.SliceOperations.Inc()
	metrics.SliceTilesProduced.Add(float64(len(tiles)))
	metrics.SliceDuration.Observe(time.Since(start).Seconds())

	uc.logger.Info("image sliced", "tiles", len(tiles), "padded", spec.Padding.Enabled)

	return tiles, nil
}

// Archive packages tiles as one downloadable blob.
func (uc *SliceUseCase) Archive(tiles []slicer.Tile) ([]byte, error) {
	if uc.archiver == nil {
		return nil, ErrArchiverUnavailable
	}
	return uc.archiver.Archive(tiles)
}

// Export fulfills a batch download server-side: one archive file when an
// archiver is present, otherwise tiles written sequentially with the
// configured pacing.
func (uc *SliceUseCase) Export(tiles []slicer.Tile) (DownloadResult, error) {
	if uc.archiver != nil {
		archive, err := uc.archiver.Archive(tiles)
		if err != nil {
			uc.logger.Warn("archive packaging failed, falling back to sequential export", "error", err)
		} else {
			p, err := uc.exporter.ExportArchive(archive)
			if err != nil {
				return DownloadResult{}, err
			}
			return DownloadResult{ArchivePath: p}, nil
		}
	}

	files, err := uc.exporter.ExportAll(tiles)
	if err != nil {
		return DownloadResult{}, err
	}

	return DownloadResult{Files: files}, nil
}
