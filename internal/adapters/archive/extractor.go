// Package archive unpacks toolchain archives with the system tar and unzip.
package archive

import (
	"context"
	"errors"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/elixirpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Extractor implements ports.ArchiveExtractor.
type Extractor struct {
	runner ports.CommandRunner
}

// NewExtractor creates an Extractor running its tools through runner.
func NewExtractor(runner ports.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Extract unpacks archive into dest. Tarballs lose their top-level directory;
// zip archives are extracted as-is.
func (e *Extractor) Extract(ctx context.Context, archive string, format domain.ArchiveFormat, dest string) error {
	cmd, err := command(archive, format, dest)
	if err != nil {
		return err
	}

	if _, err := e.runner.Run(ctx, cmd); err != nil {
		return zerr.With(zerr.With(
			zerr.Wrap(errors.Join(domain.ErrExtractFailed, err), "extract "+string(format)),
			"archive", archive), "dest", dest)
	}
	return nil
}

func command(archive string, format domain.ArchiveFormat, dest string) (domain.Command, error) {
	switch format {
	case domain.ArchiveTarGz:
		return domain.Command{Name: "tar", Args: []string{"zxf", archive, "-C", dest, "--strip-components=1"}}, nil
	case domain.ArchiveZip:
		return domain.Command{Name: "unzip", Args: []string{"-q", archive, "-d", dest}}, nil
	default:
		return domain.Command{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedArchive, "extract"), "format", string(format))
	}
}
