// Package metoffice reads Met Office historic station data files into tables.
package metoffice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// Reader loads a station file from disk.
// It implements pipeline.Loader.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the station file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Path returns the file the reader loads.
func (r *Reader) Path() string { return r.path }

// Load parses the whole file. On any error the returned Table is empty.
func (r *Reader) Load(ctx context.Context) (domain.Table, error) {
	obs, source, err := r.Read(ctx)
	if err != nil {
		return domain.Table{}, err
	}

	table, err := domain.NewTable(obs, source)
	if err != nil {
		return domain.Table{}, err
	}

	r.logger.Info("station file loaded", append(table.Source().LogAttrs(), Summary(obs)...)...)
	r.logger.Debug("table head", "head", table.Head(5))
	return table, nil
}

// Read parses the file into observations, keeping their line numbers, and
// describes the file. Callers that need a Table should use Load.
func (r *Reader) Read(ctx context.Context) ([]domain.Observation, domain.SourceInfo, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.SourceInfo{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, r.path)
		}
		return nil, domain.SourceInfo{}, fmt.Errorf("stat %s: %w", r.path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, domain.SourceInfo{}, fmt.Errorf("%w: %s is not a regular file", domain.ErrFileNotFound, r.path)
	}

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.SourceInfo{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, r.path)
		}
		return nil, domain.SourceInfo{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	obs, err := Parse(ctx, f)
	if err != nil {
		return nil, domain.SourceInfo{}, fmt.Errorf("read %s: %w", r.path, err)
	}

	dir, name := filepath.Split(r.path)
	return obs, domain.SourceInfo{
		Path:      r.path,
		Dir:       filepath.Clean(dir),
		Name:      name,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// Parse reads a station file body: preamble, then one observation per non-blank
// line until EOF or a "Site closed" marker.
func Parse(ctx context.Context, rd io.Reader) ([]domain.Observation, error) {
	sc := bufio.NewScanner(rd)

	var (
		obs    []domain.Observation
		lineNo int
		inData bool
	)
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := sc.Text()
		if !inData {
			if !domain.IsDataLine(line) {
				continue
			}
			inData = true
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if domain.IsSiteClosed(line) {
			break
		}

		o, err := domain.ParseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan line %d: %w", lineNo+1, err)
	}
	if !inData {
		return nil, &domain.ParseError{Line: lineNo, Reason: "no data rows after preamble"}
	}
	return obs, nil
}

// Summary describes parsed observations as slog key/value pairs.
func Summary(obs []domain.Observation) []any {
	if len(obs) == 0 {
		return []any{"rows", 0}
	}
	var provisional, estimated int
	for _, o := range obs {
		if o.Provisional {
			provisional++
		}
		if o.Estimated {
			estimated++
		}
	}
	return []any{
		"rows", len(obs),
		"first_year", obs[0].Year,
		"last_year", obs[len(obs)-1].Year,
		"provisional_rows", provisional,
		"estimated_rows", estimated,
	}
}
