package chart

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2/maybe"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// Output formats, chosen from the output file extension.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// FormatFor returns the image format for an output path.
func FormatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", "":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported output extension %q (want .png or .svg)", ext)
	}
}

// StaticRenderer writes the time-series chart to an image file.
// It implements pipeline.Renderer.
type StaticRenderer struct {
	path    string
	width   int
	height  int
	caption string
	logger  *slog.Logger
}

// NewStaticRenderer creates a renderer writing to path. The caption is stamped
// onto PNG output.
func NewStaticRenderer(path string, width, height int, caption string, logger *slog.Logger) *StaticRenderer {
	return &StaticRenderer{
		path:    path,
		width:   width,
		height:  height,
		caption: caption,
		logger:  logger,
	}
}

// Name identifies the renderer in metrics.
func (r *StaticRenderer) Name() string { return "static" }

// Render draws g and replaces the output file.
func (r *StaticRenderer) Render(ctx context.Context, g domain.GroupedTable) error {
	format, err := FormatFor(r.path)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	ch, err := BuildTimeSeries(g, TimeSeriesOptions{Width: r.width, Height: r.height})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := r.encode(&buf, ch, format); err != nil {
		return err
	}
	// readers of path see either the old chart or the new one, never a partial file
	if err := maybe.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrRender, r.path, err)
	}

	r.logger.Info("chart written",
		"path", r.path,
		"format", format,
		"groups", g.Len(),
		"bytes", buf.Len(),
	)
	return nil
}

func (r *StaticRenderer) encode(w io.Writer, ch gochart.Chart, format string) error {
	if format == FormatSVG {
		if err := ch.Render(gochart.SVG, w); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrRender, err)
		}
		return nil
	}

	img, err := RenderImage(ch)
	if err != nil {
		return err
	}
	if err := png.Encode(w, Caption(img, r.caption)); err != nil {
		return fmt.Errorf("%w: encode png: %w", domain.ErrRender, err)
	}
	return nil
}
