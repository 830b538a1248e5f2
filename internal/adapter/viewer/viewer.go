// Package viewer shows grouped station data in an interactive Fyne window.
package viewer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/couchcryptid/heathrow-climate/internal/config"
	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// Zoom step for one wheel notch or button press.
const zoomStep = 0.8

// histogramShare is the fraction of the chart width given to the histogram panel.
const histogramShare = 0.3

// ReloadFunc loads and groups another station file.
type ReloadFunc func(ctx context.Context, path string) (domain.Table, domain.GroupedTable, error)

// Options configures the window.
type Options struct {
	Title    string
	Width    int
	Height   int
	BinWidth float64

	// Reload enables the file path entry. Nil leaves the path read-only.
	Reload ReloadFunc
}

// Viewer is an interactive window over one grouped table.
type Viewer struct {
	app    fyne.App
	win    fyne.Window
	model  *model
	logger *slog.Logger

	plot      *plotView
	histogram *canvas.Image
	slider    *widget.Slider
	status    *widget.Label
	header    *widget.Label
	path      *widget.Entry

	current string // file behind the model
}

// New builds the window without showing it. It fails with domain.ErrRender
// when no display is available or nothing can be plotted.
func New(table domain.Table, grouped domain.GroupedTable, opts Options, logger *slog.Logger) (*Viewer, error) {
	if err := CheckDisplay(); err != nil {
		return nil, err
	}
	return newViewer(app.NewWithID("uk.metoffice.heathrow.viewer"), table, grouped, opts, logger)
}

func newViewer(a fyne.App, table domain.Table, grouped domain.GroupedTable, opts Options, logger *slog.Logger) (*Viewer, error) {
	m, err := newModel(table, grouped, opts, logger)
	if err != nil {
		return nil, err
	}

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Heathrow by %s", grouped.Key.Name)
	}
	v := &Viewer{
		app:    a,
		win:    a.NewWindow(title),
		model:  m,
		logger: logger,
		status: widget.NewLabel(""),
		header: widget.NewLabel(headerText(table, grouped)),
		path:   widget.NewEntry(),
	}
	v.current = table.Source().Path

	seriesW, histW, h := v.sizes()
	v.plot = newPlotView(seriesW, h, v.onZoom, v.onPan, v.onReset)
	v.histogram = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, histW, h)))
	v.histogram.FillMode = canvas.ImageFillContain
	v.histogram.SetMinSize(fyne.NewSize(float32(histW)/2, float32(h)/2))

	v.slider = widget.NewSlider(0, float64(max(grouped.Len()-1, 0)))
	v.slider.Step = 1
	v.slider.OnChanged = func(f float64) {
		v.model.selectIndex(int(f))
		v.redraw()
	}

	buttons := container.NewHBox(
		widget.NewButton("+", func() { v.onZoom(zoomStep, 0.5) }),
		widget.NewButton("-", func() { v.onZoom(1/zoomStep, 0.5) }),
		widget.NewButton("Reset", v.onReset),
	)
	v.path.SetText(v.current)
	if opts.Reload == nil {
		v.path.Disable()
	}
	v.path.OnChanged = func(text string) { v.open(text) }
	top := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("File:"), nil, v.path),
		v.header,
	)

	split := container.NewHSplit(v.plot, v.histogram)
	split.Offset = 1 - histogramShare
	bottom := container.NewBorder(nil, nil, buttons, nil, container.NewVBox(v.slider, v.status))

	v.win.SetContent(container.NewBorder(top, bottom, nil, nil, split))
	v.win.Resize(fyne.NewSize(float32(opts.Width), float32(opts.Height)+160))
	v.redraw()
	return v, nil
}

// ShowAndRun shows the window and blocks until it is closed.
func (v *Viewer) ShowAndRun() {
	v.logger.Info("viewer opened", "groups", v.model.grouped.Len())
	v.win.ShowAndRun()
	v.logger.Info("viewer closed")
}

func headerText(table domain.Table, grouped domain.GroupedTable) string {
	return fmt.Sprintf("%s: %d rows, %d groups", table.Source().Name, table.Len(), grouped.Len())
}

// open switches the window to another station file. Text that does not name
// a regular file is ignored, so the data changes only once a typed path is
// complete. On a load failure the current data stays on screen.
func (v *Viewer) open(text string) bool {
	reload := v.model.opts.Reload
	if reload == nil {
		return false
	}
	path, err := config.ExpandHome(strings.TrimSpace(text))
	if err != nil || path == "" || path == v.current {
		return false
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return false
	}

	table, grouped, err := reload(context.Background(), path)
	if err == nil {
		var m *model
		if m, err = newModel(table, grouped, v.model.opts, v.logger); err == nil {
			v.model = m
		}
	}
	if err != nil {
		v.logger.Warn("reload failed", "path", path, "error", err)
		v.status.SetText(fmt.Sprintf("Cannot load %s: %v", filepath.Base(path), err))
		return false
	}

	v.current = path
	v.slider.Max = float64(max(grouped.Len()-1, 0))
	v.slider.Value = 0
	v.slider.Refresh()
	v.header.SetText(headerText(table, grouped))
	v.redraw()
	v.logger.Info("station file reloaded", "path", path, "groups", grouped.Len())
	return true
}

func (v *Viewer) sizes() (seriesW, histW, h int) {
	w := max(v.model.opts.Width, 320)
	h = max(v.model.opts.Height, 200)
	histW = int(float64(w) * histogramShare)
	return w - histW, histW, h
}

func (v *Viewer) onZoom(factor, frac float64) {
	v.model.zoom(factor, frac)
	v.redrawSeries()
}

func (v *Viewer) onPan(frac float64) {
	v.model.pan(frac)
	v.redrawSeries()
}

func (v *Viewer) onReset() {
	v.model.reset()
	v.redrawSeries()
}

func (v *Viewer) redrawSeries() {
	seriesW, _, h := v.sizes()
	v.plot.SetImage(v.model.seriesImage(seriesW, h))
}

func (v *Viewer) redraw() {
	_, histW, h := v.sizes()
	v.redrawSeries()
	v.histogram.Image = v.model.histogramImage(histW, h)
	v.histogram.Refresh()
	v.status.SetText(v.model.summary())
}
