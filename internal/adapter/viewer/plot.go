package viewer

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// plotView is a chart image that turns wheel, drag and double-tap gestures
// into zoom, pan and reset callbacks. Positions are passed as fractions of
// the widget width.
type plotView struct {
	widget.BaseWidget
	img *canvas.Image

	onZoom  func(factor, frac float64)
	onPan   func(frac float64)
	onReset func()
}

var (
	_ fyne.Scrollable     = (*plotView)(nil)
	_ fyne.Draggable      = (*plotView)(nil)
	_ fyne.DoubleTappable = (*plotView)(nil)
)

func newPlotView(w, h int, onZoom func(float64, float64), onPan func(float64), onReset func()) *plotView {
	p := &plotView{
		img:     canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, w, h))),
		onZoom:  onZoom,
		onPan:   onPan,
		onReset: onReset,
	}
	p.img.FillMode = canvas.ImageFillContain
	p.img.SetMinSize(fyne.NewSize(float32(w)/2, float32(h)/2))
	p.ExtendBaseWidget(p)
	return p
}

func (p *plotView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.img)
}

// SetImage replaces the chart image.
func (p *plotView) SetImage(img image.Image) {
	p.img.Image = img
	p.img.Refresh()
}

func (p *plotView) fraction(x float32) float64 {
	w := p.Size().Width
	if w <= 0 {
		return 0.5
	}
	return float64(x / w)
}

// Scrolled zooms in on wheel-up and out on wheel-down, around the cursor.
func (p *plotView) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	p.onZoom(factor, p.fraction(ev.Position.X))
}

// Dragged pans so the data follows the pointer.
func (p *plotView) Dragged(ev *fyne.DragEvent) {
	if w := p.Size().Width; w > 0 {
		p.onPan(-float64(ev.Dragged.DX / w))
	}
}

func (p *plotView) DragEnd() {}

// DoubleTapped restores the full key range.
func (p *plotView) DoubleTapped(_ *fyne.PointEvent) {
	p.onReset()
}
