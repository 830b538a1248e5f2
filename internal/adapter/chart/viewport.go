package chart

import "math"

// Viewport is the visible slice [Min,Max] of the group-key axis, bounded by
// the full data extent [Lo,Hi].
type Viewport struct {
	Min, Max float64
	Lo, Hi   float64
}

// minSpan is the narrowest visible range, in key units.
const minSpan = 1.0

// NewViewport shows the whole key range keys[0]..keys[n-1], padded by half a
// key on each side so the end points are not drawn on the frame.
func NewViewport(keys []int) Viewport {
	if len(keys) == 0 {
		return Viewport{Min: 0, Max: 1, Lo: 0, Hi: 1}
	}
	lo, hi := float64(keys[0]), float64(keys[0])
	for _, k := range keys[1:] {
		lo = math.Min(lo, float64(k))
		hi = math.Max(hi, float64(k))
	}
	lo -= 0.5
	hi += 0.5
	return Viewport{Min: lo, Max: hi, Lo: lo, Hi: hi}
}

// Span returns the visible width.
func (v Viewport) Span() float64 { return v.Max - v.Min }

// Zoomed reports whether the viewport shows less than the full extent.
func (v Viewport) Zoomed() bool { return v.Min > v.Lo || v.Max < v.Hi }

// Reset shows the full extent.
func (v Viewport) Reset() Viewport {
	v.Min, v.Max = v.Lo, v.Hi
	return v
}

// Zoom scales the visible span by factor around anchor, a key-axis value that
// stays at the same screen position. factor < 1 zooms in.
func (v Viewport) Zoom(factor, anchor float64) Viewport {
	if factor <= 0 || math.IsNaN(factor) || math.IsNaN(anchor) {
		return v
	}
	anchor = math.Max(v.Min, math.Min(v.Max, anchor))
	v.Min = anchor - (anchor-v.Min)*factor
	v.Max = anchor + (v.Max-anchor)*factor
	return v.Clamp()
}

// Pan shifts the visible range by delta key units, stopping at the extent.
func (v Viewport) Pan(delta float64) Viewport {
	if math.IsNaN(delta) {
		return v
	}
	v.Min += delta
	v.Max += delta
	return v.Clamp()
}

// Clamp keeps the span within [minSpan, Hi-Lo] and the range inside the extent.
func (v Viewport) Clamp() Viewport {
	full := v.Hi - v.Lo
	span := v.Span()
	limit := math.Min(minSpan, full)
	switch {
	case span > full:
		return v.Reset()
	case span < limit:
		mid := (v.Min + v.Max) / 2
		v.Min, v.Max = mid-limit/2, mid+limit/2
		span = limit
	}
	if v.Min < v.Lo {
		v.Min, v.Max = v.Lo, v.Lo+span
	}
	if v.Max > v.Hi {
		v.Min, v.Max = v.Hi-span, v.Hi
	}
	return v
}

// ToKey maps a horizontal pixel offset within a plot of the given width to a
// key-axis value.
func (v Viewport) ToKey(x, width float64) float64 {
	if width <= 0 {
		return v.Min
	}
	return v.Min + (x/width)*v.Span()
}

// PixelsToKeys converts a horizontal pixel distance into key units.
func (v Viewport) PixelsToKeys(dx, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return dx / width * v.Span()
}
