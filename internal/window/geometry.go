package window

import (
	"fyne.io/fyne/v2"
)

const (
	prefWidth  = "window.width"
	prefHeight = "window.height"
)

// GeometryKeeper remembers the window size across runs in the app preferences.
type GeometryKeeper struct {
	prefs    fyne.Preferences
	defaults fyne.Size
	last     fyne.Size
}

func NewGeometryKeeper(prefs fyne.Preferences, defaults fyne.Size) *GeometryKeeper {
	return &GeometryKeeper{prefs: prefs, defaults: defaults}
}

// Load returns the saved size, or the defaults when nothing usable was saved.
func (g *GeometryKeeper) Load() fyne.Size {
	width := float32(g.prefs.FloatWithFallback(prefWidth, float64(g.defaults.Width)))
	height := float32(g.prefs.FloatWithFallback(prefHeight, float64(g.defaults.Height)))

	if width <= 0 || height <= 0 {
		return g.defaults
	}

	g.last = fyne.NewSize(width, height)
	return g.last
}

// Save persists size when it differs from the last one seen.
func (g *GeometryKeeper) Save(size fyne.Size) {
	if size.Width <= 0 || size.Height <= 0 || size == g.last {
		return
	}

	g.prefs.SetFloat(prefWidth, float64(size.Width))
	g.prefs.SetFloat(prefHeight, float64(size.Height))
	g.last = size
}

// trackingLayout stacks its objects over the whole container and reports
// every size it is laid out at.
type trackingLayout struct {
	onResize func(fyne.Size)
}

func newTrackingLayout(onResize func(fyne.Size)) *trackingLayout {
	return &trackingLayout{onResize: onResize}
}

func (t *trackingLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	for _, obj := range objects {
		obj.Resize(containerSize)
		obj.Move(fyne.NewPos(0, 0))
	}

	if t.onResize != nil {
		t.onResize(containerSize)
	}
}

func (t *trackingLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	minSize := fyne.NewSize(0, 0)
	for _, obj := range objects {
		minSize = minSize.Max(obj.MinSize())
	}
	return minSize
}
