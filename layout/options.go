package layout

// Measurer returns the rendered width, in points, of text set at size in the
// face of the given weight.
type Measurer interface {
	TextWidth(text string, size float64, weight Weight) float64
}

// ImageSizer reports the intrinsic size of a loaded image resource.
type ImageSizer interface {
	ImageSize(name string) (width, height float64, ok bool)
}

// Env carries the measurements resolution depends on. Both must be backed by
// assets that are already loaded.
type Env struct {
	Measurer Measurer
	Images   ImageSizer
}
