package gocert

// Origin is the coordinate-origin convention of a drawing target.
type Origin int

const (
	// OriginTopLeft puts (0,0) at the top-left corner with y growing downward
	// (raster images).
	OriginTopLeft Origin = iota
	// OriginBottomLeft puts (0,0) at the bottom-left corner with y growing
	// upward (PDF user space).
	OriginBottomLeft
)

// Down returns the sign of a visually downward step along y.
func (o Origin) Down() float64 {
	if o == OriginBottomLeft {
		return -1
	}
	return 1
}

// Point is an absolute coordinate in pixels or points.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. X and Y are its minimum corner in the
// coordinate system it belongs to; W and H are non-negative.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ToAbsolute converts a percentage anchor into absolute coordinates on a
// canvas of the given size. Percentages outside [0,100] are not rejected;
// they simply land off canvas.
func ToAbsolute(p Position, width, height float64, o Origin) Point {
	x := width * p.X / 100
	y := height * p.Y / 100
	if o == OriginBottomLeft {
		y = height - y
	}
	return Point{X: x, Y: y}
}

// MapRect converts a rectangle given in top-down visual coordinates (x, top,
// w, h) into the convention o of a canvas of the given height.
func MapRect(x, top, w, h, height float64, o Origin) Rect {
	if o == OriginBottomLeft {
		return Rect{X: x, Y: height - top - h, W: w, H: h}
	}
	return Rect{X: x, Y: top, W: w, H: h}
}

// CenteredRect returns a w×h rectangle centered on c.
func CenteredRect(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Page geometries. Raster canvases are in pixels; vector pages are A4 in
// PDF points (1 pt = 1/72 inch).
const (
	rasterLongSide  = 1200
	rasterShortSide = 850

	pointsPerInch      = 72.0
	millimetersPerInch = 25.4
	a4LongSideMM       = 297.0
	a4ShortSideMM      = 210.0
)

// Millimeter converts millimeters to PDF points.
func Millimeter(n float64) float64 {
	return n * pointsPerInch / millimetersPerInch
}

// PointToMillimeter converts PDF points to millimeters.
func PointToMillimeter(pt float64) float64 {
	return pt * millimetersPerInch / pointsPerInch
}

// RasterCanvasSize returns the pixel size of a raster certificate.
func RasterCanvasSize(o Orientation) (width, height int) {
	if o == OrientationPortrait {
		return rasterShortSide, rasterLongSide
	}
	return rasterLongSide, rasterShortSide
}

// VectorPageSize returns the A4 page size in points for the orientation.
func VectorPageSize(o Orientation) (width, height float64) {
	long, short := Millimeter(a4LongSideMM), Millimeter(a4ShortSideMM)
	if o == OrientationPortrait {
		return short, long
	}
	return long, short
}
