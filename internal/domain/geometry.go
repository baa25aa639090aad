package domain

// Point is a cell coordinate relative to a container's origin.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in cells.
type Size struct {
	W int
	H int
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0
}

// Rect is an axis-aligned rectangle. Max edges are exclusive.
type Rect struct {
	Min  Point
	Size Size
}

// RectAt builds a rectangle from an origin and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{Min: p, Size: s}
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int {
	return r.Min.X + r.Size.W
}

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int {
	return r.Min.Y + r.Size.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.Size.W <= 0 || r.Size.H <= 0
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.MaxX() && p.Y >= r.Min.Y && p.Y < r.MaxY()
}

// Intersects reports whether two rectangles share at least one cell.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Min.X < o.MaxX() && o.Min.X < r.MaxX() && r.Min.Y < o.MaxY() && o.Min.Y < r.MaxY()
}
