package model

import "math"

// Point represents a 2D point in pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in image pixel space.
// The origin is the top-left corner of the image, so Top < Bottom
// for any valid rectangle.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// NewRect creates a rectangle from its four edges
func NewRect(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectFromPoints returns the smallest rectangle containing all points.
// Returns the zero Rect for an empty slice.
func RectFromPoints(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Left: points[0].X, Top: points[0].Y, Right: points[0].X, Bottom: points[0].Y}
	for _, p := range points[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Right = math.Max(r.Right, p.X)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	return r
}

// Width returns the horizontal extent
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// CenterY returns the vertical center
func (r Rect) CenterY() float64 {
	return (r.Top + r.Bottom) / 2
}

// Center returns the center point
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: r.CenterY()}
}

// Area returns the area of the rectangle
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// IsValid returns true if the rectangle has positive dimensions
func (r Rect) IsValid() bool {
	return r.Width() > 0 && r.Height() > 0
}

// Union returns the smallest rectangle containing both rectangles
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Intersects checks if two rectangles touch or overlap
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right < other.Left ||
		r.Left > other.Right ||
		r.Bottom < other.Top ||
		r.Top > other.Bottom)
}

// Overlaps checks if two rectangles share a region of positive area.
// Rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Contains reports whether other lies entirely inside r
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// Expand grows the rectangle by dx on the left and right and dy on the top
// and bottom. Negative values shrink it.
func (r Rect) Expand(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left - dx,
		Top:    r.Top - dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Clamp restricts the rectangle to lie within bounds
func (r Rect) Clamp(bounds Rect) Rect {
	return Rect{
		Left:   math.Max(r.Left, bounds.Left),
		Top:    math.Max(r.Top, bounds.Top),
		Right:  math.Min(r.Right, bounds.Right),
		Bottom: math.Min(r.Bottom, bounds.Bottom),
	}
}
