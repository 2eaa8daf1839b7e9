package layout

import "image"

// Inset shrinks rect by paddingPx on all sides.
// Padding that would invert the rect collapses it to its midpoint.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	rect = Normalize(rect)
	if 2*paddingPx >= rect.Dx() || 2*paddingPx >= rect.Dy() {
		c := Midpoint(rect)
		return image.Rectangle{Min: c, Max: c}
	}
	return image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Midpoint returns the integer center of rect.
func Midpoint(rect image.Rectangle) image.Point {
	rect = Normalize(rect)
	return image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
}

// Centered returns a rectangle of size (widthPx,heightPx) centered in rect.
// The size is clamped to the size of rect.
func Centered(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	heightPx = clamp(heightPx, 0, rect.Dy())
	minX := rect.Min.X + (rect.Dx()-widthPx)/2
	minY := rect.Min.Y + (rect.Dy()-heightPx)/2
	return image.Rect(minX, minY, minX+widthPx, minY+heightPx)
}

// FitSquare returns the largest square that fits into rect, centered.
// Round watch faces draw into this square.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	return Centered(rect, size, size)
}

// FaceBounds is the drawable area of a watch face inside a canvas of the given size:
// the canvas minus paddingPx, optionally reduced to its centered square.
func FaceBounds(width, height, paddingPx int, square bool) image.Rectangle {
	rect := Inset(image.Rect(0, 0, width, height), paddingPx)
	if square {
		return FitSquare(rect)
	}
	return rect
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
