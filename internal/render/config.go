package render

// Logical canvas defaults; frames are scaled to the device on present.
var (
	CanvasWidth  = 320
	CanvasHeight = 320

	// PointRadius is the radius of a point primitive in logical pixels.
	PointRadius = 2.0

	// DefaultTextSize in points, used when TextStyle.Size is zero.
	DefaultTextSize = 40.0
)
