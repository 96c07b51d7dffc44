package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores the per-frame control values for the player.
type Input struct {
	// Horizontal and Forward are in [-1, 1] and zero when the pointer is
	// outside the viewport.
	Horizontal float64
	Forward    float64
	// Drop is true on the frame any drop trigger was pressed.
	Drop bool
	// CameraForward is the camera's world-space forward direction.
	CameraForward mgl64.Vec3
}
