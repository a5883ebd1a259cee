package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinZoom = 5
	MaxZoom = 50
)

// Camera is an orthographic camera orbiting its target at a fixed height.
type Camera struct {
	Target    mgl32.Vec3
	Angle     float32 // radians around Y
	Distance  float32
	Height    float32
	ViewWidth float32
}

// NewCamera returns the default isometric camera.
func NewCamera() *Camera {
	return &Camera{
		Angle:     math.Pi / 4,
		Distance:  20,
		Height:    10,
		ViewWidth: 40,
	}
}

// Eye returns the camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	a := float64(c.Angle)
	return mgl32.Vec3{
		c.Target[0] + c.Distance*float32(math.Cos(a)),
		c.Target[1] + c.Height,
		c.Target[2] + c.Distance*float32(math.Sin(a)),
	}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the orthographic projection for a viewport aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	w := c.ViewWidth
	h := w / aspect
	return mgl32.Ortho(-w/2, w/2, -h/2, h/2, 0.1, 100)
}

func (c *Camera) SetTarget(t mgl32.Vec3) { c.Target = t }

func (c *Camera) Rotate(delta float32) { c.Angle += delta }

// Zoom changes the orbit distance, clamped to [MinZoom, MaxZoom].
func (c *Camera) Zoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance+delta, MinZoom, MaxZoom)
}
