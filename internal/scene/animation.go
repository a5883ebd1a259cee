package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WalkCycle is a procedural walk: a step bounce, a side sway and a slight
// lean, expressed as offsets from the model's resting transform.
type WalkCycle struct {
	CycleTime float32 // seconds per full stride
	Height    float32
	Sway      float32
	Bob       float32

	t       float32
	walking bool
}

// NewWalkCycle returns a cycle with the default stride.
func NewWalkCycle() *WalkCycle {
	return &WalkCycle{CycleTime: 1, Height: 0.2, Sway: 0.1, Bob: 0.05}
}

// Start begins a stride from phase zero. Calling it while walking is a no-op.
func (w *WalkCycle) Start() {
	if w.walking {
		return
	}
	w.walking = true
	w.t = 0
}

// Stop freezes the cycle; offsets return to zero.
func (w *WalkCycle) Stop() { w.walking = false }

// Walking reports whether the cycle is running.
func (w *WalkCycle) Walking() bool { return w.walking }

// Phase returns the elapsed time within the current stride.
func (w *WalkCycle) Phase() float32 { return w.t }

// Step advances the cycle, wrapping at CycleTime.
func (w *WalkCycle) Step(dt float32) {
	if !w.walking || w.CycleTime <= 0 {
		return
	}
	w.t += dt
	for w.t > w.CycleTime {
		w.t -= w.CycleTime
	}
}

// Offsets returns the position and rotation offsets for the current phase.
func (w *WalkCycle) Offsets() (pos, rot mgl32.Vec3) {
	if !w.walking || w.CycleTime <= 0 {
		return
	}
	a := float64(w.t / w.CycleTime * 2 * math.Pi)
	bob := float32(math.Sin(2*a)) * w.Bob
	sway := float32(math.Sin(a)) * w.Sway
	step := (float32(math.Sin(a)) + 1) * 0.5 * w.Height

	pos = mgl32.Vec3{sway, bob + step, 0}
	rot = mgl32.Vec3{float32(math.Sin(2*a)) * 0.1, 0, sway * 5}
	return pos, rot
}
