package session

// Key is a logical input the session reacts to.
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyRotateLeft
	KeyRotateRight
	KeyZoomIn
	KeyZoomOut
	KeyReset
	KeyMenuLeft
	KeyMenuRight
	KeyConfirm
)

// Input reports key state for the current tick. Held is level-triggered,
// Pressed is true only on the tick the key went down.
type Input interface {
	Held(k Key) bool
	Pressed(k Key) bool
}

// Keys is a fixed Input for headless drivers and tests.
type Keys struct {
	held    uint32
	pressed uint32
}

func (k *Keys) Hold(keys ...Key) {
	for _, key := range keys {
		k.held |= 1 << key
	}
}

func (k *Keys) Press(keys ...Key) {
	for _, key := range keys {
		k.pressed |= 1 << key
	}
}

// Release lets go of held keys.
func (k *Keys) Release(keys ...Key) {
	for _, key := range keys {
		k.held &^= 1 << key
	}
}

// EndTick clears presses; held keys stay down.
func (k *Keys) EndTick() { k.pressed = 0 }

func (k Keys) Held(key Key) bool    { return k.held&(1<<key) != 0 }
func (k Keys) Pressed(key Key) bool { return k.pressed&(1<<key) != 0 }
