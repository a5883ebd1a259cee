package session

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"thames-engine/internal/battle"
	"thames-engine/internal/config"
	"thames-engine/internal/scene"
	"thames-engine/internal/texture"
)

// Mode is what the session is currently doing.
type Mode int

const (
	Exploration Mode = iota
	Battle
)

func (m Mode) String() string {
	if m == Battle {
		return "battle"
	}
	return "exploration"
}

// facingCamera is the initial yaw: the player looks toward the camera.
const facingCamera = math.Pi

// GameSession owns everything one play-through needs. The host creates one
// and calls Update from its loop.
type GameSession struct {
	ID     uuid.UUID
	Mode   Mode
	Player *scene.Model
	Enemy  *scene.Model // nil once defeated
	Hero   *battle.Participant
	Battle *battle.Scene
	Camera *scene.Camera
	Config config.Config
	Logger *log.Logger

	alloc   scene.Allocator
	rng     battle.Roller
	heading float32
	spawn   mgl32.Vec3
	fights  int
}

// Option configures a GameSession.
type Option func(*GameSession)

// WithRoller replaces the seeded combat random source.
func WithRoller(r battle.Roller) Option { return func(s *GameSession) { s.rng = r } }

func WithLogger(l *log.Logger) Option {
	return func(s *GameSession) {
		if l != nil {
			s.Logger = l
		}
	}
}

// New loads the player and enemy models and places them. cfg must be resolved.
func New(cfg config.Config, alloc scene.Allocator, opts ...Option) (*GameSession, error) {
	s := &GameSession{
		ID:      uuid.New(),
		Mode:    Exploration,
		Hero:    cfg.Battle.Player.Participant(),
		Camera:  scene.NewCamera(),
		Config:  cfg,
		Logger:  log.New(io.Discard, "", 0),
		alloc:   alloc,
		heading: facingCamera,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := cfg.Battle.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}

	dirs := append([]string{cfg.Paths.ModelDir}, cfg.Paths.TextureDirs...)
	finder := texture.NewFinder(dirs...)

	var err error
	if s.Player, err = scene.LoadModel(alloc, finder, cfg.Paths.PlayerModel); err != nil {
		return nil, fmt.Errorf("session: load player: %w", err)
	}
	if s.Enemy, err = scene.LoadModel(alloc, finder, cfg.Paths.EnemyModel); err != nil {
		s.Player.Release()
		return nil, fmt.Errorf("session: load enemy: %w", err)
	}

	sc := cfg.Scene.PlayerScale
	s.Player.SetScale(mgl32.Vec3{sc, sc, sc})
	s.Player.SetRotation(mgl32.Vec3{0, s.heading, 0})
	walk := scene.NewWalkCycle()
	walk.CycleTime, walk.Height, walk.Sway, walk.Bob = 0.8, 0.15, 0.08, 0.05
	s.Player.Animation = walk

	s.Enemy.SetPosition(mgl32.Vec3(cfg.Scene.EnemyPosition))
	s.Enemy.SetScale(mgl32.Vec3{sc, sc, sc})

	s.Camera.Distance = cfg.Scene.CameraDistance
	s.Camera.SetTarget(s.Player.Position)

	s.Logger.Printf("session %s: player %s (placeholder=%v), enemy %s (placeholder=%v)",
		s.ID, s.Player.Name, s.Player.Placeholder, s.Enemy.Name, s.Enemy.Placeholder)
	return s, nil
}

// Update advances the session by one tick. now is monotonic time, dt the
// tick length in seconds.
func (s *GameSession) Update(now time.Duration, dt float32, in Input) {
	switch s.Mode {
	case Exploration:
		s.explore(now, dt, in)
	case Battle:
		s.fight(now, in)
	}
	s.Player.Update(dt)
}

func (s *GameSession) explore(now time.Duration, dt float32, in Input) {
	cfg := s.Config.Scene
	step := cfg.PlayerSpeed * dt

	// Screen-relative directions on the isometric grid.
	var move mgl32.Vec3
	dirX, dirZ := 0, 0
	moving := false
	if in.Held(KeyForward) {
		move = move.Add(mgl32.Vec3{-step, 0, -step})
		dirZ--
		moving = true
	}
	if in.Held(KeyBack) {
		move = move.Add(mgl32.Vec3{step, 0, step})
		dirZ++
		moving = true
	}
	if in.Held(KeyLeft) {
		move = move.Add(mgl32.Vec3{step, 0, -step})
		dirX--
		moving = true
	}
	if in.Held(KeyRight) {
		move = move.Add(mgl32.Vec3{-step, 0, step})
		dirX++
		moving = true
	}

	if moving {
		s.Player.Move(move)
		s.Player.Animation.Start()
		if dirX != 0 || dirZ != 0 {
			target := float32(math.Atan2(float64(dirZ), float64(dirX)))
			s.heading += wrapAngle(target-s.heading) * min(cfg.TurnSpeed*dt, 1)
			s.Player.SetRotation(mgl32.Vec3{0, s.heading, 0})
		}
	} else {
		s.Player.Animation.Stop()
	}

	if in.Held(KeyRotateLeft) {
		s.Camera.Rotate(-cfg.CameraSpeed * dt)
	}
	if in.Held(KeyRotateRight) {
		s.Camera.Rotate(cfg.CameraSpeed * dt)
	}
	if in.Held(KeyZoomIn) {
		s.Camera.Zoom(-cfg.PlayerSpeed * dt)
	}
	if in.Held(KeyZoomOut) {
		s.Camera.Zoom(cfg.PlayerSpeed * dt)
	}
	if in.Pressed(KeyReset) {
		s.resetPlayer()
		s.Logger.Printf("session %s: position reset", s.ID)
	}

	s.Camera.SetTarget(s.Player.Position)

	if s.Enemy != nil && planarDistance(s.Player.Position, s.Enemy.Position) <= cfg.EncounterRadius {
		s.startBattle(now)
	}
}

func (s *GameSession) fight(now time.Duration, in Input) {
	b := s.Battle
	if in.Pressed(KeyMenuLeft) {
		b.SelectPrev()
	}
	if in.Pressed(KeyMenuRight) {
		b.SelectNext()
	}
	if in.Pressed(KeyConfirm) {
		b.Confirm(now)
	}
	b.Update(now)
}

func (s *GameSession) startBattle(now time.Duration) {
	s.fights++
	s.Player.Animation.Stop()
	foe := s.Config.Battle.Enemy.Participant()
	s.Battle = battle.NewScene(s.Hero, foe, s.rng,
		battle.WithTimings(s.Config.Battle.Timings),
		battle.WithRules(s.Config.Battle.Rules),
		battle.WithLogger(s.Logger),
		battle.WithOnEnd(s.endBattle),
	)
	s.Mode = Battle
	s.Battle.Start(now)
	s.Logger.Printf("session %s: encounter %d with %s", s.ID, s.fights, foe.Name)
}

func (s *GameSession) endBattle(outcome battle.State) {
	s.Logger.Printf("session %s: battle over: %s", s.ID, outcome)
	switch outcome {
	case battle.Victory:
		s.Enemy.Release()
		s.Enemy = nil
	case battle.Escaped:
		s.pushBack()
	case battle.Defeat:
		s.Hero.Reset()
		s.resetPlayer()
	}
	s.Hero.Defending = false
	s.Battle = nil
	s.Mode = Exploration
}

// pushBack moves the player out of encounter range, away from the enemy.
func (s *GameSession) pushBack() {
	away := s.Player.Position.Sub(s.Enemy.Position)
	away[1] = 0
	if away.Len() < 1e-4 {
		away = mgl32.Vec3{1, 0, 1}
	}
	dist := s.Config.Scene.EncounterRadius * 2
	s.Player.SetPosition(s.Enemy.Position.Add(away.Normalize().Mul(dist)))
	s.Camera.SetTarget(s.Player.Position)
}

func (s *GameSession) resetPlayer() {
	s.heading = facingCamera
	s.Player.SetPosition(s.spawn)
	s.Player.SetRotation(mgl32.Vec3{0, s.heading, 0})
	s.Camera.SetTarget(s.Player.Position)
}

// Release frees every model the session still owns.
func (s *GameSession) Release() {
	s.Player.Release()
	if s.Enemy != nil {
		s.Enemy.Release()
	}
}

func planarDistance(a, b mgl32.Vec3) float32 {
	dx, dz := a[0]-b[0], a[2]-b[2]
	return float32(math.Sqrt(float64(dx*dx + dz*dz)))
}

// wrapAngle maps a to [-π, π].
func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
