package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"thames-engine/internal/battle"
)

// Config holds paths, preview render settings, combat tuning and scene
// movement values.
type Config struct {
	Paths  PathsConfig  `yaml:"paths"`
	Render RenderConfig `yaml:"render"`
	Battle BattleConfig `yaml:"battle"`
	Scene  SceneConfig  `yaml:"scene"`
}

type PathsConfig struct {
	BaseDir     string   `yaml:"base_dir"`
	ModelDir    string   `yaml:"model_dir"`
	TextureDirs []string `yaml:"texture_dirs"`
	PlayerModel string   `yaml:"player_model"`
	EnemyModel  string   `yaml:"enemy_model"`
	OutputDir   string   `yaml:"output_dir"`
}

// RenderConfig controls preview output. Previews are lossless WebP.
type RenderConfig struct {
	Size        int `yaml:"size"`
	Supersample int `yaml:"supersample"`
	Workers     int `yaml:"workers"`
}

type BattleConfig struct {
	Seed    int64          `yaml:"seed"`
	Timings battle.Timings `yaml:"timings"`
	Rules   battle.Rules   `yaml:"rules"`
	Player  Stats          `yaml:"player"`
	Enemy   Stats          `yaml:"enemy"`
}

// Stats is a participant preset. Attack, Defense and Speed are pointers so
// that an explicit 0 in the file is kept; nil means unset.
type Stats struct {
	Name      string `yaml:"name"`
	MaxHealth int    `yaml:"max_health"`
	Attack    *int   `yaml:"attack"`
	Defense   *int   `yaml:"defense"`
	Speed     *int   `yaml:"speed"`
}

// Participant builds a full-health participant from the preset.
func (s Stats) Participant() *battle.Participant {
	return battle.NewParticipant(s.Name, s.MaxHealth, deref(s.Attack), deref(s.Defense), deref(s.Speed))
}

func intp(v int) *int { return &v }

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

type SceneConfig struct {
	PlayerScale     float32    `yaml:"player_scale"`
	PlayerSpeed     float32    `yaml:"player_speed"`
	TurnSpeed       float32    `yaml:"turn_speed"`
	CameraSpeed     float32    `yaml:"camera_speed"`
	CameraDistance  float32    `yaml:"camera_distance"`
	EncounterRadius float32    `yaml:"encounter_radius"`
	EnemyPosition   [3]float32 `yaml:"enemy_position"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	OutputDir string
	Model     string
	Workers   int
	Seed      int64
}

// Load reads a YAML config file. Fields not set in the file keep their
// zero values until Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load that treats an empty path or a missing file as an
// empty config.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.BaseDir != "" {
		c.Paths.BaseDir = flags.BaseDir
	}
	if flags.OutputDir != "" {
		c.Paths.OutputDir = flags.OutputDir
	}
	if flags.Model != "" {
		c.Paths.PlayerModel = flags.Model
	}
	if flags.Workers > 0 {
		c.Render.Workers = flags.Workers
	}
	if flags.Seed != 0 {
		c.Battle.Seed = flags.Seed
	}

	c.resolvePaths()
	c.resolveRender()
	c.resolveBattle()
	c.resolveScene()
}

func (c *Config) resolvePaths() {
	p := &c.Paths
	if p.BaseDir == "" {
		p.BaseDir = detectBaseDir()
	}
	p.ModelDir = underBase(p.BaseDir, p.ModelDir, "models")
	p.OutputDir = underBase(p.BaseDir, p.OutputDir, "previews")
	if len(p.TextureDirs) == 0 {
		p.TextureDirs = []string{"textures"}
	}
	for i, d := range p.TextureDirs {
		p.TextureDirs[i] = underBase(p.BaseDir, d, "textures")
	}
	if p.PlayerModel == "" {
		p.PlayerModel = "character2"
	}
	if p.EnemyModel == "" {
		p.EnemyModel = "ghoul"
	}
}

// underBase resolves dir against base, using def when dir is empty.
func underBase(base, dir, def string) string {
	if dir == "" {
		dir = def
	}
	if filepath.IsAbs(dir) || base == "" {
		return dir
	}
	return filepath.Join(base, dir)
}

func (c *Config) resolveRender() {
	r := &c.Render
	if r.Size <= 0 {
		r.Size = 256
	}
	if r.Supersample <= 0 {
		r.Supersample = 2
	}
	if r.Workers <= 0 {
		r.Workers = runtime.NumCPU()
	}
}

func (c *Config) resolveBattle() {
	b := &c.Battle
	dt := battle.DefaultTimings()
	if b.Timings.EnemyDelay <= 0 {
		b.Timings.EnemyDelay = dt.EnemyDelay
	}
	if b.Timings.VictoryDelay <= 0 {
		b.Timings.VictoryDelay = dt.VictoryDelay
	}
	if b.Timings.DefeatDelay <= 0 {
		b.Timings.DefeatDelay = dt.DefeatDelay
	}
	if b.Timings.EscapeDelay <= 0 {
		b.Timings.EscapeDelay = dt.EscapeDelay
	}
	if b.Timings.MessageDuration <= 0 {
		b.Timings.MessageDuration = dt.MessageDuration
	}

	dr := battle.DefaultRules()
	if b.Rules.HealAmount <= 0 {
		b.Rules.HealAmount = dr.HealAmount
	}
	if b.Rules.MinDamage <= 0 {
		b.Rules.MinDamage = dr.MinDamage
	}
	if b.Rules.Spread <= 0 {
		b.Rules.Spread = dr.Spread
	}
	if b.Rules.EscapeBase <= 0 {
		b.Rules.EscapeBase = dr.EscapeBase
	}

	b.Player.fill(Stats{Name: "Inspector", MaxHealth: 100, Attack: intp(25), Defense: intp(10), Speed: intp(20)})
	b.Enemy.fill(Stats{Name: "Thames Ghoul", MaxHealth: 80, Attack: intp(18), Defense: intp(12), Speed: intp(10)})
}

func (s *Stats) fill(def Stats) {
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.MaxHealth <= 0 {
		s.MaxHealth = def.MaxHealth
	}
	if s.Attack == nil {
		s.Attack = def.Attack
	}
	if s.Defense == nil {
		s.Defense = def.Defense
	}
	if s.Speed == nil {
		s.Speed = def.Speed
	}
}

func (c *Config) resolveScene() {
	s := &c.Scene
	if s.PlayerScale <= 0 {
		s.PlayerScale = 1
	}
	if s.PlayerSpeed <= 0 {
		s.PlayerSpeed = 10
	}
	if s.TurnSpeed <= 0 {
		s.TurnSpeed = 10
	}
	if s.CameraSpeed <= 0 {
		s.CameraSpeed = 3
	}
	if s.CameraDistance <= 0 {
		s.CameraDistance = 20
	}
	if s.EncounterRadius <= 0 {
		s.EncounterRadius = 2
	}
	if s.EnemyPosition == [3]float32{} {
		s.EnemyPosition = [3]float32{-12, 0, -12}
	}
}

func detectBaseDir() string {
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if isDir(filepath.Join(base, "assets")) {
				return filepath.Join(base, "assets")
			}
		}
	}

	cwd, _ := os.Getwd()
	if isDir(filepath.Join(cwd, "assets")) {
		return filepath.Join(cwd, "assets")
	}
	return cwd
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
