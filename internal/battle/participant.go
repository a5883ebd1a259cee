package battle

import "image"

// Participant is one side of a fight.
type Participant struct {
	Name      string
	MaxHealth int
	Health    int
	Attack    int
	Defense   int
	Speed     int
	Defending bool

	// Rect is where the participant is drawn on the battle screen.
	Rect image.Rectangle
}

// NewParticipant returns a participant at full health.
func NewParticipant(name string, maxHealth, attack, defense, speed int) *Participant {
	return &Participant{
		Name:      name,
		MaxHealth: maxHealth,
		Health:    maxHealth,
		Attack:    attack,
		Defense:   defense,
		Speed:     speed,
	}
}

// TakeDamage applies n damage and returns the amount actually dealt.
// A defending participant takes half (at least 1) and stops defending.
func (p *Participant) TakeDamage(n int) int {
	if n < 0 {
		n = 0
	}
	if p.Defending {
		n = max(1, n/2)
		p.Defending = false
	}
	p.setHealth(p.Health - n)
	return n
}

// Heal restores up to n health and returns the amount restored.
func (p *Participant) Heal(n int) int {
	before := p.Health
	p.setHealth(p.Health + max(n, 0))
	return p.Health - before
}

func (p *Participant) setHealth(h int) {
	p.Health = min(max(h, 0), p.MaxHealth)
}

func (p *Participant) Alive() bool { return p.Health > 0 }

// HealthRatio returns health as a fraction of MaxHealth for health bars.
func (p *Participant) HealthRatio() float64 {
	if p.MaxHealth <= 0 {
		return 0
	}
	return float64(p.Health) / float64(p.MaxHealth)
}

// Reset restores full health and clears the defending flag.
func (p *Participant) Reset() {
	p.Health = p.MaxHealth
	p.Defending = false
}

// Clone returns a copy for starting a fight from a template.
func (p *Participant) Clone() *Participant {
	c := *p
	return &c
}
