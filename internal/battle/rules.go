package battle

import (
	"fmt"
	"strings"
	"time"
)

// Action is a combat command.
type Action int

const (
	Attack Action = iota
	Defend
	Item
	Escape
)

// Actions lists the commands in menu order.
var Actions = []Action{Attack, Defend, Item, Escape}

func (a Action) String() string {
	switch a {
	case Attack:
		return "Attack"
	case Defend:
		return "Defend"
	case Item:
		return "Item"
	case Escape:
		return "Escape"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Valid reports whether a is one of Actions.
func (a Action) Valid() bool { return a >= Attack && a <= Escape }

// ParseAction maps a case-insensitive action name to its Action.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions {
		if strings.EqualFold(strings.TrimSpace(name), a.String()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("battle: unknown action %q", name)
}

// State is the phase of a fight.
type State int

const (
	PlayerTurn State = iota
	EnemyTurn
	Victory
	Defeat
	Escaped
)

func (s State) String() string {
	switch s {
	case PlayerTurn:
		return "PlayerTurn"
	case EnemyTurn:
		return "EnemyTurn"
	case Victory:
		return "Victory"
	case Defeat:
		return "Defeat"
	case Escaped:
		return "Escaped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the fight is over.
func (s State) Terminal() bool { return s == Victory || s == Defeat || s == Escaped }

// Roller is the random source for combat rolls. *rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
}

// Timings gate the timed transitions.
type Timings struct {
	EnemyDelay      time.Duration `yaml:"enemy_delay"`
	VictoryDelay    time.Duration `yaml:"victory_delay"`
	DefeatDelay     time.Duration `yaml:"defeat_delay"`
	EscapeDelay     time.Duration `yaml:"escape_delay"`
	MessageDuration time.Duration `yaml:"message_duration"`
}

// DefaultTimings returns the standard pacing.
func DefaultTimings() Timings {
	return Timings{
		EnemyDelay:      1000 * time.Millisecond,
		VictoryDelay:    2000 * time.Millisecond,
		DefeatDelay:     2000 * time.Millisecond,
		EscapeDelay:     1500 * time.Millisecond,
		MessageDuration: 1500 * time.Millisecond,
	}
}

// exitDelay is how long a terminal state stays on screen.
func (t Timings) exitDelay(s State) time.Duration {
	switch s {
	case Victory:
		return t.VictoryDelay
	case Defeat:
		return t.DefeatDelay
	case Escaped:
		return t.EscapeDelay
	}
	return 0
}

// Rules are the combat constants.
type Rules struct {
	HealAmount int `yaml:"heal_amount"`
	MinDamage  int `yaml:"min_damage"`
	Spread     int `yaml:"spread"`
	EscapeBase int `yaml:"escape_base"`
}

// DefaultRules returns the standard combat constants.
func DefaultRules() Rules {
	return Rules{HealAmount: 30, MinDamage: 5, Spread: 5, EscapeBase: 50}
}

// ComputeDamage rolls an attack from att against def:
// max(MinDamage, attack + uniform[-Spread, Spread] - defense/2).
// The defending halving is applied later by TakeDamage.
func ComputeDamage(att, def *Participant, rules Rules, rng Roller) int {
	offset := rng.Intn(2*rules.Spread+1) - rules.Spread
	return max(rules.MinDamage, att.Attack+offset-def.Defense/2)
}

// EscapeChance is the percent chance that self gets away from opp.
func EscapeChance(self, opp *Participant, rules Rules) int {
	return rules.EscapeBase + self.Speed - opp.Speed
}

// ChooseEnemyAction picks the enemy's move. A badly hurt enemy tends to
// defend, a nearly beaten opponent tends to get attacked, and otherwise the
// choice is a random menu entry where only Defend and Item are taken
// literally; everything else attacks.
func ChooseEnemyAction(self, opp *Participant, rng Roller) Action {
	if self.Health < 30 && rng.Intn(100) < 40 {
		return Defend
	}
	if opp.Health < 50 && rng.Intn(100) < 60 {
		return Attack
	}
	switch Action(rng.Intn(4)) {
	case Defend:
		return Defend
	case Item:
		return Item
	}
	return Attack
}
