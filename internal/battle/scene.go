package battle

import (
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Message is a line of battle text shown until Expires.
type Message struct {
	Text    string
	Expires time.Duration
}

// Popup is a floating damage or heal number over a participant.
type Popup struct {
	Target  *Participant
	Amount  int
	Heal    bool
	Expires time.Duration
}

// Scene runs one fight between the player and an enemy. It is driven by
// Update from the host loop; now is monotonic time since any fixed origin.
type Scene struct {
	ID       uuid.UUID
	Player   *Participant
	Enemy    *Participant
	State    State
	Selected Action
	Timings  Timings
	Rules    Rules
	Turn     int

	// OnEnd is called once, when a terminal state's display delay expires.
	OnEnd  func(outcome State)
	Logger *log.Logger

	rng       Roller
	turnStart time.Duration
	endAt     time.Duration
	ended     bool
	messages  []Message
	popup     *Popup
}

// Option configures a Scene.
type Option func(*Scene)

func WithTimings(t Timings) Option { return func(s *Scene) { s.Timings = t } }
func WithRules(r Rules) Option     { return func(s *Scene) { s.Rules = r } }

func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.Logger = l
		}
	}
}

// WithOnEnd sets the end-of-fight callback.
func WithOnEnd(fn func(State)) Option { return func(s *Scene) { s.OnEnd = fn } }

// NewScene creates a fight. Call Start before the first Update.
func NewScene(player, enemy *Participant, rng Roller, opts ...Option) *Scene {
	s := &Scene{
		ID:      uuid.New(),
		Player:  player,
		Enemy:   enemy,
		State:   PlayerTurn,
		Timings: DefaultTimings(),
		Rules:   DefaultRules(),
		Logger:  log.New(io.Discard, "", 0),
		rng:     rng,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the fight on the player's turn.
func (s *Scene) Start(now time.Duration) {
	s.State = PlayerTurn
	s.Selected = Attack
	s.Turn = 1
	s.turnStart = now
	s.ended = false
	s.Player.Defending = false
	s.Enemy.Defending = false
	s.Logger.Printf("battle %s: %s (%d hp) vs %s (%d hp)", s.ID, s.Player.Name, s.Player.Health, s.Enemy.Name, s.Enemy.Health)
	s.say(now, "%s appears!", s.Enemy.Name)
}

// SelectNext moves the menu cursor right, wrapping.
func (s *Scene) SelectNext() { s.Selected = Action((int(s.Selected) + 1) % len(Actions)) }

// SelectPrev moves the menu cursor left, wrapping.
func (s *Scene) SelectPrev() {
	s.Selected = Action((int(s.Selected) + len(Actions) - 1) % len(Actions))
}

// Confirm resolves the selected action.
func (s *Scene) Confirm(now time.Duration) bool {
	return s.ResolvePlayerAction(s.Selected, now)
}

// ResolvePlayerAction performs a on the player's turn. It reports whether
// the action was accepted; actions outside PlayerTurn are ignored.
func (s *Scene) ResolvePlayerAction(a Action, now time.Duration) bool {
	if s.State != PlayerTurn {
		s.Logger.Printf("battle %s: %s ignored during %s", s.ID, a, s.State)
		return false
	}
	if !a.Valid() {
		s.Logger.Printf("battle %s: invalid action %d ignored", s.ID, int(a))
		return false
	}

	switch a {
	case Attack:
		s.strike(s.Player, s.Enemy, now)
		if !s.Enemy.Alive() {
			s.finish(Victory, now)
			return true
		}
	case Defend:
		s.Player.Defending = true
		s.say(now, "%s braces for the next blow.", s.Player.Name)
	case Item:
		s.heal(s.Player, now)
	case Escape:
		chance := EscapeChance(s.Player, s.Enemy, s.Rules)
		if s.rng.Intn(100) < chance {
			s.say(now, "%s got away!", s.Player.Name)
			s.finish(Escaped, now)
			return true
		}
		s.say(now, "Escape failed!")
	}

	s.State = EnemyTurn
	s.turnStart = now
	return true
}

// ResolveEnemyTurn lets the enemy act. Update calls it once the enemy
// delay has passed.
func (s *Scene) ResolveEnemyTurn(now time.Duration) bool {
	if s.State != EnemyTurn {
		return false
	}

	a := ChooseEnemyAction(s.Enemy, s.Player, s.rng)
	s.Logger.Printf("battle %s: turn %d enemy chooses %s", s.ID, s.Turn, a)
	switch a {
	case Defend:
		s.Enemy.Defending = true
		s.say(now, "%s takes a guarded stance.", s.Enemy.Name)
	case Item:
		s.heal(s.Enemy, now)
	default:
		s.strike(s.Enemy, s.Player, now)
		if !s.Player.Alive() {
			s.finish(Defeat, now)
			return true
		}
	}

	s.State = PlayerTurn
	s.Turn++
	s.turnStart = now
	return true
}

// Update advances timers: it runs the enemy turn after its delay, fires
// OnEnd after a terminal state's delay, and drops expired messages.
func (s *Scene) Update(now time.Duration) {
	s.expire(now)

	switch {
	case s.State == EnemyTurn:
		if now-s.turnStart >= s.Timings.EnemyDelay {
			s.ResolveEnemyTurn(now)
		}
	case s.State.Terminal():
		if !s.ended && now >= s.endAt {
			s.ended = true
			s.Logger.Printf("battle %s: ended with %s after %d turns", s.ID, s.State, s.Turn)
			if s.OnEnd != nil {
				s.OnEnd(s.State)
			}
		}
	}
}

// Ended reports whether OnEnd has fired.
func (s *Scene) Ended() bool { return s.ended }

// Messages returns a copy of the lines still on screen.
func (s *Scene) Messages() []Message { return slices.Clone(s.messages) }

// Popup returns the current damage number, if any.
func (s *Scene) Popup() (Popup, bool) {
	if s.popup == nil {
		return Popup{}, false
	}
	return *s.popup, true
}

func (s *Scene) strike(att, def *Participant, now time.Duration) {
	raw := ComputeDamage(att, def, s.Rules, s.rng)
	guarded := def.Defending
	dealt := def.TakeDamage(raw)
	s.popup = &Popup{Target: def, Amount: dealt, Expires: now + s.Timings.MessageDuration}
	if guarded {
		s.say(now, "%s hits %s for %d (blocked).", att.Name, def.Name, dealt)
	} else {
		s.say(now, "%s hits %s for %d.", att.Name, def.Name, dealt)
	}
}

func (s *Scene) heal(p *Participant, now time.Duration) {
	n := p.Heal(s.Rules.HealAmount)
	s.popup = &Popup{Target: p, Amount: n, Heal: true, Expires: now + s.Timings.MessageDuration}
	s.say(now, "%s recovers %d health.", p.Name, n)
}

// finish enters a terminal state. Terminal states are never re-entered.
func (s *Scene) finish(outcome State, now time.Duration) {
	if s.State.Terminal() {
		return
	}
	s.State = outcome
	s.endAt = now + s.Timings.exitDelay(outcome)
	switch outcome {
	case Victory:
		s.say(now, "%s is defeated!", s.Enemy.Name)
	case Defeat:
		s.say(now, "%s has fallen...", s.Player.Name)
	}
}

func (s *Scene) say(now time.Duration, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	s.messages = append(s.messages, Message{Text: text, Expires: now + s.Timings.MessageDuration})
	s.Logger.Printf("battle %s: %s", s.ID, text)
}

func (s *Scene) expire(now time.Duration) {
	var kept []Message
	for _, m := range s.messages {
		if now < m.Expires {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	if s.popup != nil && now >= s.popup.Expires {
		s.popup = nil
	}
}
