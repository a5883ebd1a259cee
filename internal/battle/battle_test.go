package battle

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

// scriptRoller returns queued values modulo n, repeating the last one.
type scriptRoller struct {
	values []int
	calls  int
}

func (r *scriptRoller) Intn(n int) int {
	v := 0
	if len(r.values) > 0 {
		i := min(r.calls, len(r.values)-1)
		v = r.values[i]
	}
	r.calls++
	return v % n
}

func rolls(v ...int) *scriptRoller { return &scriptRoller{values: v} }

const ms = time.Millisecond

func hero() *Participant  { return NewParticipant("Holmes", 100, 25, 10, 20) }
func ghoul() *Participant { return NewParticipant("Ghoul", 80, 18, 12, 10) }

func TestTakeDamageDefending(t *testing.T) {
	p := hero()
	p.Defending = true
	if got := p.TakeDamage(20); got != 10 {
		t.Errorf("dealt = %d, want 10", got)
	}
	if p.Health != 90 {
		t.Errorf("health = %d, want 90", p.Health)
	}
	if p.Defending {
		t.Error("defending flag not cleared")
	}
	p.TakeDamage(20)
	if p.Health != 70 {
		t.Errorf("second hit health = %d, want 70", p.Health)
	}

	p.Defending = true
	if got := p.TakeDamage(1); got != 1 {
		t.Errorf("halved 1 = %d, want 1", got)
	}
}

func TestHealthClamped(t *testing.T) {
	p := hero()
	p.TakeDamage(500)
	if p.Health != 0 || p.Alive() {
		t.Errorf("health = %d", p.Health)
	}
	p.Health = 90
	if n := p.Heal(30); n != 10 || p.Health != 100 {
		t.Errorf("heal = %d, health = %d", n, p.Health)
	}
	if r := p.HealthRatio(); r != 1 {
		t.Errorf("ratio = %v", r)
	}
}

func TestComputeDamageRange(t *testing.T) {
	att := NewParticipant("a", 100, 25, 0, 0)
	def := NewParticipant("d", 100, 0, 12, 0)
	rules := DefaultRules()
	for i := 0; i <= 10; i++ {
		got := ComputeDamage(att, def, rules, rolls(i))
		want := max(5, 25+(i-5)-6)
		if got != want {
			t.Errorf("offset %d: damage = %d, want %d", i-5, got, want)
		}
		if got < 5 || got > 24 {
			t.Errorf("offset %d: damage %d outside [5,24]", i-5, got)
		}
	}

	weak := NewParticipant("w", 100, 1, 0, 0)
	if got := ComputeDamage(weak, def, rules, rolls(0)); got != 5 {
		t.Errorf("floor damage = %d, want 5", got)
	}
}

func TestEscapeProbability(t *testing.T) {
	player := NewParticipant("p", 100, 10, 10, 20)
	enemy := NewParticipant("e", 100, 10, 10, 10)
	escaped := 0
	for roll := 0; roll < 100; roll++ {
		s := NewScene(player.Clone(), enemy.Clone(), rolls(roll))
		s.Start(0)
		s.ResolvePlayerAction(Escape, 0)
		switch s.State {
		case Escaped:
			escaped++
		case EnemyTurn:
		default:
			t.Fatalf("roll %d: state %s", roll, s.State)
		}
	}
	if escaped != 60 {
		t.Errorf("escaped %d/100, want 60", escaped)
	}
}

func TestEscapeFailedNotifies(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(99))
	s.Start(0)
	s.ResolvePlayerAction(Escape, 10*ms)
	if s.State != EnemyTurn {
		t.Fatalf("state = %s", s.State)
	}
	found := false
	for _, m := range s.Messages() {
		if strings.Contains(strings.ToLower(m.Text), "escape failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("messages = %+v", s.Messages())
	}
}

func TestLethalAttackEndsOnce(t *testing.T) {
	enemy := ghoul()
	enemy.Health = 1
	calls := 0
	var outcome State
	s := NewScene(hero(), enemy, rolls(5), WithOnEnd(func(o State) {
		calls++
		outcome = o
	}))
	s.Start(0)
	if s.State != PlayerTurn {
		t.Fatalf("initial state = %s", s.State)
	}

	s.ResolvePlayerAction(Attack, 100*ms)
	if s.State != Victory {
		t.Fatalf("state = %s, want Victory", s.State)
	}
	if s.Enemy.Health != 0 {
		t.Errorf("enemy health = %d", s.Enemy.Health)
	}

	for _, now := range []time.Duration{200 * ms, 1000 * ms, 2099 * ms} {
		s.Update(now)
		if calls != 0 {
			t.Fatalf("OnEnd fired early at %v", now)
		}
	}
	s.Update(2100 * ms)
	s.Update(2200 * ms)
	s.Update(10 * time.Second)
	if calls != 1 {
		t.Fatalf("OnEnd calls = %d, want 1", calls)
	}
	if outcome != Victory || !s.Ended() {
		t.Errorf("outcome = %s", outcome)
	}

	if s.ResolvePlayerAction(Attack, 11*time.Second) {
		t.Error("action accepted after the fight ended")
	}
	if s.State != Victory {
		t.Errorf("terminal state changed to %s", s.State)
	}
}

func TestEscapedExitDelay(t *testing.T) {
	calls := 0
	s := NewScene(hero(), ghoul(), rolls(0), WithOnEnd(func(State) { calls++ }))
	s.Start(0)
	s.ResolvePlayerAction(Escape, 0)
	s.Update(1499 * ms)
	if calls != 0 {
		t.Fatal("ended before 1500ms")
	}
	s.Update(1500 * ms)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestEnemyDelayGate(t *testing.T) {
	// Rolls: enemy AI falls through to roll%4 == 0, an attack with offset 0.
	s := NewScene(hero(), ghoul(), rolls(0, 5))
	s.Start(0)
	s.ResolvePlayerAction(Defend, 0)
	if s.State != EnemyTurn {
		t.Fatalf("state = %s", s.State)
	}
	s.Update(999 * ms)
	if s.State != EnemyTurn {
		t.Fatalf("enemy acted before the delay: %s", s.State)
	}
	s.Update(1000 * ms)
	if s.State != PlayerTurn {
		t.Fatalf("state after delay = %s", s.State)
	}
	if s.Turn != 2 {
		t.Errorf("turn = %d", s.Turn)
	}
	// 18 + 0 - 10/2 = 13, halved by the defend.
	if s.Player.Health != 100-6 {
		t.Errorf("player health = %d, want 94", s.Player.Health)
	}
	if s.Player.Defending {
		t.Error("player still defending after absorbing a hit")
	}
	if p, ok := s.Popup(); !ok || p.Target != s.Player || p.Amount != 6 {
		t.Errorf("popup = %+v %v", p, ok)
	}
}

func TestEnemyDefeatsPlayer(t *testing.T) {
	player := hero()
	player.Health = 3
	calls := 0
	s := NewScene(player, ghoul(), rolls(0, 0, 5), WithOnEnd(func(o State) {
		calls++
		if o != Defeat {
			t.Errorf("outcome = %s", o)
		}
	}))
	s.Start(0)
	s.ResolvePlayerAction(Item, 0)
	if s.Player.Health != 33 {
		t.Fatalf("health after item = %d", s.Player.Health)
	}
	s.Player.Health = 3
	s.Update(time.Second)
	if s.State != Defeat {
		t.Fatalf("state = %s, want Defeat", s.State)
	}
	s.Update(3 * time.Second)
	if calls != 1 {
		t.Errorf("calls = %d", calls)
	}
}

func TestChooseEnemyAction(t *testing.T) {
	tests := []struct {
		name     string
		selfHP   int
		oppHP    int
		rolls    []int
		want     Action
		consumed int
	}{
		{"hurt defends", 20, 100, []int{39}, Defend, 1},
		{"hurt unlucky random", 20, 100, []int{40, 2}, Item, 2},
		{"finisher", 100, 49, []int{59}, Attack, 1},
		{"finisher missed", 100, 49, []int{60, 1}, Defend, 2},
		{"both checks", 20, 10, []int{99, 10}, Attack, 2},
		{"random attack", 100, 100, []int{0}, Attack, 1},
		{"random defend", 100, 100, []int{1}, Defend, 1},
		{"random item", 100, 100, []int{2}, Item, 1},
		{"random escape attacks", 100, 100, []int{3}, Attack, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			self := NewParticipant("e", 100, 10, 10, 10)
			self.Health = tt.selfHP
			opp := NewParticipant("p", 100, 10, 10, 10)
			opp.Health = tt.oppHP
			r := rolls(tt.rolls...)
			if got := ChooseEnemyAction(self, opp, r); got != tt.want {
				t.Errorf("action = %s, want %s", got, tt.want)
			}
			if r.calls != tt.consumed {
				t.Errorf("rolls consumed = %d, want %d", r.calls, tt.consumed)
			}
		})
	}
}

func TestEnemyNeverEscapes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	self := ghoul()
	opp := hero()
	for i := 0; i < 1000; i++ {
		if a := ChooseEnemyAction(self, opp, rng); a == Escape {
			t.Fatal("enemy chose Escape")
		}
	}
}

func TestItemClamp(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(1))
	s.Start(0)
	s.Player.Health = 90
	s.ResolvePlayerAction(Item, 0)
	if s.Player.Health != 100 {
		t.Errorf("health = %d, want 100", s.Player.Health)
	}
	if p, ok := s.Popup(); !ok || !p.Heal || p.Amount != 10 {
		t.Errorf("popup = %+v", p)
	}
}

func TestDefendingEnemyHalvesPlayerAttack(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(5))
	s.Start(0)
	s.Enemy.Defending = true
	s.ResolvePlayerAction(Attack, 0)
	// 25 + 0 - 12/2 = 19, halved to 9.
	if s.Enemy.Health != 80-9 {
		t.Errorf("enemy health = %d, want 71", s.Enemy.Health)
	}
	if s.Enemy.Defending {
		t.Error("enemy defending flag not cleared")
	}
}

func TestActionsOutsidePlayerTurnIgnored(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(1))
	s.Start(0)
	s.ResolvePlayerAction(Defend, 0)
	if s.ResolvePlayerAction(Attack, 10*ms) {
		t.Error("attack accepted during EnemyTurn")
	}
	if s.Enemy.Health != 80 {
		t.Errorf("enemy health = %d", s.Enemy.Health)
	}
	s.ResolveEnemyTurn(0)
	if s.State != PlayerTurn {
		t.Fatalf("state = %s", s.State)
	}
	if s.ResolveEnemyTurn(0) {
		t.Error("enemy turn resolved twice")
	}
	if s.ResolvePlayerAction(Action(9), 0) {
		t.Error("invalid action accepted")
	}
}

func TestSelection(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(0))
	s.Start(0)
	s.SelectPrev()
	if s.Selected != Escape {
		t.Errorf("wrapped left to %s", s.Selected)
	}
	s.SelectNext()
	s.SelectNext()
	if s.Selected != Defend {
		t.Errorf("selected = %s", s.Selected)
	}
	if !s.Confirm(0) || !s.Player.Defending {
		t.Error("confirm did not defend")
	}
}

func TestMessagesExpire(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(1))
	s.Start(0)
	if len(s.Messages()) == 0 {
		t.Fatal("no intro message")
	}
	s.Update(1500 * ms)
	if len(s.Messages()) != 0 {
		t.Errorf("messages after expiry = %+v", s.Messages())
	}
}

func TestMessagesSnapshotSurvivesUpdate(t *testing.T) {
	s := NewScene(hero(), ghoul(), rolls(1))
	s.Start(0)
	s.ResolvePlayerAction(Defend, 500*ms)
	held := s.Messages()
	if len(held) != 2 {
		t.Fatalf("messages = %+v", held)
	}
	first := held[0].Text

	s.Update(1600 * ms)
	if held[0].Text != first {
		t.Errorf("held[0] = %q after Update, want %q", held[0].Text, first)
	}
	if cur := s.Messages(); len(cur) == 0 || cur[0].Text == first {
		t.Errorf("current messages = %+v, intro should have expired", cur)
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(" " + strings.ToLower(a.String()))
		if err != nil || got != a {
			t.Errorf("ParseAction(%s) = %v, %v", a, got, err)
		}
	}
	if _, err := ParseAction("flee"); err == nil {
		t.Error("expected an error for an unknown action")
	}
}
