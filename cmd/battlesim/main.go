package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"thames-engine/internal/battle"
	"thames-engine/internal/config"
)

const tick = 16 * time.Millisecond

func main() {
	configFile := flag.String("config", "", "Path to config.yaml")
	seed := flag.Int64("seed", 0, "RNG seed (default: config value, else time)")
	script := flag.String("script", "", "Comma-separated player actions, e.g. attack,defend,item (default: attack)")
	maxTime := flag.Duration("max", 5*time.Minute, "Stop after this much simulated time")
	flag.Parse()

	cfg, err := config.LoadOptional(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Resolve(config.Flags{Seed: *seed})

	var plan []battle.Action
	if *script != "" {
		for _, name := range strings.Split(*script, ",") {
			a, err := battle.ParseAction(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			plan = append(plan, a)
		}
	}

	s := cfg.Battle.Seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	var outcome battle.State
	fight := battle.NewScene(
		cfg.Battle.Player.Participant(),
		cfg.Battle.Enemy.Participant(),
		rand.New(rand.NewSource(s)),
		battle.WithTimings(cfg.Battle.Timings),
		battle.WithRules(cfg.Battle.Rules),
		battle.WithLogger(log.New(os.Stdout, "[battle] ", 0)),
		battle.WithOnEnd(func(st battle.State) { outcome = st }),
	)

	fmt.Printf("Battle %s (seed %d): %s vs %s\n", fight.ID, s, fight.Player.Name, fight.Enemy.Name)
	fmt.Println("------------------------------------------------------------")

	var now time.Duration
	fight.Start(now)
	for !fight.Ended() && now < *maxTime {
		if fight.State == battle.PlayerTurn {
			next := battle.Attack
			if len(plan) > 0 {
				next, plan = plan[0], plan[1:]
			}
			fight.ResolvePlayerAction(next, now)
		}
		now += tick
		fight.Update(now)
	}

	fmt.Println("------------------------------------------------------------")
	if !fight.Ended() {
		fmt.Printf("No result after %v (turn %d)\n", now, fight.Turn)
		os.Exit(1)
	}
	fmt.Printf("Outcome: %s after %d turns, %v simulated\n", outcome, fight.Turn, now)
	fmt.Printf("  %s: %d/%d\n", fight.Player.Name, fight.Player.Health, fight.Player.MaxHealth)
	fmt.Printf("  %s: %d/%d\n", fight.Enemy.Name, fight.Enemy.Health, fight.Enemy.MaxHealth)
}
