package main

import (
	"fmt"

	"github.com/lox/sushiforbots/internal/config"
	"github.com/lox/sushiforbots/internal/randutil"
	"github.com/lox/sushiforbots/sdk/bots/first"
	"github.com/lox/sushiforbots/sdk/bots/priority"
	"github.com/lox/sushiforbots/sdk/bots/random"
	"github.com/lox/sushiforbots/sdk/client"
)

// strategies maps strategy names to their constructors. Seeds are offset
// per bot so a swarm stays deterministic without every bot agreeing.
var strategies = map[string]func(p config.PlayerSettings, offset int) (client.Strategy, error){
	"first": func(config.PlayerSettings, int) (client.Strategy, error) {
		return first.New(), nil
	},
	"random": func(p config.PlayerSettings, offset int) (client.Strategy, error) {
		return random.New(randutil.Derive(p.Seed, offset)), nil
	},
	"priority": func(p config.PlayerSettings, _ int) (client.Strategy, error) {
		if p.Weights == "" {
			return priority.New(), nil
		}
		return priority.Load(p.Weights)
	},
}

func newStrategy(p config.PlayerSettings, offset int) (client.Strategy, error) {
	fn, ok := strategies[p.Strategy]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s (available: first, random, priority)", p.Strategy)
	}
	return fn(p, offset)
}
