package main

import (
	"fmt"
	"os"

	"github.com/signalnine/darwinggp/gosim/genome"
)

// builtinGenomes mirrors the fixtures genome/examples.go ships, keyed by
// the name a match config or -genome flag refers to them by.
var builtinGenomes = map[string]func() *genome.GameGenome{
	"war":                 genome.CreateWarGenome,
	"betting-war":         genome.CreateBettingWarGenome,
	"hearts":              genome.CreateHeartsGenome,
	"scotch-whist":        genome.CreateScotchWhistGenome,
	"knockout-whist":      genome.CreateKnockoutWhistGenome,
	"spades":              genome.CreateSpadesGenome,
	"partnership-spades":  genome.CreatePartnershipSpadesGenome,
	"crazy-eights":        genome.CreateCrazyEightsGenome,
	"old-maid":            genome.CreateOldMaidGenome,
	"president":           genome.CreatePresidentGenome,
	"fan-tan":             genome.CreateFanTanGenome,
	"uno":                 genome.CreateUnoStyleGenome,
	"gin-rummy":           genome.CreateGinRummyGenome,
	"go-fish":             genome.CreateGoFishGenome,
	"simple-poker":        genome.CreateSimplePokerGenome,
	"cheat":               genome.CreateCheatGenome,
	"scopa":               genome.CreateScopaGenome,
	"draw-poker":          genome.CreateDrawPokerGenome,
	"blackjack":           genome.CreateBlackjackGenome,
}

// resolveGenome loads cfg.GenomeFile if set, otherwise looks cfg.Genome
// up in builtinGenomes, defaulting to "war".
func resolveGenome(cfg *MatchConfig) (*genome.GameGenome, error) {
	if cfg.GenomeFile != "" {
		data, err := os.ReadFile(cfg.GenomeFile)
		if err != nil {
			return nil, fmt.Errorf("cmd/play: read genome file: %w", err)
		}
		g, err := genome.LoadGenomeFromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("cmd/play: parse genome file: %w", err)
		}
		return g, nil
	}

	name := cfg.Genome
	if name == "" {
		name = "war"
	}
	factory, ok := builtinGenomes[name]
	if !ok {
		return nil, fmt.Errorf("cmd/play: unknown built-in genome %q", name)
	}
	return factory(), nil
}
