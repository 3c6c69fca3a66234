// Package main provides the darwindeck-play CLI: deal one genome to a
// fixed roster of agents and run the match to completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/signalnine/darwinggp/gosim/cmd/play/spectator"
	"github.com/signalnine/darwinggp/gosim/gameclock"
	"github.com/signalnine/darwinggp/gosim/genome"
)

var (
	configPath   string
	genomeName   string
	genomeFile   string
	players      int
	seed         int64
	startClockStr string
	playClockStr  string
	agentsFlag   string
	maxBelief    int
	spectate     bool
	spectateAddr string
)

func init() {
	// Flags default to the zero value rather than the CLI's preferred
	// default so mergeConfig can tell "not passed" apart from "passed
	// explicitly" when a -config file is also in play; run() applies the
	// actual defaults (war/2/0/1/mcts/200/:8765) after merging.
	flag.StringVar(&configPath, "config", "", "Path to a YAML match config (CLI flags override its fields)")
	flag.StringVar(&genomeName, "genome", "", "Built-in genome name (see cmd/play/genomes.go); default war")
	flag.StringVar(&genomeFile, "genome-file", "", "Path to a JSON genome file (overrides -genome)")
	flag.IntVar(&players, "players", 0, "Number of seats; default 2")
	flag.Int64Var(&seed, "seed", 0, "Deal seed (0 = use current time)")
	flag.StringVar(&startClockStr, "start-clock", "", "Start clock, gameclock.ParseConfig syntax; default 0")
	flag.StringVar(&playClockStr, "play-clock", "", "Play clock, gameclock.ParseConfig syntax; default 1")
	flag.StringVar(&agentsFlag, "agents", "", "Comma-separated agent names (random, mcts, ismcts), cycled across seats; default mcts")
	flag.IntVar(&maxBelief, "max-belief", 0, "Belief set cap for ismcts agents (negative = unbounded); default 200")
	flag.BoolVar(&spectate, "spectate", false, "Serve a spectator websocket feed of each ply's per-role views")
	flag.StringVar(&spectateAddr, "spectate-addr", "", "Spectator HTTP listen address; default :8765")
}

func main() {
	flag.Parse()

	cfg := &MatchConfig{
		Genome:       genomeName,
		GenomeFile:   genomeFile,
		Players:      players,
		Seed:         seed,
		StartClock:   startClockStr,
		PlayClock:    playClockStr,
		Agents:       splitNonEmpty(agentsFlag, ","),
		MaxBelief:    maxBelief,
		Spectate:     spectate,
		SpectateAddr: spectateAddr,
	}
	if configPath != "" {
		loaded, err := LoadMatchConfig(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = mergeConfig(loaded, cfg)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "darwindeck-play:", err)
		os.Exit(1)
	}
}

func run(cfg *MatchConfig) error {
	g, err := resolveGenome(cfg)
	if err != nil {
		return err
	}

	startCfg, err := gameclock.ParseConfig(orDefault(cfg.StartClock, "0"))
	if err != nil {
		return fmt.Errorf("darwindeck-play: start clock: %w", err)
	}
	playCfg, err := gameclock.ParseConfig(orDefault(cfg.PlayClock, "1"))
	if err != nil {
		return fmt.Errorf("darwindeck-play: play clock: %w", err)
	}

	dealSeed := cfg.Seed
	if dealSeed == 0 {
		dealSeed = time.Now().UnixNano()
	}
	numPlayers := cfg.Players
	if numPlayers <= 0 {
		numPlayers = 2
	}
	interp := genome.NewInterpreter(g, numPlayers, uint64(dealSeed))

	maxBeliefCfg := cfg.MaxBelief
	if maxBeliefCfg == 0 {
		maxBeliefCfg = 200
	}

	rng := rand.New(rand.NewSource(dealSeed))
	match, err := NewMatch(interp, cfg.Agents, rng, maxBeliefCfg)
	if err != nil {
		return err
	}

	if cfg.Spectate {
		hub := spectator.NewHub()
		match.spectator = hub
		addr := orDefault(cfg.SpectateAddr, ":8765")
		go func() {
			if err := spectator.Run(addr, hub); err != nil {
				slog.Error("spectator server stopped", "error", err)
			}
		}()
		fmt.Printf("spectator listening on http://%s\n", addr)
	}

	fmt.Printf("playing %s with %d players, seed=%d\n", g.Name, numPlayers, dealSeed)

	goals, err := match.Play(context.Background(), startCfg, playCfg)
	if err != nil {
		return err
	}

	fmt.Println("final goals:")
	for _, role := range match.Roles {
		fmt.Printf("  %s: %d\n", role, goals[role])
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func splitNonEmpty(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergeConfig lets CLI flags override a loaded config file field by
// field, rather than one wholly replacing the other.
func mergeConfig(file, flags *MatchConfig) *MatchConfig {
	merged := *file
	if flags.Genome != "" {
		merged.Genome = flags.Genome
	}
	if flags.GenomeFile != "" {
		merged.GenomeFile = flags.GenomeFile
	}
	if flags.Players > 0 {
		merged.Players = flags.Players
	}
	if flags.Seed != 0 {
		merged.Seed = flags.Seed
	}
	if flags.StartClock != "" {
		merged.StartClock = flags.StartClock
	}
	if flags.PlayClock != "" {
		merged.PlayClock = flags.PlayClock
	}
	if len(flags.Agents) > 0 {
		merged.Agents = flags.Agents
	}
	if flags.MaxBelief != 0 {
		merged.MaxBelief = flags.MaxBelief
	}
	if flags.Spectate {
		merged.Spectate = true
	}
	if flags.SpectateAddr != "" {
		merged.SpectateAddr = flags.SpectateAddr
	}
	return &merged
}
