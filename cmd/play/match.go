package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/signalnine/darwinggp/gosim/agent"
	"github.com/signalnine/darwinggp/gosim/cmd/play/spectator"
	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/gameclock"
	"github.com/signalnine/darwinggp/gosim/genome"
)

// Match drives one playthrough of a genome.Interpreter to completion,
// the way a GGP match orchestrator drives a fixed roster of agents
// through PrepareMatch/Update/CalculateMove/ConcludeMatch.
type Match struct {
	Interp engine.Interpreter
	Roles  []engine.Role
	Agents map[engine.Role]agent.Agent

	spectator *spectator.Hub
}

// NewMatch seats one agent per role returned by interp.Roles(), built by
// agentNames (cycled if shorter than the role count).
func NewMatch(interp *genome.Interpreter, agentNames []string, rng *rand.Rand, maxBelief int) (*Match, error) {
	roles := interp.Roles()
	if len(agentNames) == 0 {
		agentNames = []string{"mcts"}
	}

	agents := make(map[engine.Role]agent.Agent, len(roles))
	for i, role := range roles {
		name := agentNames[i%len(agentNames)]
		a, err := newAgent(name, rand.New(rand.NewSource(rng.Int63())), maxBelief)
		if err != nil {
			return nil, err
		}
		agents[role] = a
	}

	return &Match{Interp: interp, Roles: roles, Agents: agents}, nil
}

// Play runs the match to termination under startClock/playClock and
// returns the final goals.
func (m *Match) Play(ctx context.Context, startClock, playClock gameclock.Config) (engine.Goals, error) {
	for _, role := range m.Roles {
		m.Agents[role].SetUp()
		m.Agents[role].PrepareMatch(role, m.Interp, startClock, playClock)
	}
	defer func() {
		for _, role := range m.Roles {
			m.Agents[role].TearDown()
		}
	}()

	state := m.Interp.InitState()
	m.broadcast(0, state)

	for ply := 1; !m.Interp.IsTerminal(ctx, state); ply++ {
		controlling := m.Interp.RolesInControl(ctx, state)
		plays := make([]engine.Play, 0, len(controlling))
		for _, role := range controlling {
			move, err := m.Agents[role].CalculateMove(ctx)
			if err != nil {
				slog.Error("agent failed to move", "role", role, "ply", ply, "error", err)
				m.abortAll()
				return nil, fmt.Errorf("cmd/play: %s failed to move: %w", role, err)
			}
			plays = append(plays, engine.Play{Role: role, Move: move})
		}

		turn := engine.NewTurn(plays...)
		next, err := m.Interp.NextState(ctx, state, turn)
		if err != nil {
			m.abortAll()
			return nil, fmt.Errorf("cmd/play: next state: %w", err)
		}
		state = next

		for _, role := range m.Roles {
			m.Agents[role].Update(ctx, turn, state)
		}
		m.broadcast(ply, state)
	}

	for _, role := range m.Roles {
		m.Agents[role].ConcludeMatch(ctx, state)
	}
	return m.Interp.Goals(ctx, state)
}

func (m *Match) abortAll() {
	for _, role := range m.Roles {
		m.Agents[role].AbortMatch()
	}
}

func (m *Match) broadcast(ply int, state engine.State) {
	if m.spectator == nil {
		return
	}
	views := make(map[engine.Role]engine.View, len(m.Roles))
	for _, role := range m.Roles {
		views[role] = m.Interp.Sees(context.Background(), state, role)
	}
	m.spectator.Publish(spectator.Snapshot{Ply: ply, Views: views})
}
