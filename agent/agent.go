// Package agent drives a search tree against an engine.Interpreter the
// way a match orchestrator drives a GGP player: told the rules once at
// the start of a match, then asked for one move per ply under a clock.
package agent

import (
	"context"
	"math/rand"

	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/gameclock"
)

// Agent is the lifecycle contract a match orchestrator drives a player
// through, grounded in the original pyggp Agent/InterpreterAgent split:
// SetUp/TearDown bracket the agent's whole process lifetime, while
// PrepareMatch/Update/CalculateMove/ConcludeMatch/AbortMatch bracket one
// match.
type Agent interface {
	SetUp()
	TearDown()

	// PrepareMatch tells the agent which role it plays, the interpreter
	// for the ruleset in force, and the start/play clock configuration
	// for the match about to begin.
	PrepareMatch(role engine.Role, interp engine.Interpreter, startClock, playClock gameclock.Config)

	// Update informs the agent of the turn that was actually played and
	// the resulting state, so it can advance any internal search tree
	// rather than rebuild it from scratch (§4.F).
	Update(ctx context.Context, turn engine.Turn, newState engine.State)

	// CalculateMove is asked for this agent's move at the current ply,
	// bound by the agent's play clock.
	CalculateMove(ctx context.Context) (engine.Move, error)

	ConcludeMatch(ctx context.Context, finalState engine.State)
	AbortMatch()
}

// baseAgent implements the lifecycle no-ops shared by every concrete
// agent, the way InterpreterAgent does in the original.
type baseAgent struct {
	Role      engine.Role
	Interp    engine.Interpreter
	StartCfg  gameclock.Config
	PlayCfg   gameclock.Config
	playClock *gameclock.Clock
}

func (a *baseAgent) SetUp()    {}
func (a *baseAgent) TearDown() {}

func (a *baseAgent) PrepareMatch(role engine.Role, interp engine.Interpreter, startClock, playClock gameclock.Config) {
	a.Role = role
	a.Interp = interp
	a.StartCfg = startClock
	a.PlayCfg = playClock
	a.playClock = gameclock.New(playClock)
}

func (a *baseAgent) ConcludeMatch(ctx context.Context, finalState engine.State) {
	a.Interp = nil
}

func (a *baseAgent) AbortMatch() {
	a.Interp = nil
}

// ArbitraryAgent picks a uniformly random legal move every ply: the
// zero-search fallback, grounded in the original ArbitraryAgent, that
// still returns a legal move under a zero-time-budget clock.
type ArbitraryAgent struct {
	baseAgent
	state engine.State
	rng   *rand.Rand
}

// NewArbitraryAgent returns an ArbitraryAgent seeded with rng (a fresh
// math/rand source if nil).
func NewArbitraryAgent(rng *rand.Rand) *ArbitraryAgent {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &ArbitraryAgent{rng: rng}
}

// PrepareMatch implements Agent, additionally seeding the agent's view of
// the initial state.
func (a *ArbitraryAgent) PrepareMatch(role engine.Role, interp engine.Interpreter, startClock, playClock gameclock.Config) {
	a.baseAgent.PrepareMatch(role, interp, startClock, playClock)
	a.state = interp.InitState()
}

// Update implements Agent.
func (a *ArbitraryAgent) Update(ctx context.Context, turn engine.Turn, newState engine.State) {
	a.state = newState
}

// CalculateMove implements Agent by choosing uniformly among the legal
// moves available to a.Role in the current state.
func (a *ArbitraryAgent) CalculateMove(ctx context.Context) (engine.Move, error) {
	moves, err := a.Interp.LegalMoves(ctx, a.state, a.Role)
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", engine.ErrUnsatLegal
	}
	return moves[a.rng.Intn(len(moves))], nil
}
