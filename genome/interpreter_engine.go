// Package genome provides typed game genome structures for the pure Go
// evolution system, and an engine.Interpreter that makes any GameGenome
// playable through the search core: move generation comes straight from
// GenerateLegalMovesTyped, move application and win detection are this
// file's ApplyMoveTyped/CheckWinConditionsTyped companions, and state
// itself round-trips through cardengine's exported GameState as JSON.
package genome

import (
	"context"
	"fmt"
	"strconv"

	"github.com/signalnine/darwinggp/gosim/cardengine"
	"github.com/signalnine/darwinggp/gosim/engine"
)

// Interpreter implements engine.Interpreter over a fixed GameGenome
// ruleset. NumPlayers is not part of GameGenome itself (the genome
// schema has no player-count field yet), so it's supplied alongside.
type Interpreter struct {
	Genome     *GameGenome
	NumPlayers int
	DealSeed   uint64
}

// NewInterpreter returns an Interpreter for g seated with numPlayers
// players, dealing its unique initial state deterministically from
// dealSeed (the same seed always produces the same shuffle).
func NewInterpreter(g *GameGenome, numPlayers int, dealSeed uint64) *Interpreter {
	return &Interpreter{Genome: g, NumPlayers: numPlayers, DealSeed: dealSeed}
}

func playerRole(i int) engine.Role {
	return engine.Role("p" + strconv.Itoa(i))
}

func roleIndex(role engine.Role) (int, bool) {
	if len(role) < 2 || role[0] != 'p' {
		return 0, false
	}
	i, err := strconv.Atoi(string(role[1:]))
	if err != nil {
		return 0, false
	}
	return i, true
}

// Roles implements engine.Interpreter.
func (in *Interpreter) Roles() []engine.Role {
	roles := make([]engine.Role, in.NumPlayers)
	for i := range roles {
		roles[i] = playerRole(i)
	}
	return roles
}

// InitState implements engine.Interpreter, dealing the genome's setup
// rules (cards per player, tableau deal, starting chips) the way
// simulation.RunSingleGameTyped does.
func (in *Interpreter) InitState() engine.State {
	state := cardengine.GetState()
	defer cardengine.PutState(state)

	state.NumPlayers = uint8(in.NumPlayers)
	state.TableauMode = uint8(in.Genome.TurnStructure.TableauMode)
	state.SequenceDirection = uint8(in.Genome.TurnStructure.SequenceDirection)

	for rank := uint8(0); rank < 13; rank++ {
		for suit := uint8(0); suit < 4; suit++ {
			state.Deck = append(state.Deck, cardengine.Card{Rank: rank, Suit: suit})
		}
	}
	state.ShuffleDeck(in.DealSeed)

	cardsPerPlayer := in.Genome.Setup.CardsPerPlayer
	if cardsPerPlayer <= 0 {
		cardsPerPlayer = 1
	}
	for i := 0; i < cardsPerPlayer; i++ {
		for p := 0; p < in.NumPlayers; p++ {
			state.DrawCard(uint8(p), cardengine.LocationDeck)
		}
	}

	if dealToTableau := in.Genome.Setup.DealToTableau; dealToTableau > 0 {
		if state.TableauMode != 0 {
			state.Tableau = append(state.Tableau, make([]cardengine.Card, 0, dealToTableau))
		}
		for i := 0; i < dealToTableau && len(state.Deck) > 0; i++ {
			card := state.Deck[len(state.Deck)-1]
			state.Deck = state.Deck[:len(state.Deck)-1]
			if state.TableauMode != 0 {
				state.Tableau[0] = append(state.Tableau[0], card)
			} else {
				state.Discard = append(state.Discard, card)
			}
		}
	}

	if in.Genome.Setup.StartingChips > 0 {
		state.InitializeChips(in.Genome.Setup.StartingChips)
	}

	return engine.State(EncodeState(state))
}

func (in *Interpreter) decode(state engine.State) *cardengine.GameState {
	gs, err := DecodeState(string(state))
	if err != nil {
		panic(fmt.Sprintf("genome: malformed state: %v", err))
	}
	return gs
}

// LegalMoves implements engine.Interpreter.
func (in *Interpreter) LegalMoves(ctx context.Context, state engine.State, role engine.Role) ([]engine.Move, error) {
	idx, ok := roleIndex(role)
	if !ok {
		return nil, nil
	}
	gs := in.decode(state)
	defer cardengine.PutState(gs)

	if int(gs.CurrentPlayer) != idx {
		return nil, nil
	}
	legal := GenerateLegalMovesTyped(gs, in.Genome)
	if len(legal) == 0 {
		return nil, engine.ErrUnsatLegal
	}

	moves := make([]engine.Move, len(legal))
	for i, m := range legal {
		moves[i] = encodeMove(m)
	}
	return moves, nil
}

// RolesInControl implements engine.Interpreter: exactly the current
// player, or none on a terminal state.
func (in *Interpreter) RolesInControl(ctx context.Context, state engine.State) []engine.Role {
	if in.IsTerminal(ctx, state) {
		return nil
	}
	gs := in.decode(state)
	defer cardengine.PutState(gs)
	return []engine.Role{playerRole(int(gs.CurrentPlayer))}
}

// LegalTurns implements engine.Interpreter via the Cartesian-product
// helper: exactly one role is ever in control at a time, so this always
// reduces to that role's own legal moves.
func (in *Interpreter) LegalTurns(ctx context.Context, state engine.State) ([]engine.Turn, error) {
	return engine.CartesianLegalTurns(ctx, in, state)
}

// NextState implements engine.Interpreter.
func (in *Interpreter) NextState(ctx context.Context, state engine.State, turn engine.Turn) (engine.State, error) {
	gs := in.decode(state)
	defer cardengine.PutState(gs)

	role := playerRole(int(gs.CurrentPlayer))
	move, ok := turn.MoveOf(role)
	if !ok {
		return "", engine.ErrUnsatNext
	}
	legal, err := decodeMove(move)
	if err != nil {
		return "", engine.ErrUnsatNext
	}

	ApplyMoveTyped(gs, legal, in.Genome)
	return engine.State(EncodeState(gs)), nil
}

// Sees implements engine.Interpreter: a role sees its own hand in full
// and every other role's hand only as a count, plus all shared state
// (discard, tableau, trick, scores).
func (in *Interpreter) Sees(ctx context.Context, state engine.State, role engine.Role) engine.View {
	idx, ok := roleIndex(role)
	if !ok {
		return ""
	}
	gs := in.decode(state)
	defer cardengine.PutState(gs)

	view := newRedactedView(gs, idx)
	data, err := viewJSON(view)
	if err != nil {
		panic(fmt.Sprintf("genome: encode view: %v", err))
	}
	return engine.View(data)
}

// IsTerminal implements engine.Interpreter.
func (in *Interpreter) IsTerminal(ctx context.Context, state engine.State) bool {
	gs := in.decode(state)
	defer cardengine.PutState(gs)

	if CheckWinConditionsTyped(gs, in.Genome) >= 0 {
		return true
	}
	maxTurns := uint32(in.Genome.TurnStructure.MaxTurns)
	if maxTurns > 0 && gs.TurnNumber >= maxTurns {
		return true
	}
	return len(GenerateLegalMovesTyped(gs, in.Genome)) == 0
}

// Goals implements engine.Interpreter: the winner scores 100, every
// other role 0; a turn-limit draw with no declared winner splits evenly.
func (in *Interpreter) Goals(ctx context.Context, state engine.State) (engine.Goals, error) {
	if !in.IsTerminal(ctx, state) {
		return nil, engine.ErrUnsatGoal
	}
	gs := in.decode(state)
	defer cardengine.PutState(gs)

	winner := CheckWinConditionsTyped(gs, in.Genome)
	goals := make(engine.Goals, in.NumPlayers)
	if winner < 0 {
		for i := 0; i < in.NumPlayers; i++ {
			goals[playerRole(i)] = 50
		}
		return goals, nil
	}
	for i := 0; i < in.NumPlayers; i++ {
		if i == int(winner) {
			goals[playerRole(i)] = 100
		} else {
			goals[playerRole(i)] = 0
		}
	}
	return goals, nil
}
