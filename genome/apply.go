package genome

import (
	"github.com/signalnine/darwinggp/gosim/cardengine"
)

// ApplyMoveTyped mutates state by executing move, reading the owning
// phase's typed fields directly instead of going through a bytecode
// PhaseDescriptor. Mirrors cardengine.ApplyMove's per-phase-type switch,
// case for case, against GameGenome.TurnStructure.Phases.
func ApplyMoveTyped(state *cardengine.GameState, move cardengine.LegalMove, g *GameGenome) {
	if move.PhaseIndex < 0 || move.PhaseIndex >= len(g.TurnStructure.Phases) {
		return
	}

	currentPlayer := state.CurrentPlayer
	advance := true

	switch p := g.TurnStructure.Phases[move.PhaseIndex].(type) {
	case *DrawPhase:
		applyDrawMove(state, currentPlayer, move, p)

	case *PlayPhase:
		applyPlayMove(state, currentPlayer, move, p, g)

	case *DiscardPhase:
		if move.CardIndex >= 0 {
			state.PlayCard(currentPlayer, move.CardIndex, cardengine.LocationDiscard)
		}

	case *TrickPhase:
		advance = applyTrickMove(state, currentPlayer, move, p)

	case *BettingPhase:
		applyBettingMove(state, currentPlayer, move, p)

	case *ClaimPhase:
		applyClaimMove(state, currentPlayer, move)

	case *BiddingPhase:
		applyBiddingMove(state, currentPlayer, move, p)
	}

	if !advance {
		return
	}
	if state.NumPlayers == 0 {
		state.NumPlayers = 2
	}
	cardengine.AdvanceTurn(state)
	state.TurnNumber++
}

// turnRNG is a tiny deterministic source for effects that need one
// (EFFECT_STEAL_CARD), seeded from TurnNumber so effect resolution stays a
// pure function of state like reshuffleDiscardIntoDeck's shuffle.
type turnRNG uint64

func (r *turnRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	*r = turnRNG(uint64(*r)*6364136223846793005 + 1442695040888963407)
	return int(uint64(*r) % uint64(n))
}

// triggerEffects applies any genome-defined special effect bound to the
// rank of the card just played. Skip/Reverse/Draw/etc. mutate
// SkipCount/PlayDirection/hands directly; AdvanceTurn (called by the
// caller) is what makes a skip or reversal actually bite.
func triggerEffects(state *cardengine.GameState, card cardengine.Card, g *GameGenome) {
	for _, se := range g.Effects {
		if se.TriggerRank != card.Rank {
			continue
		}
		rng := turnRNG(state.TurnNumber + 1)
		cardengine.ApplyEffect(state, &cardengine.SpecialEffect{
			TriggerRank: se.TriggerRank,
			EffectType:  uint8(se.Effect),
			Target:      se.Target,
			Value:       se.Value,
		}, &rng)
	}
}

func applyDrawMove(state *cardengine.GameState, player uint8, move cardengine.LegalMove, p *DrawPhase) {
	if move.CardIndex == cardengine.MoveDrawPass {
		return
	}
	count := p.Count
	if count <= 0 {
		count = 1
	}
	source := cardengine.Location(p.Source)
	for i := 0; i < count; i++ {
		if source == cardengine.LocationDeck && len(state.Deck) == 0 {
			reshuffleDiscardIntoDeck(state)
		}
		state.DrawCard(player, source)
	}
}

// reshuffleDiscardIntoDeck turns the discard pile (minus its top card,
// which stays visible) face-down into the deck, shuffled with a seed
// derived from TurnNumber so the reshuffle stays a pure function of
// state rather than reaching for an external RNG.
func reshuffleDiscardIntoDeck(state *cardengine.GameState) {
	if len(state.Discard) <= 1 {
		return
	}
	top := state.Discard[len(state.Discard)-1]
	state.Deck = append(state.Deck, state.Discard[:len(state.Discard)-1]...)
	state.Discard = state.Discard[:0]
	state.Discard = append(state.Discard, top)
	state.ShuffleDeck(uint64(state.TurnNumber) + 1)
}

func applyPlayMove(state *cardengine.GameState, player uint8, move cardengine.LegalMove, p *PlayPhase, g *GameGenome) {
	target := cardengine.Location(p.Target)
	switch {
	case move.CardIndex == cardengine.MovePlayPass:
		return

	case move.CardIndex <= -100:
		// Go Fish-style set: play every card of the requested rank.
		rank := uint8(-move.CardIndex - 100)
		hand := state.Players[player].Hand
		for i := len(hand) - 1; i >= 0; i-- {
			if hand[i].Rank == rank {
				state.PlayCard(player, i, target)
			}
		}

	case move.CardIndex >= 0:
		if move.CardIndex >= len(state.Players[player].Hand) {
			return
		}
		card := state.Players[player].Hand[move.CardIndex]
		state.PlayCard(player, move.CardIndex, target)
		if target == cardengine.LocationTableau {
			appendToTableau(state, player)
		}
		triggerEffects(state, card, g)
	}
}

// appendToTableau places the card just moved to LocationTableau onto the
// matching sequence pile (or starts a new one), and resolves a War-style
// two-player battle when the genome doesn't use sequence tableau mode.
func appendToTableau(state *cardengine.GameState, player uint8) {
	if state.TableauMode == uint8(TableauModeSequence) {
		placeOnSequencePile(state)
		return
	}
	if int(state.NumPlayers) == 2 && len(state.Tableau) > 0 {
		resolveWarBattleTyped(state)
	}
}

func placeOnSequencePile(state *cardengine.GameState) {
	if len(state.Tableau) == 0 || len(state.Tableau[len(state.Tableau)-1]) == 0 {
		return
	}
	last := state.Tableau[len(state.Tableau)-1]
	played := last[len(last)-1]

	for i, pile := range state.Tableau[:len(state.Tableau)-1] {
		if len(pile) == 0 {
			continue
		}
		top := pile[len(pile)-1]
		if isValidSequencePlayTyped(played, top, uint8(state.SequenceDirection)) {
			state.Tableau[i] = append(pile, played)
			state.Tableau[len(state.Tableau)-1] = last[:len(last)-1]
			return
		}
	}
}

func resolveWarBattleTyped(state *cardengine.GameState) {
	tableau := state.Tableau[0]
	if len(tableau) < 2 {
		return
	}
	card1 := tableau[len(tableau)-2]
	card2 := tableau[len(tableau)-1]

	var winner uint8
	switch {
	case card1.Rank > card2.Rank:
		winner = 0
	case card2.Rank > card1.Rank:
		winner = 1
	default:
		winner = state.CurrentPlayer
	}

	state.Players[winner].Hand = append(state.Players[winner].Hand, tableau...)
	state.Tableau[0] = state.Tableau[0][:0]
}

func applyTrickMove(state *cardengine.GameState, player uint8, move cardengine.LegalMove, p *TrickPhase) bool {
	if move.CardIndex < 0 || move.CardIndex >= len(state.Players[player].Hand) {
		return true
	}
	card := state.Players[player].Hand[move.CardIndex]
	state.Players[player].Hand = append(
		state.Players[player].Hand[:move.CardIndex],
		state.Players[player].Hand[move.CardIndex+1:]...,
	)
	state.CurrentTrick = append(state.CurrentTrick, cardengine.TrickCard{PlayerID: player, Card: card})

	if p.BreakingSuit != 255 && card.Suit == p.BreakingSuit {
		state.HeartsBroken = true
	}

	numPlayers := int(state.NumPlayers)
	if numPlayers == 0 {
		numPlayers = 2
	}
	if len(state.CurrentTrick) < numPlayers {
		return true
	}

	resolveTrickTyped(state, p)
	return false
}

func resolveTrickTyped(state *cardengine.GameState, p *TrickPhase) {
	leadSuit := state.CurrentTrick[0].Card.Suit
	winnerIdx := 0
	winningCard := state.CurrentTrick[0].Card

	for i := 1; i < len(state.CurrentTrick); i++ {
		card := state.CurrentTrick[i].Card
		if trickCardBeats(card, winningCard, leadSuit, p.TrumpSuit, p.HighCardWins) {
			winnerIdx = i
			winningCard = card
		}
	}
	winner := state.CurrentTrick[winnerIdx].PlayerID

	points := int32(0)
	for _, tc := range state.CurrentTrick {
		if p.BreakingSuit != 255 && tc.Card.Suit == p.BreakingSuit {
			points++
		}
		if tc.Card.Suit == 3 && tc.Card.Rank == 10 { // queen of spades, Hearts convention
			points += 13
		}
	}
	state.Players[winner].Score += points

	for len(state.TricksWon) <= int(winner) {
		state.TricksWon = append(state.TricksWon, 0)
	}
	state.TricksWon[winner]++

	state.CurrentTrick = state.CurrentTrick[:0]
	state.CurrentPlayer = winner
	state.TrickLeader = winner
	state.TurnNumber++
}

func trickCardBeats(card, winning cardengine.Card, leadSuit, trumpSuit uint8, highWins bool) bool {
	better := func(a, b uint8) bool {
		if highWins {
			return a > b
		}
		return a < b
	}

	if trumpSuit != 255 {
		cardIsTrump := card.Suit == trumpSuit
		winnerIsTrump := winning.Suit == trumpSuit
		switch {
		case cardIsTrump && !winnerIsTrump:
			return true
		case cardIsTrump && winnerIsTrump:
			return better(card.Rank, winning.Rank)
		case !cardIsTrump && !winnerIsTrump && card.Suit == leadSuit:
			if winning.Suit != leadSuit {
				return true
			}
			return better(card.Rank, winning.Rank)
		}
		return false
	}

	if card.Suit != leadSuit {
		return false
	}
	if winning.Suit != leadSuit {
		return true
	}
	return better(card.Rank, winning.Rank)
}

func applyBettingMove(state *cardengine.GameState, player uint8, move cardengine.LegalMove, p *BettingPhase) {
	if move.CardIndex > -10 {
		return
	}
	action := cardengine.BettingAction(-10 - move.CardIndex)
	data := &cardengine.BettingPhaseData{MinBet: p.MinBet, MaxRaises: p.MaxRaises}
	cardengine.ApplyBettingAction(state, data, int(player), action)

	if cardengine.CountActivePlayers(state) <= 1 ||
		(cardengine.AllBetsMatched(state) && cardengine.CountActingPlayers(state) == 0) {
		state.BettingComplete = true
	}
}

func applyClaimMove(state *cardengine.GameState, player uint8, move cardengine.LegalMove) {
	switch move.CardIndex {
	case cardengine.MoveChallenge:
		resolveChallengeTyped(state, player)
	case cardengine.MovePass:
		// Claim stands; play continues to the claimer's left unchallenged.
	default:
		if move.CardIndex >= 0 && move.CardIndex < len(state.Players[player].Hand) {
			card := state.Players[player].Hand[move.CardIndex]
			state.Players[player].Hand = append(
				state.Players[player].Hand[:move.CardIndex],
				state.Players[player].Hand[move.CardIndex+1:]...,
			)
			state.Discard = append(state.Discard, card)
			state.CurrentClaim = &cardengine.Claim{
				ClaimerID:    player,
				ClaimedRank:  card.Rank,
				ClaimedCount: 1,
				CardsPlayed:  []cardengine.Card{card},
			}
		}
	}
}

// resolveChallengeTyped settles a challenge against the active claim: a
// truthful claim (ClaimedRank matches every played card) punishes the
// challenger by handing them the discard pile; a bluff punishes the
// claimer the same way.
func resolveChallengeTyped(state *cardengine.GameState, challenger uint8) {
	claim := state.CurrentClaim
	if claim == nil {
		return
	}
	truthful := true
	for _, c := range claim.CardsPlayed {
		if c.Rank != claim.ClaimedRank {
			truthful = false
			break
		}
	}
	loser := claim.ClaimerID
	if truthful {
		loser = challenger
	}
	state.Players[loser].Hand = append(state.Players[loser].Hand, state.Discard...)
	state.Discard = state.Discard[:0]
	state.CurrentClaim = nil
}

func applyBiddingMove(state *cardengine.GameState, player uint8, move cardengine.LegalMove, p *BiddingPhase) {
	var bid cardengine.BidMove
	if move.TargetLoc == cardengine.LocationDiscard {
		bid = cardengine.BidMove{IsNil: true}
	} else {
		bid = cardengine.BidMove{Value: cardengine.MoveBidOffset - move.CardIndex}
	}
	cardengine.ApplyBid(state, player, bid)
	if cardengine.AllPlayersBid(state) {
		state.BiddingComplete = true
	}
}
