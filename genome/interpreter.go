package genome

import (
	"github.com/signalnine/darwinggp/gosim/cardengine"
)

// GenerateLegalMovesTyped generates legal moves using typed phases directly.
// This is the direct AST interpretation approach - no bytecode parsing needed.
func GenerateLegalMovesTyped(state *cardengine.GameState, genome *GameGenome) []cardengine.LegalMove {
	moves := make([]cardengine.LegalMove, 0, 10)
	currentPlayer := state.CurrentPlayer

	for phaseIdx, phase := range genome.TurnStructure.Phases {
		switch p := phase.(type) {
		case *DrawPhase:
			moves = appendDrawMoves(moves, state, currentPlayer, phaseIdx, p)

		case *PlayPhase:
			moves = appendPlayMoves(moves, state, currentPlayer, phaseIdx, p, genome)

		case *DiscardPhase:
			moves = appendDiscardMoves(moves, state, currentPlayer, phaseIdx, p)

		case *TrickPhase:
			moves = appendTrickMoves(moves, state, currentPlayer, phaseIdx, p)

		case *BettingPhase:
			moves = appendBettingMoves(moves, state, currentPlayer, phaseIdx, p)

		case *ClaimPhase:
			moves = appendClaimMoves(moves, state, currentPlayer, phaseIdx)

		case *BiddingPhase:
			moves = appendBiddingMoves(moves, state, currentPlayer, phaseIdx, p)
		}
	}

	return moves
}

// appendDrawMoves adds legal draw moves for a DrawPhase.
// Compare to movegen.go case 1 - this reads struct fields directly instead of phase.Data bytes.
func appendDrawMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *DrawPhase) []cardengine.LegalMove {
	// Skip if player has already stood (blackjack)
	if int(currentPlayer) < len(state.HasStood) && state.HasStood[currentPlayer] {
		return moves
	}

	// Check phase condition if present
	if p.Condition != nil {
		conditionMet := evaluateConditionTyped(state, currentPlayer, p.Condition)
		if !conditionMet {
			return moves // Skip this phase if condition not met
		}
	}

	// Check if can draw, with automatic deck reshuffling
	canDraw := false
	source := cardengine.Location(p.Source)
	switch source {
	case cardengine.LocationDeck:
		// If deck is empty but discard has cards, reshuffle would happen
		if len(state.Deck) == 0 && len(state.Discard) > 1 {
			// reshuffleDeck would be called - for now just check
			canDraw = true // Would reshuffle
		}
		canDraw = canDraw || len(state.Deck) > 0
	case cardengine.LocationDiscard:
		canDraw = len(state.Discard) > 0
	case cardengine.LocationOpponentHand:
		opponentID := (currentPlayer + 1) % state.NumPlayers
		canDraw = len(state.Players[opponentID].Hand) > 0
	}

	if canDraw {
		moves = append(moves, cardengine.LegalMove{
			PhaseIndex: phaseIdx,
			CardIndex:  cardengine.MoveDraw, // -1 = draw (hit)
			TargetLoc:  source,
		})
	}

	// Add pass/stand option when drawing is not mandatory
	if !p.Mandatory && canDraw {
		moves = append(moves, cardengine.LegalMove{
			PhaseIndex: phaseIdx,
			CardIndex:  cardengine.MoveDrawPass, // -3 = pass (stand)
			TargetLoc:  source,
		})
	}

	return moves
}

// appendPlayMoves adds legal play moves for a PlayPhase.
// Compare to movegen.go case 2 - reads p.Target, p.MinCards, etc. directly.
func appendPlayMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *PlayPhase, genome *GameGenome) []cardengine.LegalMove {
	target := cardengine.Location(p.Target)
	hand := state.Players[currentPlayer].Hand
	if len(hand) == 0 {
		return moves
	}

	playMoveCount := 0

	// SEQUENCE mode: special handling for tableau plays
	if state.TableauMode == 3 && target == cardengine.LocationTableau {
		moves, playMoveCount = appendSequenceMoves(moves, state, currentPlayer, phaseIdx, p, hand, target)

		// If no valid plays but pass_if_unable is set, add pass move
		if playMoveCount == 0 && p.PassIfUnable {
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardengine.MovePlayPass,
				TargetLoc:  target,
			})
		}
		return moves
	}

	// Single-card plays (standard)
	if p.MinCards <= 1 && p.MaxCards >= 1 {
		for cardIdx, card := range hand {
			// Evaluate valid_play_condition if present
			if p.ValidPlayCondition != nil {
				if !evaluateCardConditionTyped(state, currentPlayer, card, p.ValidPlayCondition) {
					continue
				}
			}
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardIdx,
				TargetLoc:  target,
			})
			playMoveCount++
		}
	}

	// Multi-card plays (Go Fish sets)
	if p.MinCards > 1 {
		rankCounts := make(map[uint8]int)
		for _, card := range hand {
			rankCounts[card.Rank]++
		}

		for rank, count := range rankCounts {
			if count >= p.MinCards && count <= p.MaxCards {
				moves = append(moves, cardengine.LegalMove{
					PhaseIndex: phaseIdx,
					CardIndex:  -int(rank) - 100,
					TargetLoc:  target,
				})
				playMoveCount++
			}
		}
	}

	// If no valid plays but pass_if_unable is set, add pass move
	if playMoveCount == 0 && p.PassIfUnable {
		moves = append(moves, cardengine.LegalMove{
			PhaseIndex: phaseIdx,
			CardIndex:  cardengine.MovePlayPass,
			TargetLoc:  target,
		})
	}

	return moves
}

func appendSequenceMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *PlayPhase, hand []cardengine.Card, target cardengine.Location) ([]cardengine.LegalMove, int) {
	playMoveCount := 0

	// Check if all piles are empty
	allPilesEmpty := true
	for _, pile := range state.Tableau {
		if len(pile) > 0 {
			allPilesEmpty = false
			break
		}
	}

	if allPilesEmpty || len(state.Tableau) == 0 {
		// Empty tableau: any card can start a new pile
		for cardIdx, card := range hand {
			if p.ValidPlayCondition != nil {
				if !evaluateCardConditionTyped(state, currentPlayer, card, p.ValidPlayCondition) {
					continue
				}
			}
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardIdx,
				TargetLoc:  target,
			})
			playMoveCount++
		}
	} else {
		// Non-empty tableau: check each card against all piles
		addedCards := make(map[int]bool)

		for cardIdx, card := range hand {
			if p.ValidPlayCondition != nil {
				if !evaluateCardConditionTyped(state, currentPlayer, card, p.ValidPlayCondition) {
					continue
				}
			}

			canPlayOnExisting := false
			for _, pile := range state.Tableau {
				if len(pile) > 0 {
					topCard := pile[len(pile)-1]
					if isValidSequencePlayTyped(card, topCard, state.SequenceDirection) {
						canPlayOnExisting = true
						break
					}
				}
			}

			canStartNewPile := false
			for _, pile := range state.Tableau {
				if len(pile) == 0 {
					canStartNewPile = true
					break
				}
			}

			if (canPlayOnExisting || canStartNewPile) && !addedCards[cardIdx] {
				moves = append(moves, cardengine.LegalMove{
					PhaseIndex: phaseIdx,
					CardIndex:  cardIdx,
					TargetLoc:  target,
				})
				addedCards[cardIdx] = true
				playMoveCount++
			}
		}
	}

	return moves, playMoveCount
}

func appendDiscardMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *DiscardPhase) []cardengine.LegalMove {
	if len(state.Players[currentPlayer].Hand) > 0 {
		for cardIdx := range state.Players[currentPlayer].Hand {
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardIdx,
				TargetLoc:  cardengine.LocationDiscard,
			})
		}
	}
	return moves
}

func appendTrickMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *TrickPhase) []cardengine.LegalMove {
	hand := state.Players[currentPlayer].Hand
	if len(hand) == 0 {
		return moves
	}

	isLeading := len(state.CurrentTrick) == 0

	if isLeading {
		for cardIdx, card := range hand {
			if p.BreakingSuit != 255 && card.Suit == p.BreakingSuit && !state.HeartsBroken {
				hasOther := false
				for _, c := range hand {
					if c.Suit != p.BreakingSuit {
						hasOther = true
						break
					}
				}
				if hasOther {
					continue
				}
			}
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardIdx,
				TargetLoc:  cardengine.LocationTableau,
			})
		}
	} else {
		leadSuit := state.CurrentTrick[0].Card.Suit

		if p.LeadSuitRequired {
			hasLeadSuit := false
			for _, card := range hand {
				if card.Suit == leadSuit {
					hasLeadSuit = true
					break
				}
			}

			if hasLeadSuit {
				for cardIdx, card := range hand {
					if card.Suit == leadSuit {
						moves = append(moves, cardengine.LegalMove{
							PhaseIndex: phaseIdx,
							CardIndex:  cardIdx,
							TargetLoc:  cardengine.LocationTableau,
						})
					}
				}
			} else {
				for cardIdx := range hand {
					moves = append(moves, cardengine.LegalMove{
						PhaseIndex: phaseIdx,
						CardIndex:  cardIdx,
						TargetLoc:  cardengine.LocationTableau,
					})
				}
			}
		} else {
			for cardIdx := range hand {
				moves = append(moves, cardengine.LegalMove{
					PhaseIndex: phaseIdx,
					CardIndex:  cardIdx,
					TargetLoc:  cardengine.LocationTableau,
				})
			}
		}
	}

	return moves
}

func appendBettingMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *BettingPhase) []cardengine.LegalMove {
	if state.BettingComplete {
		return moves
	}

	activePlayers := cardengine.CountActivePlayers(state)
	if activePlayers <= 1 {
		state.BettingComplete = true
		return moves
	}

	if cardengine.AllBetsMatched(state) && cardengine.CountActingPlayers(state) == 0 {
		state.BettingComplete = true
		return moves
	}

	// Convert typed BettingPhase to cardengine.BettingPhaseData for compatibility
	bettingData := &cardengine.BettingPhaseData{
		MinBet:    p.MinBet,
		MaxRaises: p.MaxRaises,
	}

	bettingMoves := cardengine.GenerateBettingMoves(state, bettingData, int(currentPlayer))

	for _, action := range bettingMoves {
		moves = append(moves, cardengine.LegalMove{
			PhaseIndex: phaseIdx,
			CardIndex:  -10 - int(action),
			TargetLoc:  cardengine.LocationDeck,
		})
	}

	return moves
}

func appendClaimMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int) []cardengine.LegalMove {
	if state.CurrentClaim == nil {
		hand := state.Players[currentPlayer].Hand
		if len(hand) > 0 {
			for cardIdx := range hand {
				moves = append(moves, cardengine.LegalMove{
					PhaseIndex: phaseIdx,
					CardIndex:  cardIdx,
					TargetLoc:  cardengine.LocationDiscard,
				})
			}
		}
	} else {
		if currentPlayer != state.CurrentClaim.ClaimerID {
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardengine.MoveChallenge,
				TargetLoc:  cardengine.LocationDiscard,
			})
			moves = append(moves, cardengine.LegalMove{
				PhaseIndex: phaseIdx,
				CardIndex:  cardengine.MovePass,
				TargetLoc:  cardengine.LocationDiscard,
			})
		}
	}
	return moves
}

func appendBiddingMoves(moves []cardengine.LegalMove, state *cardengine.GameState, currentPlayer uint8, phaseIdx int, p *BiddingPhase) []cardengine.LegalMove {
	if state.BiddingComplete {
		return moves
	}

	if state.Players[currentPlayer].CurrentBid >= 0 {
		return moves
	}

	// Convert to cardengine.BiddingPhase for compatibility
	enginePhase := cardengine.BiddingPhase{
		MinBid:   p.MinBid,
		MaxBid:   p.MaxBid,
		AllowNil: p.AllowNil,
	}

	handSize := len(state.Players[currentPlayer].Hand)
	bidMoves := cardengine.GenerateBidMoves(enginePhase, handSize)

	for _, bid := range bidMoves {
		cardIndex := cardengine.MoveBidOffset - bid.Value
		targetLoc := cardengine.LocationDeck
		if bid.IsNil {
			targetLoc = cardengine.LocationDiscard
		}
		moves = append(moves, cardengine.LegalMove{
			PhaseIndex: phaseIdx,
			CardIndex:  cardIndex,
			TargetLoc:  targetLoc,
		})
	}

	return moves
}

// evaluateConditionTyped evaluates a condition using its typed fields
// directly, with no byte-packing round trip into the old bytecode form.
func evaluateConditionTyped(state *cardengine.GameState, playerID uint8, cond *Condition) bool {
	if cond == nil {
		return true
	}

	spec := cardengine.ConditionSpec{
		OpCode:   cardengine.OpCode(cond.OpCode),
		Operator: cond.Operator,
		Value:    cond.Value,
		RefLoc:   cond.RefLoc,
	}
	return cardengine.EvaluateCondition(state, playerID, spec)
}

// evaluateCardConditionTyped evaluates a card condition using typed struct.
func evaluateCardConditionTyped(state *cardengine.GameState, playerID uint8, card cardengine.Card, cond *Condition) bool {
	if cond == nil {
		return true
	}

	spec := cardengine.ConditionSpec{
		OpCode:   cardengine.OpCode(cond.OpCode),
		Operator: cond.Operator,
		Value:    cond.Value,
		RefLoc:   cond.RefLoc,
	}
	return cardengine.EvaluateCardCondition(state, playerID, card, spec)
}

// isValidSequencePlayTyped checks sequence validity using typed direction.
func isValidSequencePlayTyped(card cardengine.Card, topCard cardengine.Card, direction uint8) bool {
	if card.Suit != topCard.Suit {
		return false
	}

	switch direction {
	case 0: // ASCENDING
		if topCard.Rank == 13 {
			return false
		}
		return card.Rank == topCard.Rank+1
	case 1: // DESCENDING
		if topCard.Rank == 2 {
			return false
		}
		return card.Rank == topCard.Rank-1
	case 2: // BOTH
		canAscend := topCard.Rank != 13 && card.Rank == topCard.Rank+1
		canDescend := topCard.Rank != 2 && card.Rank == topCard.Rank-1
		return canAscend || canDescend
	}
	return false
}
