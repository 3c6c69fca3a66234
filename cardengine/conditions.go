package cardengine

import "sort"

// OpCode identifies both the predicate a ConditionSpec tests (the
// OpCheck* values) and the comparison it's tested with (the OpEQ..OpGE
// values, offset by 50 so they share one enum with the checks).
type OpCode uint8

const (
	OpCheckHandSize        OpCode = 0
	OpCheckCardRank        OpCode = 1
	OpCheckCardSuit        OpCode = 2
	OpCheckLocationSize    OpCode = 3
	OpCheckHasSetOfN       OpCode = 5
	OpCheckHasRunOfN       OpCode = 6
	OpCheckHasMatchingPair OpCode = 7
	OpCheckChipCount       OpCode = 8
	OpCheckPotSize         OpCode = 9
	OpCheckCurrentBet      OpCode = 10
	OpCheckCanAfford       OpCode = 11

	OpEQ OpCode = 50
	OpNE OpCode = 51
	OpLT OpCode = 52
	OpGT OpCode = 53
	OpLE OpCode = 54
	OpGE OpCode = 55
)

// ConditionSpec describes a single predicate over GameState: does the
// referenced quantity (hand size, location size, a specific card, chip
// count...) satisfy operator against value. It replaces the old
// encode-into-7-bytes-then-decode bridge: callers build one directly from
// their own typed condition fields instead of packing/unpacking a byte
// slice, so EvaluateCondition no longer needs a bytecode genome in scope.
type ConditionSpec struct {
	OpCode   OpCode
	Operator uint8
	Value    int32
	RefLoc   uint8
}

// EvaluateCondition checks if spec is true for given state.
func EvaluateCondition(state *GameState, playerID uint8, spec ConditionSpec) bool {
	var actual int32

	switch spec.OpCode {
	case OpCheckHandSize:
		actual = int32(len(state.Players[playerID].Hand))

	case OpCheckLocationSize:
		switch Location(spec.RefLoc) {
		case LocationDeck:
			actual = int32(len(state.Deck))
		case LocationDiscard:
			actual = int32(len(state.Discard))
		case LocationTableau:
			if len(state.Tableau) > 0 {
				actual = int32(len(state.Tableau[0]))
			}
		}

	case OpCheckCardRank:
		refCard := getReferencedCard(state, spec.RefLoc)
		return refCard != nil && int(refCard.Rank) == int(spec.Value)

	case OpCheckCardSuit:
		refCard := getReferencedCard(state, spec.RefLoc)
		return refCard != nil && int(refCard.Suit) == int(spec.Value)

	// Betting conditions (use int64 state fields)
	case OpCheckChipCount:
		return compareInt64(state.Players[playerID].Chips, spec.Operator, int64(spec.Value))

	case OpCheckPotSize:
		return compareInt64(state.Pot, spec.Operator, int64(spec.Value))

	case OpCheckCurrentBet:
		return compareInt64(state.CurrentBet, spec.Operator, int64(spec.Value))

	case OpCheckCanAfford:
		return state.Players[playerID].Chips >= int64(spec.Value)

	// Pattern matching over the hand
	case OpCheckHasSetOfN:
		requiredCount := int(spec.Value)
		rankCounts := make(map[uint8]int)
		for _, card := range state.Players[playerID].Hand {
			rankCounts[card.Rank]++
			if rankCounts[card.Rank] >= requiredCount {
				return true
			}
		}
		return false

	case OpCheckHasRunOfN:
		requiredLength := int(spec.Value)
		hand := state.Players[playerID].Hand
		if len(hand) < requiredLength {
			return false
		}

		sorted := make([]Card, len(hand))
		copy(sorted, hand)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Rank < sorted[j].Rank
		})

		runLength := 1
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Rank == sorted[i-1].Rank+1 {
				runLength++
				if runLength >= requiredLength {
					return true
				}
			} else if sorted[i].Rank != sorted[i-1].Rank {
				runLength = 1
			}
		}
		return false

	case OpCheckHasMatchingPair:
		hand := state.Players[playerID].Hand
		for i := 0; i < len(hand); i++ {
			for j := i + 1; j < len(hand); j++ {
				if hand[i].Rank == hand[j].Rank {
					color1 := hand[i].Suit / 2 // 0=red (H,D), 1=black (C,S)
					color2 := hand[j].Suit / 2
					if color1 == color2 {
						return true
					}
				}
			}
		}
		return false

	default:
		return false
	}

	return compareInt32(actual, spec.Operator, spec.Value)
}

// EvaluateCardCondition checks spec against a specific card rather than one
// looked up from state (e.g. "is the card about to be played a face card"),
// falling back to EvaluateCondition for specs that don't reference the card
// itself.
func EvaluateCardCondition(state *GameState, playerID uint8, card Card, spec ConditionSpec) bool {
	switch spec.OpCode {
	case OpCheckCardRank:
		return int(card.Rank) == int(spec.Value)
	case OpCheckCardSuit:
		return int(card.Suit) == int(spec.Value)
	default:
		return EvaluateCondition(state, playerID, spec)
	}
}

// compareInt32 applies comparison operator to int32 values.
func compareInt32(actual int32, operator uint8, value int32) bool {
	switch OpCode(operator + 50) {
	case OpEQ:
		return actual == value
	case OpNE:
		return actual != value
	case OpLT:
		return actual < value
	case OpGT:
		return actual > value
	case OpLE:
		return actual <= value
	case OpGE:
		return actual >= value
	default:
		return false
	}
}

// compareInt64 applies comparison operator to int64 values
func compareInt64(actual int64, operator uint8, value int64) bool {
	switch OpCode(operator + 50) {
	case OpEQ:
		return actual == value
	case OpNE:
		return actual != value
	case OpLT:
		return actual < value
	case OpGT:
		return actual > value
	case OpLE:
		return actual <= value
	case OpGE:
		return actual >= value
	default:
		return false
	}
}

func getReferencedCard(state *GameState, reference uint8) *Card {
	switch reference {
	case 1: // top_discard
		if len(state.Discard) > 0 {
			return &state.Discard[len(state.Discard)-1]
		}
	case 2: // last_played (tableau top)
		if len(state.Tableau) > 0 && len(state.Tableau[0]) > 0 {
			pile := state.Tableau[0]
			return &pile[len(pile)-1]
		}
	}
	return nil
}
