package cardengine

// EffectType constants mirror genome.EffectType's ordinals exactly, so
// genome's apply step can hand a SpecialEffect across the package boundary
// by casting genome.EffectType to uint8 rather than translating it.
const (
	EFFECT_SKIP_NEXT = iota
	EFFECT_REVERSE
	EFFECT_DRAW_TWO
	EFFECT_DRAW_FOUR
	EFFECT_WILD
	EFFECT_SWAP_HANDS
	EFFECT_BLOCK_NEXT
	EFFECT_STEAL_CARD
	EFFECT_PEEK_HAND
	EFFECT_DISCARD_PILE
)

// Target constants
const (
	TARGET_NEXT_PLAYER = iota
	TARGET_PREV_PLAYER
	TARGET_PLAYER_CHOICE
	TARGET_RANDOM_OPPONENT
	TARGET_ALL_OPPONENTS
	TARGET_LEFT_OPPONENT
	TARGET_RIGHT_OPPONENT
)

// SpecialEffect represents a card-triggered effect
type SpecialEffect struct {
	TriggerRank uint8
	EffectType  uint8
	Target      uint8
	Value       uint8
}

// RNG interface for deterministic random (nil = no random effects)
type RNG interface {
	Intn(n int) int
}

// ApplyEffect executes a special effect on the game state. Skip/Reverse/
// Draw/BlockNext mutate turn order and hands directly and take hold the
// next time AdvanceTurn runs; Wild and PeekHand carry no state mutation
// of their own here (Wild is resolved by the move that plays the card,
// PeekHand is a Sees-time visibility concern, not a state transform).
func ApplyEffect(state *GameState, effect *SpecialEffect, rng RNG) {
	switch effect.EffectType {
	case EFFECT_SKIP_NEXT, EFFECT_BLOCK_NEXT:
		skip := effect.Value
		if skip == 0 {
			skip = 1
		}
		state.SkipCount += skip
		maxSkip := state.NumPlayers - 1
		if state.SkipCount > maxSkip {
			state.SkipCount = maxSkip
		}

	case EFFECT_REVERSE:
		state.PlayDirection *= -1

	case EFFECT_DRAW_TWO, EFFECT_DRAW_FOUR:
		count := effect.Value
		if count == 0 {
			count = 2
		}
		applyToTargets(state, effect.Target, rng, func(targetID int) {
			for i := uint8(0); i < count && len(state.Deck) > 0; i++ {
				card := state.Deck[0]
				state.Deck = state.Deck[1:]
				state.Players[targetID].Hand = append(state.Players[targetID].Hand, card)
			}
		})

	case EFFECT_SWAP_HANDS:
		applyToTargets(state, effect.Target, rng, func(targetID int) {
			current := int(state.CurrentPlayer)
			state.Players[current].Hand, state.Players[targetID].Hand =
				state.Players[targetID].Hand, state.Players[current].Hand
		})

	case EFFECT_STEAL_CARD:
		applyToTargets(state, effect.Target, rng, func(targetID int) {
			hand := &state.Players[targetID].Hand
			if len(*hand) == 0 || rng == nil {
				return
			}
			idx := rng.Intn(len(*hand))
			card := (*hand)[idx]
			*hand = append((*hand)[:idx], (*hand)[idx+1:]...)
			current := int(state.CurrentPlayer)
			state.Players[current].Hand = append(state.Players[current].Hand, card)
		})

	case EFFECT_DISCARD_PILE:
		applyToTargets(state, effect.Target, rng, func(targetID int) {
			hand := &state.Players[targetID].Hand
			state.Discard = append(state.Discard, (*hand)...)
			*hand = (*hand)[:0]
		})

	case EFFECT_WILD, EFFECT_PEEK_HAND:
		// Resolved elsewhere; no direct state mutation.

	default:
		// Unknown effect type - ignore for forward compatibility
	}
}

// resolveTarget determines which player(s) an effect targets
func resolveTarget(state *GameState, target uint8) int {
	current := int(state.CurrentPlayer)
	numPlayers := int(state.NumPlayers)
	direction := int(state.PlayDirection)

	switch target {
	case TARGET_NEXT_PLAYER:
		return (current + direction + numPlayers) % numPlayers
	case TARGET_PREV_PLAYER:
		return (current - direction + numPlayers) % numPlayers
	case TARGET_ALL_OPPONENTS:
		// Returns -1 to signal caller must loop over all opponents
		return -1
	default:
		return (current + 1) % numPlayers
	}
}

// applyToTargets handles single target or ALL_OPPONENTS
func applyToTargets(state *GameState, target uint8, rng RNG, action func(int)) {
	targetID := resolveTarget(state, target)
	if targetID == -1 {
		// ALL_OPPONENTS: apply to everyone except current player
		for i := 0; i < int(state.NumPlayers); i++ {
			if i != int(state.CurrentPlayer) {
				action(i)
			}
		}
	} else {
		action(targetID)
	}
}

// AdvanceTurn moves to the next player, respecting direction and skips
func AdvanceTurn(state *GameState) {
	step := int(state.PlayDirection)
	next := int(state.CurrentPlayer)
	numPlayers := int(state.NumPlayers)

	// Always advance at least once, plus any skips
	for i := 0; i <= int(state.SkipCount); i++ {
		next = (next + step + numPlayers) % numPlayers
	}

	state.CurrentPlayer = uint8(next)
	state.SkipCount = 0 // Reset after applying
}
