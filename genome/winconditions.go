package genome

import "github.com/signalnine/darwinggp/gosim/cardengine"

// CheckWinConditionsTyped evaluates g.WinConditions against state in
// order, returning the first declared winner, or -1 if none has been
// met yet. Grounded in cardengine.CheckWinConditions's bytecode switch,
// generalized with the two win types (BestHand, MostCaptured) that
// switch never implemented.
func CheckWinConditionsTyped(state *cardengine.GameState, g *GameGenome) int8 {
	n := int(state.NumPlayers)
	if n == 0 {
		n = len(state.Players)
	}

	for _, wc := range g.WinConditions {
		switch wc.Type {
		case WinTypeEmptyHand:
			for i := 0; i < n; i++ {
				if len(state.Players[i].Hand) == 0 {
					return int8(i)
				}
			}

		case WinTypeHighScore:
			if anyScoreAtLeast(state, n, wc.Threshold) {
				return bestScorer(state, n, true)
			}

		case WinTypeFirstToScore:
			for i := 0; i < n; i++ {
				if state.Players[i].Score >= wc.Threshold {
					return int8(i)
				}
			}

		case WinTypeCaptureAll:
			for i := 0; i < n; i++ {
				if len(state.Players[i].Hand) == 0 {
					continue
				}
				othersEmpty := true
				for j := 0; j < n; j++ {
					if j != i && len(state.Players[j].Hand) > 0 {
						othersEmpty = false
						break
					}
				}
				if othersEmpty {
					return int8(i)
				}
			}

		case WinTypeLowScore:
			if anyScoreAtLeast(state, n, wc.Threshold) {
				return bestScorer(state, n, false)
			}

		case WinTypeAllHandsEmpty:
			if allHandsEmpty(state, n) {
				return bestScorer(state, n, false)
			}

		case WinTypeBestHand:
			// Showdown hand comparison needs a configured HandEval; without
			// one there is nothing to rank, so this condition never fires.
			if g.HandEval != nil && allHandsEmpty(state, n) {
				return bestScorer(state, n, true)
			}

		case WinTypeMostCaptured:
			if len(state.Deck) == 0 && len(state.Discard) == 0 {
				return mostCards(state, n)
			}
		}
	}
	return -1
}

func anyScoreAtLeast(state *cardengine.GameState, n int, threshold int32) bool {
	for i := 0; i < n; i++ {
		if state.Players[i].Score >= threshold {
			return true
		}
	}
	return false
}

func allHandsEmpty(state *cardengine.GameState, n int) bool {
	for i := 0; i < n; i++ {
		if len(state.Players[i].Hand) > 0 {
			return false
		}
	}
	return true
}

// bestScorer returns the player with the highest (highWins) or lowest
// score among the n active players.
func bestScorer(state *cardengine.GameState, n int, highWins bool) int8 {
	best := int8(-1)
	var bestScore int32
	for i := 0; i < n; i++ {
		score := state.Players[i].Score
		if best == -1 || (highWins && score > bestScore) || (!highWins && score < bestScore) {
			bestScore = score
			best = int8(i)
		}
	}
	return best
}

func mostCards(state *cardengine.GameState, n int) int8 {
	best := int8(-1)
	bestCount := -1
	for i := 0; i < n; i++ {
		if len(state.Players[i].Hand) > bestCount {
			bestCount = len(state.Players[i].Hand)
			best = int8(i)
		}
	}
	return best
}
