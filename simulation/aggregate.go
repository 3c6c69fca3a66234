package simulation

import "github.com/signalnine/darwinggp/gosim/cardengine"

// AIPlayerType specifies which AI to use
type AIPlayerType uint8

const (
	RandomAI   AIPlayerType = 0
	GreedyAI   AIPlayerType = 1
	MCTS100AI  AIPlayerType = 2
	MCTS500AI  AIPlayerType = 3
	MCTS1000AI AIPlayerType = 4
	MCTS2000AI AIPlayerType = 5
)

// GameMetrics holds per-game instrumentation counters produced by
// RunSingleGameTyped: decision/action counts plus the tension-curve and
// betting/bidding metrics fitness.SimulationResults consumes.
type GameMetrics struct {
	TotalDecisions    uint64 // Decision points (when player chooses move)
	TotalValidMoves   uint64 // Sum of valid moves at each decision
	ForcedDecisions   uint64 // Decisions with only 1 valid move
	TotalInteractions uint64 // Actions affecting opponent state
	TotalActions      uint64 // Total actions taken
	TotalHandSize     uint64 // Sum of hand size at each decision, for filtering ratio

	// Betting metrics (BettingPhase games)
	TotalBets     uint32
	BettingBluffs uint32
	FoldWins      uint32
	ShowdownWins  uint32
	AllInCount    uint32

	// Bluffing metrics (ClaimPhase games). No runner path populates these
	// yet (see cardengine/effects.go's ClaimPhase handling), but the fields
	// stay wired so fitness.computeInteractionFrequency's guards keep
	// working the moment claim instrumentation lands.
	TotalClaims       uint64
	TotalBluffs       uint64
	TotalChallenges   uint64
	SuccessfulBluffs  uint64
	SuccessfulCatches uint64

	// Tension curve metrics, populated from a cardengine.TensionMetrics
	// once a game (or its betting/bidding subrounds) finishes.
	LeadChanges       uint32
	DecisiveTurnPct   float32
	ClosestMargin     float32
	WinnerWasTrailing bool
}

// GameResult holds the outcome of a single game.
type GameResult struct {
	WinnerID    int8
	WinningTeam int8 // -1 if team play is off or no team won
	TurnCount   uint32
	DurationNs  uint64
	Error       string
	Metrics     GameMetrics
}

// AggregatedStats summarizes multiple game results.
type AggregatedStats struct {
	TotalGames    uint32
	Wins          []uint32 // Wins per player, index = player ID
	TeamWins      []uint32 // Wins per team, nil if no game reported team play
	Draws         uint32
	AvgTurns      float32
	MedianTurns   uint32
	AvgDurationNs uint64
	Errors        uint32

	// Instrumentation aggregated across all games
	TotalDecisions    uint64
	TotalValidMoves   uint64
	ForcedDecisions   uint64
	TotalInteractions uint64
	TotalActions      uint64
	TotalHandSize     uint64

	// Bluffing metrics (ClaimPhase games)
	TotalClaims       uint64
	TotalBluffs       uint64
	TotalChallenges   uint64
	SuccessfulBluffs  uint64
	SuccessfulCatches uint64

	// Betting metrics (BettingPhase games)
	TotalBets     uint64
	BettingBluffs uint64
	FoldWins      uint32
	ShowdownWins  uint32
	AllInCount    uint32

	// Tension curve metrics, averaged/summed across games that recorded them
	LeadChanges     uint64
	DecisiveTurnPct float64
	ClosestMargin   float64
	TrailingWinners uint32 // Games where the eventual winner trailed at some point
}

// aggregateResults computes summary statistics across a batch of games.
func aggregateResults(results []GameResult) AggregatedStats {
	stats := AggregatedStats{
		TotalGames: uint32(len(results)),
	}

	turnCounts := make([]uint32, 0, len(results))
	totalDuration := uint64(0)
	var decisiveSum, marginSum float64
	var tensionGames uint32

	for _, result := range results {
		if result.Error != "" {
			stats.Errors++
			continue
		}

		switch {
		case result.WinnerID < 0:
			stats.Draws++
		default:
			for len(stats.Wins) <= int(result.WinnerID) {
				stats.Wins = append(stats.Wins, 0)
			}
			stats.Wins[result.WinnerID]++
		}

		if result.WinningTeam >= 0 {
			for len(stats.TeamWins) <= int(result.WinningTeam) {
				stats.TeamWins = append(stats.TeamWins, 0)
			}
			stats.TeamWins[result.WinningTeam]++
		}

		turnCounts = append(turnCounts, result.TurnCount)
		totalDuration += result.DurationNs

		m := result.Metrics
		stats.TotalDecisions += m.TotalDecisions
		stats.TotalValidMoves += m.TotalValidMoves
		stats.ForcedDecisions += m.ForcedDecisions
		stats.TotalInteractions += m.TotalInteractions
		stats.TotalActions += m.TotalActions
		stats.TotalHandSize += m.TotalHandSize

		stats.TotalClaims += m.TotalClaims
		stats.TotalBluffs += m.TotalBluffs
		stats.TotalChallenges += m.TotalChallenges
		stats.SuccessfulBluffs += m.SuccessfulBluffs
		stats.SuccessfulCatches += m.SuccessfulCatches

		stats.TotalBets += uint64(m.TotalBets)
		stats.BettingBluffs += uint64(m.BettingBluffs)
		stats.FoldWins += m.FoldWins
		stats.ShowdownWins += m.ShowdownWins
		stats.AllInCount += m.AllInCount

		if m.LeadChanges > 0 || m.DecisiveTurnPct > 0 || m.ClosestMargin > 0 {
			stats.LeadChanges += uint64(m.LeadChanges)
			decisiveSum += float64(m.DecisiveTurnPct)
			marginSum += float64(m.ClosestMargin)
			tensionGames++
		}
		if m.WinnerWasTrailing {
			stats.TrailingWinners++
		}
	}

	if tensionGames > 0 {
		stats.DecisiveTurnPct = decisiveSum / float64(tensionGames)
		stats.ClosestMargin = marginSum / float64(tensionGames)
	}

	if len(turnCounts) > 0 {
		sum := uint64(0)
		for _, tc := range turnCounts {
			sum += uint64(tc)
		}
		stats.AvgTurns = float32(sum) / float32(len(turnCounts))
		stats.MedianTurns = median(turnCounts)
	}

	if stats.TotalGames > 0 {
		stats.AvgDurationNs = totalDuration / uint64(stats.TotalGames)
	}

	return stats
}

// median calculates the median of a slice.
func median(values []uint32) uint32 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]uint32, len(values))
	copy(sorted, values)

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i] > sorted[j] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// setupDeck creates and shuffles a standard 52-card deck.
func setupDeck(state *cardengine.GameState, seed uint64) {
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			state.Deck = append(state.Deck, cardengine.Card{Rank: rank, Suit: suit})
		}
	}
	state.ShuffleDeck(seed)
}

// scoreMove assigns a heuristic value to a move: prefer playing a card
// (over a pass-like move) and prefer higher-ranked cards.
func scoreMove(state *cardengine.GameState, move *cardengine.LegalMove) float64 {
	score := 0.0

	if move.CardIndex >= 0 {
		score += 10.0
		if move.CardIndex < len(state.Players[state.CurrentPlayer].Hand) {
			card := state.Players[state.CurrentPlayer].Hand[move.CardIndex]
			score += float64(card.Rank)
		}
	}

	return score
}
