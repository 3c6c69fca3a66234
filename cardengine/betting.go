package cardengine

import "sort"

// BettingPhaseData holds the tunable parameters of a betting phase.
type BettingPhaseData struct {
	MinBet    int // Minimum bet/raise amount
	MaxRaises int // Maximum raises per round (prevents infinite loops)
}

// BettingAction represents a betting action type
type BettingAction int

const (
	BettingCheck BettingAction = iota
	BettingBet
	BettingCall
	BettingRaise
	BettingAllIn
	BettingFold
)

// GenerateBettingMoves returns all valid betting actions for a player
func GenerateBettingMoves(gs *GameState, phase *BettingPhaseData, playerID int) []BettingAction {
	player := &gs.Players[playerID]
	moves := make([]BettingAction, 0, 4)

	// Can't act if folded, all-in, or no chips
	if player.HasFolded || player.IsAllIn || player.Chips <= 0 {
		return moves
	}

	toCall := gs.CurrentBet - player.CurrentBet

	if toCall == 0 {
		// No bet to match
		moves = append(moves, BettingCheck)
		if player.Chips >= int64(phase.MinBet) {
			moves = append(moves, BettingBet)
		} else if player.Chips > 0 {
			// Can't afford min bet, but can go all-in
			moves = append(moves, BettingAllIn)
		}
	} else {
		// Must match, raise, all-in, or fold
		if player.Chips >= toCall {
			moves = append(moves, BettingCall)
			if player.Chips >= toCall+int64(phase.MinBet) && gs.RaiseCount < phase.MaxRaises {
				moves = append(moves, BettingRaise)
			}
		}
		if player.Chips > 0 && player.Chips < toCall {
			// Can't afford call, but can go all-in
			moves = append(moves, BettingAllIn)
		}
		moves = append(moves, BettingFold)
	}

	return moves
}

// ApplyBettingAction executes a betting action, mutating the game state
func ApplyBettingAction(gs *GameState, phase *BettingPhaseData, playerID int, action BettingAction) {
	player := &gs.Players[playerID]

	switch action {
	case BettingCheck:
		// No change
	case BettingBet:
		player.Chips -= int64(phase.MinBet)
		player.CurrentBet += int64(phase.MinBet)
		player.TotalContributed += int64(phase.MinBet)
		gs.Pot += int64(phase.MinBet)
		gs.CurrentBet = int64(phase.MinBet)
	case BettingCall:
		toCall := gs.CurrentBet - player.CurrentBet
		player.Chips -= toCall
		player.CurrentBet = gs.CurrentBet
		player.TotalContributed += toCall
		gs.Pot += toCall
	case BettingRaise:
		toCall := gs.CurrentBet - player.CurrentBet
		raiseAmount := toCall + int64(phase.MinBet)
		player.Chips -= raiseAmount
		player.CurrentBet = gs.CurrentBet + int64(phase.MinBet)
		player.TotalContributed += raiseAmount
		gs.Pot += raiseAmount
		gs.CurrentBet = player.CurrentBet
		gs.RaiseCount++
	case BettingAllIn:
		amount := player.Chips
		player.Chips = 0
		player.CurrentBet += amount
		player.TotalContributed += amount
		gs.Pot += amount
		player.IsAllIn = true
		if player.CurrentBet > gs.CurrentBet {
			gs.CurrentBet = player.CurrentBet
		}
	case BettingFold:
		player.HasFolded = true
	}
}

// CountActivePlayers returns the number of players who haven't folded
func CountActivePlayers(gs *GameState) int {
	count := 0
	for _, p := range gs.Players {
		if !p.HasFolded {
			count++
		}
	}
	return count
}

// CountActingPlayers returns the number of players who can still act
// (not folded, not all-in, and have chips)
func CountActingPlayers(gs *GameState) int {
	count := 0
	for _, p := range gs.Players {
		if !p.HasFolded && !p.IsAllIn && p.Chips > 0 {
			count++
		}
	}
	return count
}

// AllBetsMatched returns true if all active players have matched the current bet
// or are all-in/folded
func AllBetsMatched(gs *GameState) bool {
	for _, p := range gs.Players {
		if !p.HasFolded && !p.IsAllIn && p.CurrentBet != gs.CurrentBet {
			return false
		}
	}
	return true
}

// ResolveShowdown determines which players are eligible to win the pot
// Returns a slice of player IDs that are still in the hand (not folded)
// If only one player remains, they win automatically
// If multiple players remain, actual hand comparison is done elsewhere
func ResolveShowdown(gs *GameState) []int {
	activePlayers := []int{}
	for i, p := range gs.Players {
		if !p.HasFolded {
			activePlayers = append(activePlayers, i)
		}
	}

	return activePlayers
}

// AwardPot distributes the pot to the winner(s), honoring side pots: a
// winner who went all-in for less than another winner's total
// contribution can only win back up to what they put in from each
// other player, with the excess returning to the bigger stack. Splits
// within a side pot are even, remainder to the lowest-indexed eligible
// winner for that pot. Any part of gs.Pot not covered by recorded
// TotalContributed amounts is split evenly across winnerIDs, remainder
// to the first winner in winnerIDs order.
func AwardPot(gs *GameState, winnerIDs []int) {
	if len(winnerIDs) == 0 {
		return
	}
	if len(winnerIDs) == 1 {
		gs.Players[winnerIDs[0]].Chips += gs.Pot
		gs.Pot = 0
		return
	}

	covered := int64(0)
	for _, pot := range sidePots(gs, winnerIDs) {
		covered += pot.amount
		if pot.amount <= 0 || len(pot.eligible) == 0 {
			continue
		}
		share := pot.amount / int64(len(pot.eligible))
		remainder := pot.amount % int64(len(pot.eligible))
		for i, id := range pot.eligible {
			gs.Players[id].Chips += share
			if i == 0 {
				gs.Players[id].Chips += remainder
			}
		}
	}
	if uncovered := gs.Pot - covered; uncovered > 0 {
		share := uncovered / int64(len(winnerIDs))
		for i, id := range winnerIDs {
			gs.Players[id].Chips += share
			if i == 0 {
				gs.Players[id].Chips += uncovered % int64(len(winnerIDs))
			}
		}
	}
	gs.Pot = 0
}

type sidePot struct {
	amount   int64
	eligible []int
}

// sidePots layers gs.Pot into contribution tiers across every player who
// put chips in this hand (winners or not), so a short all-in stack only
// contests the portion of the pot it could actually match.
func sidePots(gs *GameState, winnerIDs []int) []sidePot {
	winnerSet := make(map[int]bool, len(winnerIDs))
	for _, id := range winnerIDs {
		winnerSet[id] = true
	}

	levels := make(map[int64]bool)
	for i := range gs.Players {
		if gs.Players[i].TotalContributed > 0 {
			levels[gs.Players[i].TotalContributed] = true
		}
	}
	sorted := make([]int64, 0, len(levels))
	for lvl := range levels {
		sorted = append(sorted, lvl)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var pots []sidePot
	prev := int64(0)
	for _, lvl := range sorted {
		var amount int64
		eligible := make([]int, 0, len(winnerIDs))
		for i := range gs.Players {
			contributed := gs.Players[i].TotalContributed
			if contributed <= prev {
				continue
			}
			tier := contributed
			if tier > lvl {
				tier = lvl
			}
			amount += tier - prev
			if contributed >= lvl && winnerSet[i] {
				eligible = append(eligible, i)
			}
		}
		sort.Ints(eligible)
		pots = append(pots, sidePot{amount: amount, eligible: eligible})
		prev = lvl
	}
	return pots
}

// ============================================================================
// AI Betting Action Selection
// ============================================================================

// SelectRandomBettingAction picks a random action from available moves.
func SelectRandomBettingAction(moves []BettingAction, rngIntn func(n int) int) BettingAction {
	if len(moves) == 0 {
		return BettingFold // Fallback
	}
	return moves[rngIntn(len(moves))]
}

// SelectGreedyBettingAction picks action based on hand strength heuristic.
// strongThreshold = 0.7, mediumThreshold = 0.3
func SelectGreedyBettingAction(gs *GameState, moves []BettingAction, handStrength float64) BettingAction {
	// Strong hand (>0.7): Raise > Bet > AllIn
	if handStrength > 0.7 {
		if containsBettingAction(moves, BettingRaise) {
			return BettingRaise
		}
		if containsBettingAction(moves, BettingBet) {
			return BettingBet
		}
		if containsBettingAction(moves, BettingAllIn) {
			return BettingAllIn
		}
	}

	// Medium hand (>0.3): Call > Check
	if handStrength > 0.3 {
		if containsBettingAction(moves, BettingCall) {
			return BettingCall
		}
		if containsBettingAction(moves, BettingCheck) {
			return BettingCheck
		}
	}

	// Weak hand: Check > Fold
	if containsBettingAction(moves, BettingCheck) {
		return BettingCheck
	}
	return BettingFold
}

// containsBettingAction checks if action is in moves
func containsBettingAction(moves []BettingAction, target BettingAction) bool {
	for _, m := range moves {
		if m == target {
			return true
		}
	}
	return false
}

// EvaluateHandStrength returns a 0-1 score based on poker hand ranking heuristics.
// Simple implementation: based on high cards and pairs.
// Rank values: 0=Ace, 1-9=2-10, 10=Jack, 11=Queen, 12=King
// For scoring, Ace is high (treated as 13), King is 12, etc.
func EvaluateHandStrength(hand []Card) float64 {
	if len(hand) == 0 {
		return 0.0
	}

	// Count pairs, trips, etc.
	rankCounts := make(map[uint8]int)
	for _, card := range hand {
		rankCounts[card.Rank]++
	}

	maxCount := 0
	highRank := uint8(0)
	for rank, count := range rankCounts {
		if count > maxCount {
			maxCount = count
		}
		// Convert rank for comparison: Ace (0) becomes highest (13)
		effectiveRank := rank
		if rank == 0 {
			effectiveRank = 13 // Ace high
		}
		if effectiveRank > highRank {
			highRank = effectiveRank
		}
	}

	// Score components
	// pairScore: 0 for no pair, 0.2 for pair, 0.4 for trips, 0.6 for quads
	pairScore := float64(maxCount-1) * 0.2
	// highCardScore: 0-0.4 based on highest card (Ace = 13, King = 12)
	highCardScore := float64(highRank) / 13.0 * 0.4

	return minFloat64(pairScore+highCardScore, 1.0)
}

// FindBestPokerWinner picks the showdown winner among the first
// numPlayers players who haven't folded, by EvaluateHandStrength. Ties
// go to the lower player index. Returns -1 if everyone has folded.
func FindBestPokerWinner(gs *GameState, numPlayers int) int8 {
	best := int8(-1)
	bestStrength := -1.0
	for i := 0; i < numPlayers; i++ {
		if gs.Players[i].HasFolded {
			continue
		}
		strength := EvaluateHandStrength(gs.Players[i].Hand)
		if strength > bestStrength {
			bestStrength = strength
			best = int8(i)
		}
	}
	return best
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
