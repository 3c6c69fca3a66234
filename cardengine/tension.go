package cardengine

// TensionMetrics tracks tension curve data during simulation
type TensionMetrics struct {
	LeadChanges       int     // Number of times leader switched
	DecisiveTurn      int     // Zero-based turn when winner took PERMANENT lead
	ClosestMargin     float32 // Smallest normalized gap between 1st and 2nd (0 = tied)
	TotalTurns        int     // For computing decisive turn percentage
	WinnerWasTrailing bool    // True if the eventual winner was behind at some point

	// Internal tracking (not serialized)
	currentLeader int   // Player ID of current leader (-1 for tie)
	leaderHistory []int // Leader at each turn (for permanent lead calculation)
}

// LeaderDetector interface for game-type-specific leader detection
type LeaderDetector interface {
	GetLeader(state *GameState) int     // Returns player ID or -1 for tie
	GetMargin(state *GameState) float32 // Normalized gap (0-1), 0 = tied, 1 = max gap
}

// ScoreLeaderDetector ranks players by PlayerState.Score, the common case
// for trick-taking and point-accumulation genomes. Games that track
// progress some other way (e.g. chip count) should pass their own
// LeaderDetector to Update instead.
type ScoreLeaderDetector struct{}

func (ScoreLeaderDetector) GetLeader(state *GameState) int {
	n := int(state.NumPlayers)
	if n == 0 {
		n = len(state.Players)
	}
	leader := -1
	var best, second int32
	tied := false
	for i := 0; i < n; i++ {
		score := state.Players[i].Score
		if leader == -1 || score > best {
			second = best
			best = score
			leader = i
			tied = false
		} else if score == best {
			tied = true
		} else if score > second {
			second = score
		}
	}
	if tied {
		return -1
	}
	return leader
}

func (ScoreLeaderDetector) GetMargin(state *GameState) float32 {
	n := int(state.NumPlayers)
	if n == 0 {
		n = len(state.Players)
	}
	if n == 0 {
		return 0
	}
	var best, second int32 = -1 << 31, -1 << 31
	for i := 0; i < n; i++ {
		score := state.Players[i].Score
		if score > best {
			second = best
			best = score
		} else if score > second {
			second = score
		}
	}
	gap := best - second
	if gap < 0 {
		gap = 0
	}
	denom := best
	if denom <= 0 {
		denom = 1
	}
	margin := float32(gap) / float32(denom)
	if margin > 1 {
		margin = 1
	}
	return margin
}

// NewTensionMetrics creates initialized tension tracker
func NewTensionMetrics(numPlayers int) *TensionMetrics {
	return &TensionMetrics{
		currentLeader: -1,
		ClosestMargin: 1.0,
		leaderHistory: make([]int, 0, 100),
	}
}

// Update records the current leader and margin for this turn, bumping
// LeadChanges whenever the leader differs from the previous turn.
func (t *TensionMetrics) Update(state *GameState, detector LeaderDetector) {
	if detector == nil {
		return
	}
	leader := detector.GetLeader(state)
	t.leaderHistory = append(t.leaderHistory, leader)
	t.TotalTurns++

	if leader != -1 && t.currentLeader != -1 && leader != t.currentLeader {
		t.LeadChanges++
	}
	if leader != -1 {
		t.currentLeader = leader
	}

	margin := detector.GetMargin(state)
	if margin < t.ClosestMargin {
		t.ClosestMargin = margin
	}
}

// Finalize computes DecisiveTurn (the turn after which the leader
// history never shows anyone but winner) and WinnerWasTrailing (whether
// some earlier turn had a different leader). winner == -1 (no winner,
// e.g. timeout or draw) just freezes the counters as they stand.
func (t *TensionMetrics) Finalize(winner int) {
	if winner < 0 || len(t.leaderHistory) == 0 {
		return
	}

	t.DecisiveTurn = len(t.leaderHistory)
	for i := len(t.leaderHistory) - 1; i >= 0; i-- {
		if t.leaderHistory[i] != winner {
			t.DecisiveTurn = i + 1
			break
		}
		if i == 0 {
			t.DecisiveTurn = 0
		}
	}

	for _, leader := range t.leaderHistory {
		if leader != -1 && leader != winner {
			t.WinnerWasTrailing = true
			break
		}
	}
}

// DecisiveTurnPct returns DecisiveTurn as a fraction of TotalTurns (0 if
// no turns were recorded), i.e. how late the game's outcome was sealed.
func (t *TensionMetrics) DecisiveTurnPct() float32 {
	if t.TotalTurns == 0 {
		return 0
	}
	return float32(t.DecisiveTurn) / float32(t.TotalTurns)
}
