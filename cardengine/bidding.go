package cardengine

// Move sentinels: LegalMove.CardIndex values that don't index into a hand,
// one disjoint range per phase kind so ApplyMove's switch can tell them
// apart regardless of PhaseIndex.
const (
	MoveDraw      = -1 // draw/hit from the phase's source
	MovePlayPass  = -2 // decline to play this phase
	MoveDrawPass  = -3 // decline to draw (stand)
	MoveChallenge = -4 // challenge the current claim
	MovePass      = -5 // let the current claim stand
	MoveBidOffset = -1000
)

// BiddingPhase mirrors genome.BiddingPhase's tunables without importing
// package genome, so cardengine stays the leaf of the dependency graph.
type BiddingPhase struct {
	MinBid   int
	MaxBid   int
	AllowNil bool
}

// BidMove is a candidate bid a player may make during a BiddingPhase.
type BidMove struct {
	Value int
	IsNil bool
}

// GenerateBidMoves enumerates the bids available to a player with handSize
// cards, capping MaxBid at the hand size (a contract can never exceed the
// tricks a hand could possibly take).
func GenerateBidMoves(phase BiddingPhase, handSize int) []BidMove {
	maxBid := phase.MaxBid
	if maxBid > handSize {
		maxBid = handSize
	}
	minBid := phase.MinBid
	if minBid < 0 {
		minBid = 0
	}

	moves := make([]BidMove, 0, maxBid-minBid+2)
	for v := minBid; v <= maxBid; v++ {
		moves = append(moves, BidMove{Value: v})
	}
	if phase.AllowNil {
		moves = append(moves, BidMove{Value: 0, IsNil: true})
	}
	return moves
}

// ApplyBid records a player's bid.
func ApplyBid(state *GameState, playerID uint8, bid BidMove) {
	state.Players[playerID].CurrentBid = bid.Value
	state.Players[playerID].IsNilBid = bid.IsNil
}

// AllPlayersBid reports whether each of the first NumPlayers seats has
// bid this hand (CurrentBid >= 0).
func AllPlayersBid(state *GameState) bool {
	for i := 0; i < int(state.NumPlayers); i++ {
		if state.Players[i].CurrentBid < 0 {
			return false
		}
	}
	return true
}
