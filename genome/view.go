package genome

import (
	"encoding/json"

	"github.com/signalnine/darwinggp/gosim/cardengine"
)

// redactedView is the JSON shape behind an engine.View: the viewing
// player's own hand in full, every other hand reduced to a card count,
// and all information that is public regardless of seat.
type redactedView struct {
	Self          int
	OwnHand       []cardengine.Card
	OtherHandSize []int
	Discard       []cardengine.Card
	DiscardCount  int
	Tableau       [][]cardengine.Card
	DeckSize      int
	CurrentPlayer uint8
	TurnNumber    uint32
	Scores        []int32
	CurrentTrick  []cardengine.TrickCard
	TrickLeader   uint8
	TricksWon     []uint8
	HeartsBroken  bool
	Pot           int64
	CurrentBet    int64
	PlayerChips   []int64
	HasFolded     []bool
	CurrentBids   []int
	BettingDone   bool
	BiddingDone   bool
	CurrentClaim  *cardengine.Claim
}

func newRedactedView(gs *cardengine.GameState, self int) redactedView {
	n := int(gs.NumPlayers)
	v := redactedView{
		Self:          self,
		OtherHandSize: make([]int, n),
		Discard:       gs.Discard,
		DiscardCount:  len(gs.Discard),
		Tableau:       gs.Tableau,
		DeckSize:      len(gs.Deck),
		CurrentPlayer: gs.CurrentPlayer,
		TurnNumber:    gs.TurnNumber,
		Scores:        make([]int32, n),
		CurrentTrick:  gs.CurrentTrick,
		TrickLeader:   gs.TrickLeader,
		TricksWon:     gs.TricksWon,
		HeartsBroken:  gs.HeartsBroken,
		Pot:           gs.Pot,
		CurrentBet:    gs.CurrentBet,
		PlayerChips:   make([]int64, n),
		HasFolded:     make([]bool, n),
		CurrentBids:   make([]int, n),
		BettingDone:   gs.BettingComplete,
		BiddingDone:   gs.BiddingComplete,
		CurrentClaim:  gs.CurrentClaim,
	}

	if self >= 0 && self < n {
		v.OwnHand = gs.Players[self].Hand
	}
	for i := 0; i < n; i++ {
		v.Scores[i] = gs.Players[i].Score
		v.PlayerChips[i] = gs.Players[i].Chips
		v.HasFolded[i] = gs.Players[i].HasFolded
		v.CurrentBids[i] = gs.Players[i].CurrentBid
		if i != self {
			v.OtherHandSize[i] = len(gs.Players[i].Hand)
		}
	}
	return v
}

func viewJSON(v redactedView) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
