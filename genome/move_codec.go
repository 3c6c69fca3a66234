package genome

import (
	"fmt"

	"github.com/signalnine/darwinggp/gosim/cardengine"
	"github.com/signalnine/darwinggp/gosim/engine"
)

// encodeMove/decodeMove give cardengine.LegalMove the opaque, comparable
// engine.Move representation the search core requires, without needing
// the core to know anything about phases or card indices.
func encodeMove(m cardengine.LegalMove) engine.Move {
	return engine.Move(fmt.Sprintf("%d:%d:%d", m.PhaseIndex, m.CardIndex, m.TargetLoc))
}

func decodeMove(move engine.Move) (cardengine.LegalMove, error) {
	var phaseIdx, cardIdx int
	var target uint8
	_, err := fmt.Sscanf(string(move), "%d:%d:%d", &phaseIdx, &cardIdx, &target)
	if err != nil {
		return cardengine.LegalMove{}, fmt.Errorf("genome: decode move %q: %w", move, err)
	}
	return cardengine.LegalMove{PhaseIndex: phaseIdx, CardIndex: cardIdx, TargetLoc: cardengine.Location(target)}, nil
}
