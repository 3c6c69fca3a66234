package genome

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/signalnine/darwinggp/gosim/cardengine"
)

// EncodeState serializes a cardengine.GameState into the opaque
// engine.State string an Interpreter hands to the search core, using
// encoding/gob over the struct's declared field order rather than a
// hand-rolled binary layout.
func EncodeState(state *cardengine.GameState) string {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		// GameState holds only gob-safe exported fields; an Encode
		// failure here means the struct shape changed incompatibly.
		panic(fmt.Sprintf("genome: encode state: %v", err))
	}
	return buf.String()
}

// DecodeState is EncodeState's inverse, returning a fresh *GameState from
// the cardengine.StatePool rather than allocating bare.
func DecodeState(raw string) (*cardengine.GameState, error) {
	state := cardengine.GetState()
	if err := gob.NewDecoder(bytes.NewReader([]byte(raw))).Decode(state); err != nil {
		cardengine.PutState(state)
		return nil, fmt.Errorf("genome: decode state: %w", err)
	}
	return state, nil
}
