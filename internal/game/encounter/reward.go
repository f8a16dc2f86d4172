package encounter

import "fmt"

// StateDelta is the concrete state change produced by applying a reward. The
// caller owns the player state and applies the delta itself, keeping the
// applier pure.
type StateDelta struct {
	// HpDelta is a positive HP change.
	HpDelta int
	// VisionRadiusDelta increases the visibility falloff radius.
	VisionRadiusDelta int
	// BuffCombats, when > 0, sets the "combats remaining with reduced
	// damage" counter to this value.
	BuffCombats int
}

// Zero reports whether the delta changes nothing.
func (d StateDelta) Zero() bool {
	return d == StateDelta{}
}

// ApplyReward translates a reward into a state delta and a human-readable
// description of the effect.
//
// Postcondition: exactly one delta field is non-zero for a non-none reward
// with a positive value; a none reward returns the zero delta.
func ApplyReward(r Reward) (StateDelta, string) {
	switch r.Kind {
	case RewardHpGain:
		return StateDelta{HpDelta: r.Value}, fmt.Sprintf("You recover %d HP.", r.Value)
	case RewardVisionGain:
		return StateDelta{VisionRadiusDelta: r.Value}, fmt.Sprintf("Your lantern reaches %d further.", r.Value)
	case RewardBuff:
		return StateDelta{BuffCombats: r.Value}, fmt.Sprintf("Your next %d fights will go easier.", r.Value)
	default:
		return StateDelta{}, "Nothing happens."
	}
}
