package encounter

import "errors"

// Choice identifies a player selection when resolving a record. Chest and
// shrine encounters use the fixed constants; dialogue encounters use the
// authored DialogueChoice ID.
type Choice string

// Fixed choice constants for chest and shrine encounters.
const (
	ChoiceOpen      Choice = "open"
	ChoiceIgnore    Choice = "ignore"
	ChoiceSacrifice Choice = "sacrifice"
	ChoiceRefuse    Choice = "refuse"
)

// ErrNoSuchChoice is returned by ResolveDialogue when the requested choice
// does not exist on the record. The accompanying Resolution is the documented
// neutral no-op; the error is the distinguishable signal that the UI and the
// content disagree.
var ErrNoSuchChoice = errors.New("encounter: no matching dialogue choice")

// Resolution is the outcome of a non-combat encounter interaction.
type Resolution struct {
	// HpDelta is applied to the player's HP (negative for damage).
	HpDelta int
	// Reward is granted by the outcome; may be the zero (none) reward.
	Reward Reward
	// Text is the outcome narration for display.
	Text string
	// PlayerDied reports (currentHP + HpDelta) <= 0.
	PlayerDied bool
}

// ResolveChest computes a chest outcome. Opening a trapped chest costs its
// trap damage but still grants the reward; opening a safe chest grants the
// reward for free. Any other choice leaves the chest untouched.
func ResolveChest(params ChestParams, choice Choice, currentHP int) Resolution {
	if choice != ChoiceOpen {
		return Resolution{Text: "You leave the chest unopened."}
	}
	res := Resolution{
		Reward: params.Reward,
		Text:   "The chest creaks open.",
	}
	if params.Trapped {
		res.HpDelta = -params.TrapDamage
		res.Text = "A trap snaps shut as the chest opens."
	}
	res.PlayerDied = currentHP+res.HpDelta <= 0
	return res
}

// ResolveShrine computes a shrine outcome. Sacrificing costs the shrine's HP
// price and grants its reward; refusing has no effect.
func ResolveShrine(params ShrineParams, choice Choice, currentHP int) Resolution {
	if choice != ChoiceSacrifice {
		return Resolution{Text: "You step back from the shrine."}
	}
	res := Resolution{
		HpDelta: -params.Cost,
		Reward:  params.Reward,
		Text:    "The shrine drinks deep and grants its boon.",
	}
	res.PlayerDied = currentHP+res.HpDelta <= 0
	return res
}

// ResolveDialogue computes a dialogue outcome by looking up the authored
// choice matching the selection. When no choice matches (which should not
// occur under normal UI flow) it returns a neutral no-op Resolution together
// with ErrNoSuchChoice rather than failing outright.
func ResolveDialogue(params DialogueParams, choice Choice, currentHP int) (Resolution, error) {
	for _, c := range params.Choices {
		if Choice(c.ID) != choice {
			continue
		}
		return Resolution{
			HpDelta:    c.HpDelta,
			Reward:     c.Reward,
			Text:       c.Text,
			PlayerDied: currentHP+c.HpDelta <= 0,
		}, nil
	}
	return Resolution{Text: "The moment passes without an answer."}, ErrNoSuchChoice
}
