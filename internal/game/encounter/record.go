// Package encounter owns encounter content: record types, the assignment
// engine that populates every mined cell, the pure resolvers for chest,
// dialogue, and shrine interactions, and the reward applier.
package encounter

import "github.com/google/uuid"

// Type identifies the four encounter categories.
type Type string

// Encounter type constants.
const (
	TypeCombat   Type = "combat"
	TypeChest    Type = "chest"
	TypeDialogue Type = "dialogue"
	TypeShrine   Type = "shrine"
)

// Types lists all encounter types in their canonical order.
var Types = []Type{TypeCombat, TypeChest, TypeDialogue, TypeShrine}

// Valid reports whether t is a recognised encounter type.
func (t Type) Valid() bool {
	switch t {
	case TypeCombat, TypeChest, TypeDialogue, TypeShrine:
		return true
	}
	return false
}

// State is the lifecycle state of a record.
type State string

// Record lifecycle constants. Once Resolved, a record never reverts.
const (
	StateHidden   State = "hidden"
	StateResolved State = "resolved"
)

// RewardKind identifies what a reward grants.
type RewardKind string

// Reward kind constants.
const (
	RewardNone       RewardKind = "none"
	RewardHpGain     RewardKind = "hp_gain"
	RewardVisionGain RewardKind = "vision_gain"
	RewardBuff       RewardKind = "buff"
)

// Reward is a typed reward with a magnitude. The zero value is "no reward";
// Value is ignored when Kind is RewardNone.
type Reward struct {
	Kind  RewardKind
	Value int
}

// None reports whether the reward grants nothing.
func (r Reward) None() bool {
	return r.Kind == "" || r.Kind == RewardNone
}

// Params is the per-type payload of a record. Exactly one concrete shape
// exists per encounter type; the closed marker method keeps the union sealed
// so a type switch over Params is exhaustive.
type Params interface {
	isParams()
}

// CombatParams is the payload of a combat encounter.
type CombatParams struct {
	// Monster is the creature's display name.
	Monster string
	// Force is the creature's combat strength; it doubles as its hit points.
	Force int
	// Elite marks a stronger variant.
	Elite bool
	// Reward is granted on victory.
	Reward Reward
}

// ChestParams is the payload of a chest encounter.
type ChestParams struct {
	Description string
	Trapped     bool
	TrapDamage  int
	Reward      Reward
}

// DialogueChoice is one pre-authored option in a dialogue.
type DialogueChoice struct {
	// ID identifies the choice for resolution lookups.
	ID string
	// Label is the presentation text of the option.
	Label string
	// HpDelta is applied when the choice is taken (may be negative).
	HpDelta int
	// Reward is granted when the choice is taken.
	Reward Reward
	// Text is the outcome narration for the choice.
	Text string
}

// DialogueParams is the payload of a dialogue encounter.
//
// Invariant: Choices holds 2 or 3 entries for authored content.
type DialogueParams struct {
	Character string
	Prompt    string
	Choices   []DialogueChoice
}

// ShrineParams is the payload of a shrine encounter.
type ShrineParams struct {
	Description string
	// Cost is the HP sacrificed when the player accepts.
	Cost   int
	Reward Reward
}

func (CombatParams) isParams()   {}
func (ChestParams) isParams()    {}
func (DialogueParams) isParams() {}
func (ShrineParams) isParams()   {}

// Record is a fully-populated encounter bound to a mined cell.
//
// Invariant: ID is unique per run. State only moves Hidden -> Resolved.
// The originating cell's mine flag is never cleared by resolution.
type Record struct {
	X      int
	Y      int
	Type   Type
	State  State
	ID     string
	Params Params
}

// newRecord creates a Hidden record with a fresh per-run-unique ID.
func newRecord(x, y int, t Type, params Params) *Record {
	return &Record{
		X:      x,
		Y:      y,
		Type:   t,
		State:  StateHidden,
		ID:     uuid.NewString(),
		Params: params,
	}
}

// Resolve moves the record to StateResolved. Resolution is one-way; calling
// Resolve on an already-resolved record is a no-op.
func (r *Record) Resolve() {
	r.State = StateResolved
}

// Resolved reports whether the record has been resolved.
func (r *Record) Resolved() bool {
	return r.State == StateResolved
}
