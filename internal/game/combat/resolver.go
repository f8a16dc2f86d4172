// Package combat implements the deterministic forced-combat resolver. A
// creature's force doubles as its hit points; resolution is a pure function
// of the input stats, with no randomness.
package combat

// Exchange is one round of the combat loop: the player hits, then the
// creature retaliates if it is still standing. Recorded for display.
type Exchange struct {
	// Round is the 1-based exchange number.
	Round int
	// DamageToCreature is the damage dealt by the player this exchange.
	DamageToCreature int
	// CreatureRemaining is the creature's force after the player's hit,
	// floored at zero.
	CreatureRemaining int
	// DamageToPlayer is the retaliation damage this exchange: the creature's
	// own remaining force after the player's hit, zero once it is down.
	DamageToPlayer int
}

// Result is the outcome of a resolved combat.
type Result struct {
	// Exchanges is the ordered trace of every exchange.
	Exchanges []Exchange
	// TotalDamage is the accumulated damage to the player, doubled after the
	// loop when the accident penalty applies.
	TotalDamage int
	// FinalHP is the player's HP after the combat.
	FinalHP int
	// PlayerDied reports FinalHP <= 0.
	PlayerDied bool
}

// Resolve computes the outcome of a forced combat.
//
// The player's force is floored at 1, guaranteeing termination even when
// misconfigured at zero or negative. Each exchange reduces the creature's
// remaining force by the player's force; while it remains positive the
// creature retaliates for its own remaining force, accumulated into the
// player's total damage. With accidentPenalty the accumulated total (not the
// per-exchange values) is doubled after the loop.
//
// Precondition: creatureForce > 0.
// Postcondition: len(result.Exchanges) <= creatureForce; without the penalty
// result.TotalDamage == EstimateDamage(playerForce, creatureForce).
func Resolve(playerForce, creatureForce int, accidentPenalty bool, currentHP int) Result {
	if playerForce < 1 {
		playerForce = 1
	}

	var result Result
	remaining := creatureForce
	round := 0
	for remaining > 0 {
		round++
		remaining -= playerForce

		shown := remaining
		if shown < 0 {
			shown = 0
		}
		retaliation := 0
		if remaining > 0 {
			retaliation = remaining
			result.TotalDamage += remaining
		}
		result.Exchanges = append(result.Exchanges, Exchange{
			Round:             round,
			DamageToCreature:  playerForce,
			CreatureRemaining: shown,
			DamageToPlayer:    retaliation,
		})
	}

	if accidentPenalty {
		result.TotalDamage *= 2
	}
	result.FinalHP = currentHP - result.TotalDamage
	result.PlayerDied = result.FinalHP <= 0
	return result
}

// EstimateDamage runs the combat loop without penalty or exchange
// bookkeeping, previewing the cost of a combat before commitment.
//
// Postcondition: return value equals the TotalDamage of a no-penalty Resolve
// with the same forces.
func EstimateDamage(playerForce, creatureForce int) int {
	if playerForce < 1 {
		playerForce = 1
	}
	total := 0
	remaining := creatureForce
	for remaining > 0 {
		remaining -= playerForce
		if remaining > 0 {
			total += remaining
		}
	}
	return total
}
