package encounter

import "github.com/cory-johannsen/lantern/internal/game/rng"

// Pool is the reusable content catalog drawn from during assignment. Any
// list may be empty; assignment synthesizes fallback parameters from the
// distribution config for types with no templates left.
type Pool struct {
	Combats   []CombatParams
	Chests    []ChestParams
	Dialogues []DialogueParams
	Shrines   []ShrineParams
}

// DrawFromPool selects needed templates from pool.
//
// Semantics:
//   - Empty pool: needed nil slots; the caller synthesizes fallbacks.
//   - needed <= len(pool): a shuffled no-repeat sample of needed entries.
//   - needed > len(pool): every entry appears at least once (one full
//     shuffled pass); the remainder is filled with independent uniform picks
//     (repeats allowed); the combined result is reshuffled so the guaranteed
//     entries are not clustered at the front.
//
// Each non-nil slot points at a fresh copy; callers may mutate freely.
//
// Postcondition: len(result) == max(needed, 0).
func DrawFromPool[T any](pool []T, needed int, src rng.Source) []*T {
	if needed <= 0 {
		return nil
	}
	out := make([]*T, needed)
	if len(pool) == 0 {
		return out
	}

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(order, src)

	if needed <= len(pool) {
		for i := 0; i < needed; i++ {
			v := pool[order[i]]
			out[i] = &v
		}
		return out
	}

	for i, idx := range order {
		v := pool[idx]
		out[i] = &v
	}
	for i := len(pool); i < needed; i++ {
		v := pool[src.Intn(len(pool))]
		out[i] = &v
	}
	rng.Shuffle(out, src)
	return out
}
