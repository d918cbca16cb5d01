package solver

import (
	"math/bits"

	"github.com/matzehuels/taskplan/pkg/plan"
)

const wordBits = 64

// bitset is a fixed-width bit-array of size bits, stored in machine words.
// Bits at or above size are always zero.
type bitset struct {
	words []uint64
	size  int
}

func newBitset(size int) *bitset {
	return &bitset{words: make([]uint64, (size+wordBits-1)/wordBits), size: size}
}

// Test reports whether bit i is set.
func (b *bitset) Test(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.words[i/wordBits]&(1<<(uint(i)%wordBits)) != 0
}

// Set sets bit i. Out-of-range bits are ignored.
func (b *bitset) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.words[i/wordBits] |= 1 << (uint(i) % wordBits)
}

// ShiftOr returns b | (b << k) as a new bitset, dropping bits shifted past
// the end.
func (b *bitset) ShiftOr(k int) *bitset {
	out := &bitset{words: make([]uint64, len(b.words)), size: b.size}
	ws, bs := k/wordBits, uint(k%wordBits)
	for i := range out.words {
		w := b.words[i]
		if j := i - ws; j >= 0 {
			w |= b.words[j] << bs
			if bs != 0 && j > 0 {
				w |= b.words[j-1] >> (wordBits - bs)
			}
		}
		out.words[i] = w
	}
	out.trim()
	return out
}

// trim clears the bits above size in the last word.
func (b *bitset) trim() {
	if r := b.size % wordBits; r != 0 && len(b.words) > 0 {
		b.words[len(b.words)-1] &= (1 << uint(r)) - 1
	}
}

// Count returns the number of set bits.
func (b *bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// eachNew calls fn for every bit set in next but not in b.
func (b *bitset) eachNew(next *bitset, fn func(i int)) {
	for wi, w := range next.words {
		diff := w &^ b.words[wi]
		for diff != 0 {
			tz := bits.TrailingZeros64(diff)
			fn(wi*wordBits + tz)
			diff &= diff - 1
		}
	}
}

// bitsetDP tracks which total costs 0..MaxCost are reachable. The first task
// to make a cost reachable is recorded as its predecessor link, and no
// alternative paths are kept. Hours and category minima are checked only
// when each reachable cost's subset is reconstructed.
func bitsetDP(in *instance) (plan.Result, error) {
	budget := in.c.MaxCost
	if budget <= 0 {
		return in.empty(BitsetDP, noteNoBudget), nil
	}

	reach := newBitset(budget + 1)
	reach.Set(0)
	prev := make([]int, budget+1)
	from := make([]int, budget+1)
	for i := range prev {
		prev[i], from[i] = -1, -1
	}

	for i, t := range in.tasks {
		if t.Cost < 0 || t.Cost > budget {
			continue
		}
		if err := in.tick(); err != nil {
			return plan.Result{}, err
		}
		next := reach.ShiftOr(t.Cost)
		reach.eachNew(next, func(b int) {
			if prev[b] == -1 {
				prev[b], from[b] = b-t.Cost, i
			}
		})
		reach = next
	}

	have := make([]int, len(in.need))
	best := -1
	var bestIdx []int
	for b := 0; b <= budget; b++ {
		if err := in.tick(); err != nil {
			return plan.Result{}, err
		}
		if !reach.Test(b) {
			continue
		}
		// predecessor links point at costs reached by earlier tasks, so
		// indices along the chain strictly decrease
		idx := []int{}
		for cur := b; cur > 0 && prev[cur] != -1; cur = prev[cur] {
			idx = append(idx, from[cur])
		}
		value, cost, hours := in.tally(idx, have)
		if in.fitsCaps(cost, hours) && in.meets(have) && value > best {
			best, bestIdx = value, idx
		}
	}

	if bestIdx == nil {
		return in.empty(BitsetDP, noteInfeasible), nil
	}
	return in.finish(BitsetDP, bestIdx), nil
}
