// Package evaluator computes terminal utilities for a whole hand list at
// once. For each player it precomputes the opponent's strength sort order,
// per-hand tie bounds within it, and blocker partitions, so a showdown or
// fold terminal costs O(hands + blockers) per evaluation instead of the
// quadratic pairwise loop.
package evaluator

import (
	"sort"

	"github.com/rivergrid/rivercfr/pkg/game"
)

// playerView is the precomputation for one target player against the other
// player's hand list.
type playerView struct {
	// oppSorted holds opponent hand indices ordered by ascending strength;
	// prefix sums over a reach vector in this order make win/tie/lose weights
	// two lookups each.
	oppSorted []int

	// rangeStart[h] and rangeEnd[h] bound the tie region of player hand h in
	// the sorted opponent order: [0,start) are strictly weaker opponents,
	// [start,end) tie, [end,N) are strictly stronger.
	rangeStart []int
	rangeEnd   []int

	// Blocked opponent indices per player hand, split by how the blocked
	// opponent's strength compares to the hand's own.
	blockedLess    [][]int
	blockedEqual   [][]int
	blockedGreater [][]int
}

// Evaluator answers terminal-utility queries for both players of a river
// subgame. It is immutable after New apart from an internal prefix-sum
// scratch buffer, so it must not be shared across goroutines.
type Evaluator struct {
	views  [2]playerView
	prefix []float64
}

// New precomputes both player views from the game's hand lists.
func New(hands0, hands1 []game.Hand) *Evaluator {
	e := &Evaluator{}
	e.views[0] = newView(hands0, hands1)
	e.views[1] = newView(hands1, hands0)
	n := len(hands0)
	if len(hands1) > n {
		n = len(hands1)
	}
	e.prefix = make([]float64, n+1)
	return e
}

func newView(mine, opp []game.Hand) playerView {
	v := playerView{
		oppSorted:      make([]int, len(opp)),
		rangeStart:     make([]int, len(mine)),
		rangeEnd:       make([]int, len(mine)),
		blockedLess:    make([][]int, len(mine)),
		blockedEqual:   make([][]int, len(mine)),
		blockedGreater: make([][]int, len(mine)),
	}
	for i := range v.oppSorted {
		v.oppSorted[i] = i
	}
	sort.SliceStable(v.oppSorted, func(a, b int) bool {
		return opp[v.oppSorted[a]].Strength.Less(opp[v.oppSorted[b]].Strength)
	})

	for h, hand := range mine {
		s := hand.Strength
		v.rangeStart[h] = sort.Search(len(opp), func(k int) bool {
			return !opp[v.oppSorted[k]].Strength.Less(s)
		})
		v.rangeEnd[h] = sort.Search(len(opp), func(k int) bool {
			return s.Less(opp[v.oppSorted[k]].Strength)
		})
		for o, oh := range opp {
			if !hand.Blocks(oh) {
				continue
			}
			switch s.Compare(oh.Strength) {
			case 1:
				v.blockedLess[h] = append(v.blockedLess[h], o)
			case 0:
				v.blockedEqual[h] = append(v.blockedEqual[h], o)
			default:
				v.blockedGreater[h] = append(v.blockedGreater[h], o)
			}
		}
	}
	return v
}

// ShowdownValues fills out[h] with player hand h's expected chip delta at a
// showdown, given the opponent reach vector r, the full pot, and the player's
// own street contribution. The result is linear in r; a zero-mass r yields
// zeros.
func (e *Evaluator) ShowdownValues(player int, r []float64, potTotal, contrib float64, out []float64) {
	v := &e.views[player]
	total := 0.0
	for _, w := range r {
		total += w
	}
	if total <= 0 {
		zero(out)
		return
	}

	prefix := e.prefix[:len(r)+1]
	prefix[0] = 0
	for k, idx := range v.oppSorted {
		prefix[k+1] = prefix[k] + r[idx]
	}

	for h := range out {
		win := prefix[v.rangeStart[h]]
		tie := prefix[v.rangeEnd[h]] - prefix[v.rangeStart[h]]
		lose := total - prefix[v.rangeEnd[h]]
		for _, o := range v.blockedLess[h] {
			win -= r[o]
		}
		for _, o := range v.blockedEqual[h] {
			tie -= r[o]
		}
		for _, o := range v.blockedGreater[h] {
			lose -= r[o]
		}
		active := win + tie + lose
		out[h] = win*potTotal + tie*potTotal/2 - contrib*active
	}
}

// FoldValues fills out[h] with v·(unblocked opponent reach mass) for each
// player hand h, where foldValue is the constant per-outcome chip delta:
// potTotal−contrib when the opponent folded, −contrib when the player did.
func (e *Evaluator) FoldValues(player int, r []float64, foldValue float64, out []float64) {
	e.unblockedMass(player, r, out)
	for h := range out {
		out[h] *= foldValue
	}
}

// ValidOppWeights fills out[h] with the opponent reach mass compatible with
// player hand h; callers use it as the denominator when converting summed
// utilities back to per-hand expected value.
func (e *Evaluator) ValidOppWeights(player int, r []float64, out []float64) {
	e.unblockedMass(player, r, out)
}

func (e *Evaluator) unblockedMass(player int, r []float64, out []float64) {
	v := &e.views[player]
	total := 0.0
	for _, w := range r {
		total += w
	}
	if total <= 0 {
		zero(out)
		return
	}
	for h := range out {
		blocked := 0.0
		for _, o := range v.blockedLess[h] {
			blocked += r[o]
		}
		for _, o := range v.blockedEqual[h] {
			blocked += r[o]
		}
		for _, o := range v.blockedGreater[h] {
			blocked += r[o]
		}
		out[h] = total - blocked
	}
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
