// Package game models a heads-up river subgame: a fixed five-card board, a
// starting pot, symmetric stacks, and each player's weighted distribution
// over two-card private hands.
package game

import (
	"github.com/pkg/errors"

	"github.com/rivergrid/rivercfr/pkg/cards"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

// Hand is one private holding: two canonically ordered cards, its weight in
// the owner's range, and its precomputed 7-card strength on the board.
type Hand struct {
	C1, C2   cards.Card
	Weight   float64
	Strength cards.Strength
}

// Blocks reports whether h shares a card with the other hand.
func (h Hand) Blocks(other Hand) bool {
	return h.C1 == other.C1 || h.C1 == other.C2 || h.C2 == other.C1 || h.C2 == other.C2
}

// String renders the hand as four characters, e.g. "AhKd".
func (h Hand) String() string {
	return h.C1.String() + h.C2.String()
}

// Range specifies one player's private-hand distribution before blocker
// filtering. A nil Hands slice requests full enumeration with weight 1.
type Range struct {
	Hands   [][2]cards.Card
	Weights []float64
}

// River is the immutable description of a river subgame. Hands are filtered
// against the board and strength-annotated at construction; HandWeights is
// the per-player weight vector renormalised to sum to 1 (all zeros if the
// range has no mass).
type River struct {
	Board        [5]cards.Card
	Pot          int
	Stack        int
	BetSizes     []float64
	IncludeAllIn bool
	MaxRaises    int

	Hands       [2][]Hand
	HandWeights [2][]float64
}

// NewRiver validates the board and builds both players' hand lists.
func NewRiver(board [5]cards.Card, pot, stack int, betSizes []float64, includeAllIn bool, maxRaises int, ranges [2]Range) (*River, error) {
	seen := map[cards.Card]bool{}
	for _, c := range board {
		if seen[c] {
			return nil, errors.Errorf("duplicate board card: %s", c)
		}
		seen[c] = true
	}
	if pot <= 0 {
		return nil, errors.Errorf("pot must be positive, got %d", pot)
	}
	if stack < 0 {
		return nil, errors.Errorf("stack must be non-negative, got %d", stack)
	}

	r := &River{
		Board:        board,
		Pot:          pot,
		Stack:        stack,
		BetSizes:     betSizes,
		IncludeAllIn: includeAllIn,
		MaxRaises:    maxRaises,
	}
	for p := 0; p < 2; p++ {
		hands, err := r.buildHands(ranges[p])
		if err != nil {
			return nil, errors.Wrapf(err, "building player %d range", p)
		}
		r.Hands[p] = hands
		r.HandWeights[p] = normalizedWeights(hands)
	}
	return r, nil
}

// buildHands expands one player's range, drops hands that collide with the
// board, and annotates each survivor with its 7-card strength.
func (r *River) buildHands(rng Range) ([]Hand, error) {
	onBoard := map[cards.Card]bool{}
	for _, c := range r.Board {
		onBoard[c] = true
	}

	var raw []Hand
	if rng.Hands == nil {
		if rng.Weights != nil {
			return nil, errors.New("weights given without hands")
		}
		for c1 := cards.Card(0); c1 < 52; c1++ {
			for c2 := c1 + 1; c2 < 52; c2++ {
				raw = append(raw, Hand{C1: c1, C2: c2, Weight: 1})
			}
		}
	} else {
		if len(rng.Weights) != len(rng.Hands) {
			return nil, errors.Errorf("%d hands but %d weights", len(rng.Hands), len(rng.Weights))
		}
		for i, hc := range rng.Hands {
			c1, c2 := hc[0], hc[1]
			if c1 == c2 {
				return nil, errors.Errorf("hand %d repeats card %s", i, c1)
			}
			if c1 > c2 {
				c1, c2 = c2, c1
			}
			w := rng.Weights[i]
			if w < 0 {
				return nil, errors.Errorf("hand %d has negative weight %g", i, w)
			}
			raw = append(raw, Hand{C1: c1, C2: c2, Weight: w})
		}
	}

	var hands []Hand
	for _, h := range raw {
		if onBoard[h.C1] || onBoard[h.C2] {
			continue
		}
		h.Strength = cards.Evaluate7([7]cards.Card{
			h.C1, h.C2, r.Board[0], r.Board[1], r.Board[2], r.Board[3], r.Board[4],
		})
		hands = append(hands, h)
	}
	return hands, nil
}

// normalizedWeights returns the hand weights rescaled to sum to 1, or all
// zeros when the range carries no mass.
func normalizedWeights(hands []Hand) []float64 {
	out := make([]float64, len(hands))
	total := 0.0
	for _, h := range hands {
		total += h.Weight
	}
	if total <= 0 {
		return out
	}
	for i, h := range hands {
		out[i] = h.Weight / total
	}
	return out
}

// BuildTree expands the betting tree for this subgame's parameters.
func (r *River) BuildTree() *tree.Tree {
	return tree.Build(tree.Params{
		Pot:          r.Pot,
		Stack:        r.Stack,
		BetSizes:     r.BetSizes,
		IncludeAllIn: r.IncludeAllIn,
		MaxRaises:    r.MaxRaises,
	})
}

// PotTotal returns the full pot at a node: the base pot plus both players'
// street contributions.
func (r *River) PotTotal(contrib0, contrib1 int) float64 {
	return float64(r.Pot + contrib0 + contrib1)
}
