package solver

import (
	"math"

	"github.com/pkg/errors"

	"github.com/rivergrid/rivercfr/pkg/evaluator"
	"github.com/rivergrid/rivercfr/pkg/game"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

// Variant selects a member of the deterministic CFR family. The variants
// share one traversal and differ only in per-iteration weights and, for
// Discounted, a pre-read decay of the accumulators.
type Variant int

const (
	Vanilla Variant = iota
	Plus
	Linear
	Discounted
)

// ParseVariant maps a CLI/config token to a Variant.
func ParseVariant(token string) (Variant, error) {
	switch token {
	case "cfr":
		return Vanilla, nil
	case "cfr+":
		return Plus, nil
	case "lcfr":
		return Linear, nil
	case "dcfr":
		return Discounted, nil
	}
	return 0, errors.Errorf("unknown algorithm %q", token)
}

// String returns the CLI token for the variant.
func (v Variant) String() string {
	switch v {
	case Vanilla:
		return "cfr"
	case Plus:
		return "cfr+"
	case Linear:
		return "lcfr"
	default:
		return "dcfr"
	}
}

// Params configures a deterministic trainer. The discount exponents only
// apply to the Discounted variant.
type Params struct {
	Variant       Variant
	DiscountAlpha float64
	DiscountBeta  float64
	DiscountGamma float64
}

// DefaultParams returns the variant with the standard DCFR exponents
// (alpha=1.5, beta=0, gamma=2).
func DefaultParams(v Variant) Params {
	return Params{Variant: v, DiscountAlpha: 1.5, DiscountBeta: 0, DiscountGamma: 2}
}

// frame is the per-depth scratch owned by the trainer, reused across nodes
// and iterations so the traversal never allocates.
type frame struct {
	strategy   []float64 // maxHands × maxActions, row-major by hand
	actionUtil []float64 // maxActions rows of maxHands utilities
	reach      []float64 // maxHands
}

// CFR is the deterministic trainer. It owns per-node regret and
// strategy-sum tables and updates both players alternately each iteration.
type CFR struct {
	game   *game.River
	tree   *tree.Tree
	eval   *evaluator.Evaluator
	params Params

	iter         int
	regrets      [][]float64
	strategySums [][]float64

	maxHands int
	frames   []frame
	rootUtil []float64
}

// NewCFR builds a trainer over an already-constructed game, tree, and
// evaluator; the three are borrowed, not copied, and must outlive it.
func NewCFR(g *game.River, tr *tree.Tree, ev *evaluator.Evaluator, params Params) *CFR {
	c := &CFR{
		game:         g,
		tree:         tr,
		eval:         ev,
		params:       params,
		regrets:      newNodeTables(g, tr),
		strategySums: newNodeTables(g, tr),
	}
	c.maxHands = len(g.Hands[0])
	if len(g.Hands[1]) > c.maxHands {
		c.maxHands = len(g.Hands[1])
	}
	c.frames = make([]frame, tr.MaxDepth+2)
	for i := range c.frames {
		c.frames[i] = frame{
			strategy:   make([]float64, c.maxHands*tr.MaxActions),
			actionUtil: make([]float64, c.maxHands*tr.MaxActions),
			reach:      make([]float64, c.maxHands),
		}
	}
	c.rootUtil = make([]float64, c.maxHands)
	return c
}

// Run performs n iterations; each iteration updates player 0's tables and
// then player 1's.
func (c *CFR) Run(iterations int) {
	for i := 0; i < iterations; i++ {
		c.iter++
		for p := 0; p < 2; p++ {
			out := c.rootUtil[:len(c.game.Hands[p])]
			c.walk(c.tree.Root(), 0, p, c.game.HandWeights[p], c.game.HandWeights[1-p], out)
		}
	}
}

// Iterations returns how many iterations have run so far.
func (c *CFR) Iterations() int { return c.iter }

// walk traverses the subtree at id for the update player, writing the
// player's per-hand utilities (already weighted by the opponent reach) into
// out. reachP and reachOpp are never mutated.
func (c *CFR) walk(id, depth, update int, reachP, reachOpp, out []float64) {
	node := &c.tree.Nodes[id]
	if node.Terminal() {
		terminalValues(c.game, c.eval, node, update, reachOpp, out)
		return
	}

	f := &c.frames[depth]
	nA := len(node.Actions)

	if node.Player != update {
		nOpp := len(c.game.Hands[node.Player])
		sigma := f.strategy[:nOpp*nA]
		c.currentStrategy(id, nOpp, nA, sigma)
		childReach := f.reach[:nOpp]
		tmp := f.actionUtil[:len(out)]
		zero(out)
		for a := 0; a < nA; a++ {
			for o := 0; o < nOpp; o++ {
				childReach[o] = reachOpp[o] * sigma[o*nA+a]
			}
			c.walk(node.Next[a], depth+1, update, reachP, childReach, tmp)
			for h := range out {
				out[h] += tmp[h]
			}
		}
		return
	}

	n := len(c.game.Hands[update])
	t := float64(c.iter)
	if c.params.Variant == Discounted {
		c.discount(id, t)
	}
	sigma := f.strategy[:n*nA]
	c.currentStrategy(id, n, nA, sigma)

	childReach := f.reach[:n]
	for a := 0; a < nA; a++ {
		ua := f.actionUtil[a*c.maxHands : a*c.maxHands+n]
		for h := 0; h < n; h++ {
			childReach[h] = reachP[h] * sigma[h*nA+a]
		}
		c.walk(node.Next[a], depth+1, update, childReach, reachOpp, ua)
	}

	for h := 0; h < n; h++ {
		v := 0.0
		for a := 0; a < nA; a++ {
			v += sigma[h*nA+a] * f.actionUtil[a*c.maxHands+h]
		}
		out[h] = v
	}

	wR, wS := c.iterationWeights(t)
	reg := c.regrets[id]
	sums := c.strategySums[id]
	clamp := c.params.Variant == Plus
	for h := 0; h < n; h++ {
		for a := 0; a < nA; a++ {
			r := reg[h*nA+a] + wR*(f.actionUtil[a*c.maxHands+h]-out[h])
			if clamp && r < 0 {
				r = 0
			}
			reg[h*nA+a] = r
			sums[h*nA+a] += reachP[h] * wS * sigma[h*nA+a]
		}
	}
}

// currentStrategy fills sigma with the regret-matching strategy for every
// hand row of the node's regret table.
func (c *CFR) currentStrategy(id, hands, actions int, sigma []float64) {
	reg := c.regrets[id]
	for h := 0; h < hands; h++ {
		regretMatchRow(reg[h*actions:(h+1)*actions], sigma[h*actions:(h+1)*actions])
	}
}

// iterationWeights returns the regret and strategy-sum weights for the
// current iteration t.
func (c *CFR) iterationWeights(t float64) (wR, wS float64) {
	switch c.params.Variant {
	case Plus:
		return 1, t
	case Linear:
		return t, t
	default:
		return 1, 1
	}
}

// discount applies the DCFR pre-read decay to one node's accumulators:
// positive regrets scale by t^a/(t^a+1), negative by t^b/(t^b+1), strategy
// sums by (t/(t+1))^g.
func (c *CFR) discount(id int, t float64) {
	posScale := boundedPow(t, c.params.DiscountAlpha)
	negScale := boundedPow(t, c.params.DiscountBeta)
	sumScale := math.Pow(t/(t+1), c.params.DiscountGamma)

	reg := c.regrets[id]
	for i, r := range reg {
		if r > 0 {
			reg[i] = r * posScale
		} else {
			reg[i] = r * negScale
		}
	}
	sums := c.strategySums[id]
	for i := range sums {
		sums[i] *= sumScale
	}
}

// boundedPow computes t^e/(t^e+1), which stays in (0,1) even as t grows.
func boundedPow(t, e float64) float64 {
	p := math.Pow(t, e)
	return p / (p + 1)
}

// AverageStrategy returns the normalised strategy-sum rows at a decision
// node, one row per hand of the acting player; nil at terminals.
func (c *CFR) AverageStrategy(nodeID int) [][]float64 {
	node := &c.tree.Nodes[nodeID]
	if node.Terminal() {
		return nil
	}
	return averageRows(c.strategySums[nodeID], len(c.game.Hands[node.Player]), len(node.Actions))
}

// Exploitability scores the current average strategy profile in chips.
func (c *CFR) Exploitability() float64 {
	return Exploitability(c.game, c.tree, c.eval, c)
}
