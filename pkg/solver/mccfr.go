package solver

import (
	"github.com/golang/glog"

	"github.com/rivergrid/rivercfr/pkg/evaluator"
	"github.com/rivergrid/rivercfr/pkg/game"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

// MCCFR is the external-sampling Monte Carlo trainer. Each iteration samples
// one compatible hand pair, then runs one traversal per target player:
// opponent nodes sample a single action from the current strategy, target
// nodes expand every action and take a regret update.
//
// With linear weighting on, table rows carry their accumulators pre-divided
// by t(t+1)/2 and are lazily rescaled by k(k+1)/(t(t+1)) the first time a
// (node, hand) row is touched in iteration t, so linear weights never
// overflow.
type MCCFR struct {
	game   *game.River
	tree   *tree.Tree
	eval   *evaluator.Evaluator
	linear bool

	iter         int
	regrets      [][]float64
	strategySums [][]float64
	lastUpdate   [][]int

	rng     *rng
	sampler *handPairSampler
}

// NewMCCFR builds the Monte Carlo trainer; a zero seed selects the fixed
// default seed.
func NewMCCFR(g *game.River, tr *tree.Tree, ev *evaluator.Evaluator, linear bool, seed uint64) *MCCFR {
	m := &MCCFR{
		game:         g,
		tree:         tr,
		eval:         ev,
		linear:       linear,
		regrets:      newNodeTables(g, tr),
		strategySums: newNodeTables(g, tr),
		lastUpdate:   make([][]int, len(tr.Nodes)),
		rng:          newRNG(seed),
		sampler:      newHandPairSampler(g),
	}
	for id := range tr.Nodes {
		node := &tr.Nodes[id]
		if node.Terminal() {
			continue
		}
		m.lastUpdate[id] = make([]int, len(g.Hands[node.Player]))
	}
	return m
}

// Run performs n sampled iterations.
func (m *MCCFR) Run(iterations int) {
	for i := 0; i < iterations; i++ {
		m.iter++
		h0, h1 := m.sampler.sample(m.rng)
		glog.V(2).Infof("mccfr iter %d: sampled hands %s vs %s",
			m.iter, m.game.Hands[0][h0], m.game.Hands[1][h1])
		for target := 0; target < 2; target++ {
			m.traverse(m.tree.Root(), target, h0, h1, 1.0)
		}
	}
}

// Iterations returns how many iterations have run so far.
func (m *MCCFR) Iterations() int { return m.iter }

// traverse walks the subtree at id for the target player holding the sampled
// hand pair. reach accumulates the target's own strategy probabilities along
// the path and only weights strategy-sum updates. Returns the target's
// sampled chip delta.
func (m *MCCFR) traverse(id, target, h0, h1 int, reach float64) float64 {
	node := &m.tree.Nodes[id]
	if node.Terminal() {
		return m.terminalValue(node, target, h0, h1)
	}

	h := h0
	if node.Player == 1 {
		h = h1
	}
	nA := len(node.Actions)
	if m.linear {
		m.rescaleRow(id, h, nA)
	}
	regRow := m.regrets[id][h*nA : (h+1)*nA]
	sigma := make([]float64, nA)
	regretMatchRow(regRow, sigma)

	if node.Player != target {
		return m.traverse(node.Next[m.sampleAction(sigma)], target, h0, h1, reach)
	}

	utils := make([]float64, nA)
	nodeUtil := 0.0
	for a := 0; a < nA; a++ {
		utils[a] = m.traverse(node.Next[a], target, h0, h1, reach*sigma[a])
		nodeUtil += sigma[a] * utils[a]
	}

	w := 1.0
	if m.linear {
		w = 2 / (float64(m.iter) + 1)
	}
	sumRow := m.strategySums[id][h*nA : (h+1)*nA]
	for a := 0; a < nA; a++ {
		regRow[a] += w * (utils[a] - nodeUtil)
		sumRow[a] += w * reach * sigma[a]
	}
	return nodeUtil
}

// terminalValue computes the target player's chip delta at a terminal for
// the concrete sampled matchup; no reach vectors are involved.
func (m *MCCFR) terminalValue(node *tree.Node, target, h0, h1 int) float64 {
	potTotal := m.game.PotTotal(node.Contrib0, node.Contrib1)
	contrib := float64(node.Contrib(target))
	if node.TerminalWinner >= 0 {
		if node.TerminalWinner == target {
			return potTotal - contrib
		}
		return -contrib
	}
	cmp := m.game.Hands[0][h0].Strength.Compare(m.game.Hands[1][h1].Strength)
	if target == 1 {
		cmp = -cmp
	}
	switch {
	case cmp > 0:
		return potTotal - contrib
	case cmp < 0:
		return -contrib
	default:
		return potTotal/2 - contrib
	}
}

// rescaleRow applies the lazy linear-weight decay to one (node, hand) row:
// a row last touched at iteration k shrinks by k(k+1)/(t(t+1)) before any
// read or write in iteration t.
func (m *MCCFR) rescaleRow(id, h, nA int) {
	t := m.iter
	k := m.lastUpdate[id][h]
	if k > 0 && k < t {
		f := float64(k) * float64(k+1) / (float64(t) * float64(t+1))
		regRow := m.regrets[id][h*nA : (h+1)*nA]
		sumRow := m.strategySums[id][h*nA : (h+1)*nA]
		for a := 0; a < nA; a++ {
			regRow[a] *= f
			sumRow[a] *= f
		}
	}
	m.lastUpdate[id][h] = t
}

// sampleAction draws one action index from the strategy distribution.
func (m *MCCFR) sampleAction(sigma []float64) int {
	x := m.rng.Float64()
	cum := 0.0
	for a, p := range sigma {
		cum += p
		if x < cum {
			return a
		}
	}
	return len(sigma) - 1
}

// AverageStrategy returns the normalised strategy-sum rows at a decision
// node. The lazy rescale is a uniform positive row scaling, so normalisation
// is unaffected by rows that have not been touched recently.
func (m *MCCFR) AverageStrategy(nodeID int) [][]float64 {
	node := &m.tree.Nodes[nodeID]
	if node.Terminal() {
		return nil
	}
	return averageRows(m.strategySums[nodeID], len(m.game.Hands[node.Player]), len(node.Actions))
}

// Exploitability scores the current average strategy profile in chips.
func (m *MCCFR) Exploitability() float64 {
	return Exploitability(m.game, m.tree, m.eval, m)
}
