// Package solver implements the equilibrium-finding trainers for a river
// subgame: the deterministic CFR family (vanilla, CFR+, Linear, Discounted),
// the external-sampling Monte Carlo variant, and the shared best-response
// exploitability oracle.
package solver

import (
	"github.com/rivergrid/rivercfr/pkg/evaluator"
	"github.com/rivergrid/rivercfr/pkg/game"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

// Trainer is the surface shared by the deterministic and Monte Carlo
// trainers: Run mutates the internal tables, the other two are pure queries.
type Trainer interface {
	Run(iterations int)
	Exploitability() float64
	AverageStrategy(nodeID int) [][]float64
}

// newNodeTables allocates one zeroed hands×actions row-major table per
// decision node, indexed by node id; terminal entries stay nil. Each node
// belongs to exactly one acting player, whose hand count sizes the rows.
func newNodeTables(g *game.River, tr *tree.Tree) [][]float64 {
	tables := make([][]float64, len(tr.Nodes))
	for id := range tr.Nodes {
		node := &tr.Nodes[id]
		if node.Terminal() {
			continue
		}
		tables[id] = make([]float64, len(g.Hands[node.Player])*len(node.Actions))
	}
	return tables
}

// regretMatchRow fills out with the regret-matching strategy for one hand
// row: positive regrets normalised, uniform when none are positive.
func regretMatchRow(regrets, out []float64) {
	total := 0.0
	for i, r := range regrets {
		if r > 0 {
			out[i] = r
			total += r
		} else {
			out[i] = 0
		}
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
		return
	}
	uniform := 1.0 / float64(len(out))
	for i := range out {
		out[i] = uniform
	}
}

// averageRows converts one node's strategy-sum table into per-hand average
// strategy rows. Rows without accumulated mass come back uniform.
func averageRows(sums []float64, hands, actions int) [][]float64 {
	out := make([][]float64, hands)
	for h := 0; h < hands; h++ {
		row := make([]float64, actions)
		total := 0.0
		for a := 0; a < actions; a++ {
			row[a] = sums[h*actions+a]
			total += row[a]
		}
		if total > 0 {
			for a := range row {
				row[a] /= total
			}
		} else {
			uniform := 1.0 / float64(actions)
			for a := range row {
				row[a] = uniform
			}
		}
		out[h] = row
	}
	return out
}

// terminalValues fills out with the per-hand chip deltas for player at a
// terminal node, against opponent reach vector r.
func terminalValues(g *game.River, ev *evaluator.Evaluator, node *tree.Node, player int, r, out []float64) {
	potTotal := g.PotTotal(node.Contrib0, node.Contrib1)
	contrib := float64(node.Contrib(player))
	if node.TerminalWinner >= 0 {
		v := -contrib
		if node.TerminalWinner == player {
			v = potTotal - contrib
		}
		ev.FoldValues(player, r, v, out)
		return
	}
	ev.ShowdownValues(player, r, potTotal, contrib, out)
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
