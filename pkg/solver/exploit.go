package solver

import (
	"github.com/rivergrid/rivercfr/pkg/evaluator"
	"github.com/rivergrid/rivercfr/pkg/game"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

// Policy is the average-strategy view the oracle scores; both trainers
// satisfy it.
type Policy interface {
	AverageStrategy(nodeID int) [][]float64
}

// Exploitability returns the conventional per-player distance from Nash in
// chips: the two best-response values sum to the base pot exactly at
// equilibrium, and the excess is split between the players.
func Exploitability(g *game.River, tr *tree.Tree, ev *evaluator.Evaluator, pol Policy) float64 {
	br0 := BestResponseValue(g, tr, ev, pol, 0)
	br1 := BestResponseValue(g, tr, ev, pol, 1)
	return (br0 + br1 - float64(g.Pot)) / 2
}

// BestResponseValue computes the best expected chip value the target player
// can earn against the opponent's average strategy, averaged over the
// target's own hand distribution. Hands with no compatible opponent mass
// contribute exactly zero.
func BestResponseValue(g *game.River, tr *tree.Tree, ev *evaluator.Evaluator, pol Policy, target int) float64 {
	w := &brWalk{game: g, tree: tr, eval: ev, policy: pol, target: target}
	opp := 1 - target
	utils := w.walk(tr.Root(), g.HandWeights[opp])

	valid := make([]float64, len(g.Hands[target]))
	ev.ValidOppWeights(target, g.HandWeights[opp], valid)

	num, den := 0.0, 0.0
	for h, wt := range g.HandWeights[target] {
		if valid[h] <= 0 {
			continue
		}
		num += wt * utils[h]
		den += wt * valid[h]
	}
	if den <= 0 {
		return 0
	}
	return num / den
}

// brWalk mirrors the trainer's opponent-node path but reads the average
// strategy, and replaces the target's strategy mix with a per-hand
// elementwise max across actions.
type brWalk struct {
	game   *game.River
	tree   *tree.Tree
	eval   *evaluator.Evaluator
	policy Policy
	target int
}

func (w *brWalk) walk(id int, reachOpp []float64) []float64 {
	node := &w.tree.Nodes[id]
	out := make([]float64, len(w.game.Hands[w.target]))
	if node.Terminal() {
		terminalValues(w.game, w.eval, node, w.target, reachOpp, out)
		return out
	}

	if node.Player == w.target {
		for a := range node.Actions {
			u := w.walk(node.Next[a], reachOpp)
			if a == 0 {
				copy(out, u)
				continue
			}
			for h := range out {
				if u[h] > out[h] {
					out[h] = u[h]
				}
			}
		}
		return out
	}

	sigma := w.policy.AverageStrategy(id)
	childReach := make([]float64, len(reachOpp))
	for a := range node.Actions {
		for o := range childReach {
			childReach[o] = reachOpp[o] * sigma[o][a]
		}
		u := w.walk(node.Next[a], childReach)
		for h := range out {
			out[h] += u[h]
		}
	}
	return out
}
