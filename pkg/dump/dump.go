// Package dump serialises a trained average strategy to the JSON document
// the CLI writes: per player, the hand list, the normalised weights, and a
// profile keyed by betting-line path.
package dump

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/rivergrid/rivercfr/pkg/game"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

// Policy is the average-strategy view a trainer exposes.
type Policy interface {
	AverageStrategy(nodeID int) [][]float64
}

// NodeStrategy is one decision point: the action tokens in emission order
// and a hand_count × action_count probability matrix.
type NodeStrategy struct {
	Actions  []string    `json:"actions"`
	Strategy [][]float64 `json:"strategy"`
}

// PlayerDump is one player's half of the document.
type PlayerDump struct {
	Hands   []string                `json:"hands"`
	Weights []float64               `json:"weights"`
	Profile map[string]NodeStrategy `json:"profile"`
}

// Profile is the whole dump document.
type Profile struct {
	Players [2]PlayerDump `json:"players"`
}

// Build walks the tree once and collects every decision node's average
// strategy under its acting player. Node paths are "/"-joined action tokens
// from the root; the root's own path is "root".
func Build(g *game.River, tr *tree.Tree, pol Policy) *Profile {
	p := &Profile{}
	for pl := 0; pl < 2; pl++ {
		hands := make([]string, len(g.Hands[pl]))
		for i, h := range g.Hands[pl] {
			hands[i] = h.String()
		}
		p.Players[pl] = PlayerDump{
			Hands:   hands,
			Weights: g.HandWeights[pl],
			Profile: map[string]NodeStrategy{},
		}
	}
	collect(tr, pol, p, tr.Root(), "root")
	return p
}

func collect(tr *tree.Tree, pol Policy, p *Profile, id int, path string) {
	node := &tr.Nodes[id]
	if node.Terminal() {
		return
	}

	tokens := make([]string, len(node.Actions))
	for a, act := range node.Actions {
		tokens[a] = act.Token()
	}
	p.Players[node.Player].Profile[path] = NodeStrategy{
		Actions:  tokens,
		Strategy: pol.AverageStrategy(id),
	}

	for a, act := range node.Actions {
		childPath := act.Token()
		if path != "root" {
			childPath = path + "/" + childPath
		}
		collect(tr, pol, p, node.Next[a], childPath)
	}
}

// Write marshals the profile and writes it to path.
func (p *Profile) Write(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling strategy dump")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "writing strategy dump")
	}
	return nil
}
