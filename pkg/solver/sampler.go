package solver

import (
	"sort"

	"github.com/rivergrid/rivercfr/pkg/game"
)

// handPairSampler draws (player 0 hand, player 1 hand) pairs from the joint
// weight distribution, respecting blockers. It is a two-level inverse-CDF
// structure: per player-0 hand, a cumulative distribution over the
// compatible player-1 hands; globally, a cumulative distribution over
// player-0 hands weighted by each hand's compatible player-1 mass. Sampling
// is two binary searches, with no rejection even under heavy card overlap.
type handPairSampler struct {
	p0cdf []float64
	p1idx [][]int
	p1cdf [][]float64
}

func newHandPairSampler(g *game.River) *handPairSampler {
	n0 := len(g.Hands[0])
	s := &handPairSampler{
		p0cdf: make([]float64, n0),
		p1idx: make([][]int, n0),
		p1cdf: make([][]float64, n0),
	}
	total := 0.0
	for i, h0 := range g.Hands[0] {
		compat := 0.0
		for j, h1 := range g.Hands[1] {
			if h0.Blocks(h1) {
				continue
			}
			w := g.HandWeights[1][j]
			if w <= 0 {
				continue
			}
			compat += w
			s.p1idx[i] = append(s.p1idx[i], j)
			s.p1cdf[i] = append(s.p1cdf[i], compat)
		}
		total += g.HandWeights[0][i] * compat
		s.p0cdf[i] = total
	}
	return s
}

// sample draws one compatible hand pair; it returns (0,0) when the joint
// distribution carries no mass.
func (s *handPairSampler) sample(r *rng) (int, int) {
	n0 := len(s.p0cdf)
	if n0 == 0 || s.p0cdf[n0-1] <= 0 {
		return 0, 0
	}
	x := r.Float64() * s.p0cdf[n0-1]
	i := sort.SearchFloat64s(s.p0cdf, x)
	if i >= n0 {
		i = n0 - 1
	}
	for i < n0-1 && len(s.p1cdf[i]) == 0 {
		i++
	}
	if len(s.p1cdf[i]) == 0 {
		return 0, 0
	}
	cdf := s.p1cdf[i]
	y := r.Float64() * cdf[len(cdf)-1]
	k := sort.SearchFloat64s(cdf, y)
	if k >= len(cdf) {
		k = len(cdf) - 1
	}
	return i, s.p1idx[i][k]
}
