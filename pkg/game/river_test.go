package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivergrid/rivercfr/pkg/cards"
)

func mustBoard(t *testing.T, s string) [5]cards.Card {
	t.Helper()
	board, err := cards.ParseBoard(s)
	require.NoError(t, err)
	return board
}

func mustHandCards(t *testing.T, s string) [2]cards.Card {
	t.Helper()
	c1, c2, err := cards.ParseHand(s)
	require.NoError(t, err)
	return [2]cards.Card{c1, c2}
}

func TestNewRiver_FullEnumeration(t *testing.T) {
	r, err := NewRiver(mustBoard(t, "KsTh7s4d2s"), 1000, 9500, []float64{0.5, 1.0}, true, 1000, [2]Range{})
	require.NoError(t, err)

	// C(47,2) hands survive the board filter for each player.
	for p := 0; p < 2; p++ {
		assert.Equal(t, 1081, len(r.Hands[p]))
		total := 0.0
		for _, w := range r.HandWeights[p] {
			total += w
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	}

	// Every hand avoids the board and is canonically ordered.
	onBoard := map[cards.Card]bool{}
	for _, c := range r.Board {
		onBoard[c] = true
	}
	for _, h := range r.Hands[0] {
		assert.False(t, onBoard[h.C1] || onBoard[h.C2])
		assert.True(t, h.C1 < h.C2)
	}
}

func TestNewRiver_ExplicitRange(t *testing.T) {
	ranges := [2]Range{
		{
			Hands:   [][2]cards.Card{mustHandCards(t, "AcAd"), mustHandCards(t, "QcQd"), mustHandCards(t, "KsKh")},
			Weights: []float64{2, 1, 1},
		},
		{},
	}
	r, err := NewRiver(mustBoard(t, "KsTh7s4d2s"), 1000, 9500, []float64{0.5}, true, 1000, ranges)
	require.NoError(t, err)

	// KsKh collides with the board and is dropped; the rest renormalise.
	require.Equal(t, 2, len(r.Hands[0]))
	assert.InDelta(t, 2.0/3.0, r.HandWeights[0][0], 1e-9)
	assert.InDelta(t, 1.0/3.0, r.HandWeights[0][1], 1e-9)
	assert.Equal(t, 1081, len(r.Hands[1]))
}

func TestNewRiver_StrengthsPrecomputed(t *testing.T) {
	ranges := [2]Range{
		{Hands: [][2]cards.Card{mustHandCards(t, "AcAd")}, Weights: []float64{1}},
		{Hands: [][2]cards.Card{mustHandCards(t, "3c3h")}, Weights: []float64{1}},
	}
	r, err := NewRiver(mustBoard(t, "KsTh7s4d2s"), 1000, 9500, nil, true, 1000, ranges)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Hands[0][0].Strength.Compare(r.Hands[1][0].Strength))
}

func TestNewRiver_Invalid(t *testing.T) {
	board := mustBoard(t, "KsTh7s4d2s")

	_, err := NewRiver(board, 0, 9500, nil, true, 1000, [2]Range{})
	assert.Error(t, err, "zero pot")

	_, err = NewRiver(board, 1000, 9500, nil, true, 1000, [2]Range{
		{Hands: [][2]cards.Card{mustHandCards(t, "AcAd")}, Weights: []float64{1, 2}},
	})
	assert.Error(t, err, "weights length mismatch")

	_, err = NewRiver(board, 1000, 9500, nil, true, 1000, [2]Range{
		{Hands: [][2]cards.Card{mustHandCards(t, "AcAd")}, Weights: []float64{-1}},
	})
	assert.Error(t, err, "negative weight")

	dup := board
	dup[1] = dup[0]
	_, err = NewRiver(dup, 1000, 9500, nil, true, 1000, [2]Range{})
	assert.Error(t, err, "duplicate board card")
}

func TestHand_Blocks(t *testing.T) {
	a := Hand{C1: 0, C2: 1}
	b := Hand{C1: 1, C2: 2}
	c := Hand{C1: 2, C2: 3}
	assert.True(t, a.Blocks(b))
	assert.False(t, a.Blocks(c))
}

func TestZeroMassRange(t *testing.T) {
	ranges := [2]Range{
		{Hands: [][2]cards.Card{mustHandCards(t, "AcAd")}, Weights: []float64{0}},
		{},
	}
	r, err := NewRiver(mustBoard(t, "KsTh7s4d2s"), 1000, 9500, nil, true, 1000, ranges)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.HandWeights[0][0])
}
