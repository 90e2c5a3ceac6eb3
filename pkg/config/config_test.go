package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`{"board": ["Ks","Th","7s","4d","2s"]}`))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Pot)
	assert.Equal(t, 9500, cfg.Stack)
	assert.Equal(t, []float64{0.5, 1.0}, cfg.BetSizes)
	assert.True(t, cfg.IncludeAllIn)
	assert.Equal(t, 1000, cfg.MaxRaises)
	assert.Equal(t, "cfr+", cfg.Algorithm)
	assert.Equal(t, 1.5, cfg.DCFRAlpha)
	assert.Equal(t, 0.0, cfg.DCFRBeta)
	assert.Equal(t, 2.0, cfg.DCFRGamma)
	assert.Equal(t, 1000, cfg.Iterations)
	assert.Nil(t, cfg.Players)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"board": ["Ks","Th","7s","4d","2s"],
		"pot": 200,
		"stack": 800,
		"bet_sizes": [0.25],
		"include_all_in": false,
		"max_raises": 3,
		"algorithm": "mccfr",
		"mccfr_linear": true,
		"iterations": 50,
		"checkpoints": [10, 25],
		"target_exploitability": 0.01,
		"seed": 99
	}`))
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Pot)
	assert.Equal(t, 800, cfg.Stack)
	assert.Equal(t, []float64{0.25}, cfg.BetSizes)
	assert.False(t, cfg.IncludeAllIn)
	assert.Equal(t, 3, cfg.MaxRaises)
	assert.Equal(t, "mccfr", cfg.Algorithm)
	assert.True(t, cfg.MCCFRLinear)
	assert.Equal(t, []int{10, 25}, cfg.Checkpoints)
	assert.Equal(t, 0.01, cfg.TargetExploitability)
	assert.Equal(t, uint64(99), cfg.Seed)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"non-object root", `[1,2,3]`},
		{"type mismatch", `{"pot": "big"}`},
		{"players length", `{"players": [{}]}`},
		{"hands without weights", `{"players": [{"hands": ["AsAh"]}, {}]}`},
		{"length mismatch", `{"players": [{"hands": ["AsAh"], "weights": [1, 2]}, {}]}`},
		{"unknown algorithm", `{"algorithm": "sgd"}`},
	}
	for _, tc := range tests {
		_, err := Parse([]byte(tc.data))
		require.Error(t, err, tc.name)
		kindErr, ok := errors.Cause(err).(*Error)
		require.True(t, ok, tc.name)
		assert.Equal(t, InvalidConfig, kindErr.Kind, tc.name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	kindErr, ok := errors.Cause(err).(*Error)
	require.True(t, ok)
	assert.Equal(t, IOFailure, kindErr.Kind)
}

func TestLoad_Resolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solve.json")
	data := `{
		"board": ["Ks","Th","7s","4d","2s"],
		"players": [
			{"hands": ["AsAh", "QcQd"], "weights": [1, 3]},
			{"hands": ["JcJd"], "weights": [1]}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	river, err := cfg.Resolve()
	require.NoError(t, err)

	require.Equal(t, 2, len(river.Hands[0]))
	assert.InDelta(t, 0.25, river.HandWeights[0][0], 1e-9)
	assert.InDelta(t, 0.75, river.HandWeights[0][1], 1e-9)
	require.Equal(t, 1, len(river.Hands[1]))
	assert.Equal(t, 1000, river.Pot)
}

func TestResolve_FullEnumerationWithoutPlayers(t *testing.T) {
	cfg, err := Parse([]byte(`{"board": ["Ks","Th","7s","4d","2s"]}`))
	require.NoError(t, err)
	river, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1081, len(river.Hands[0]))
	assert.Equal(t, 1081, len(river.Hands[1]))
}

func TestResolve_BadBoard(t *testing.T) {
	cfg, err := Parse([]byte(`{"board": ["Ks","Th","7s","4d"]}`))
	require.NoError(t, err)
	_, err = cfg.Resolve()
	assert.Error(t, err)

	cfg, err = Parse([]byte(`{"board": ["Ks","Th","7s","4d","Xx"]}`))
	require.NoError(t, err)
	_, err = cfg.Resolve()
	assert.Error(t, err)
}

func TestResolve_BadHandText(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"board": ["Ks","Th","7s","4d","2s"],
		"players": [{"hands": ["AsA"], "weights": [1]}, {}]
	}`))
	require.NoError(t, err)
	_, err = cfg.Resolve()
	assert.Error(t, err)
}
