// Package config loads and resolves the JSON solve configuration described
// by the CLI contract: board, pot, stacks, bet sizings, per-player ranges,
// and run parameters.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/rivergrid/rivercfr/pkg/cards"
	"github.com/rivergrid/rivercfr/pkg/game"
)

// ErrorKind classifies a configuration failure. Card and board text failures
// surface as cards.Error from the parsing layer instead.
type ErrorKind int

const (
	// InvalidConfig covers JSON structure mismatches: non-object root,
	// type-mismatched fields, players length != 2, mismatched hands/weights.
	InvalidConfig ErrorKind = iota
	// IOFailure covers an unreadable config file.
	IOFailure
)

// Error is the typed error returned by this package.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind ErrorKind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Msg: msg})
}

// Player is one player's explicit range: parallel hand strings and weights.
// Both fields present, or neither (full enumeration with weight 1).
type Player struct {
	Hands   []string  `json:"hands"`
	Weights []float64 `json:"weights"`
}

// Config is the recognised-field set of the solve configuration. Absent
// fields keep their defaults from Default.
type Config struct {
	Board        []string  `json:"board"`
	Pot          int       `json:"pot"`
	Stack        int       `json:"stack"`
	BetSizes     []float64 `json:"bet_sizes"`
	IncludeAllIn bool      `json:"include_all_in"`
	MaxRaises    int       `json:"max_raises"`
	Players      []Player  `json:"players"`

	Algorithm            string  `json:"algorithm"`
	MCCFRLinear          bool    `json:"mccfr_linear"`
	DCFRAlpha            float64 `json:"dcfr_alpha"`
	DCFRBeta             float64 `json:"dcfr_beta"`
	DCFRGamma            float64 `json:"dcfr_gamma"`
	Iterations           int     `json:"iterations"`
	Checkpoints          []int   `json:"checkpoints"`
	TargetExploitability float64 `json:"target_exploitability"`
	Seed                 uint64  `json:"seed"`
}

// Default returns the documented defaults; Parse overlays the file on top.
func Default() *Config {
	return &Config{
		Pot:          1000,
		Stack:        9500,
		BetSizes:     []float64{0.5, 1.0},
		IncludeAllIn: true,
		MaxRaises:    1000,
		Algorithm:    "cfr+",
		DCFRAlpha:    1.5,
		DCFRBeta:     0,
		DCFRGamma:    2.0,
		Iterations:   1000,
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(newError(IOFailure, "cannot open config file "+path), err.Error())
	}
	return Parse(data)
}

// Parse decodes JSON over the defaults and checks structural validity.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(newError(InvalidConfig, "config JSON structure mismatch"), err.Error())
	}
	if cfg.Players != nil && len(cfg.Players) != 2 {
		return nil, newError(InvalidConfig, "players must have exactly 2 entries")
	}
	for _, p := range cfg.Players {
		if (p.Hands == nil) != (p.Weights == nil) {
			return nil, newError(InvalidConfig, "player hands and weights must be given together")
		}
		if len(p.Hands) != len(p.Weights) {
			return nil, newError(InvalidConfig, "player hands/weights length mismatch")
		}
	}
	switch cfg.Algorithm {
	case "cfr", "cfr+", "lcfr", "dcfr", "mccfr", "all":
	default:
		return nil, newError(InvalidConfig, "unknown algorithm "+cfg.Algorithm)
	}
	return cfg, nil
}

// Resolve builds the river game the configuration describes.
func (c *Config) Resolve() (*game.River, error) {
	board, err := cards.ParseBoard(strings.Join(c.Board, ""))
	if err != nil {
		return nil, errors.Wrap(err, "resolving board")
	}

	var ranges [2]game.Range
	for p, pc := range c.Players {
		if pc.Hands == nil {
			continue
		}
		rng := game.Range{Weights: pc.Weights}
		for i, text := range pc.Hands {
			c1, c2, err := cards.ParseHand(text)
			if err != nil {
				return nil, errors.Wrapf(err, "player %d hand %d", p, i)
			}
			rng.Hands = append(rng.Hands, [2]cards.Card{c1, c2})
		}
		ranges[p] = rng
	}

	river, err := game.NewRiver(board, c.Pot, c.Stack, c.BetSizes, c.IncludeAllIn, c.MaxRaises, ranges)
	if err != nil {
		return nil, errors.Wrap(newError(InvalidConfig, "invalid game parameters"), err.Error())
	}
	return river, nil
}
