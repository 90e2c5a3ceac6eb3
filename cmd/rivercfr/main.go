// Command rivercfr solves a heads-up river subgame for an approximate Nash
// strategy and optionally dumps the result as JSON.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/golang/glog"
	"github.com/pterm/pterm"

	"github.com/rivergrid/rivercfr/pkg/config"
	"github.com/rivergrid/rivercfr/pkg/dump"
	"github.com/rivergrid/rivercfr/pkg/evaluator"
	"github.com/rivergrid/rivercfr/pkg/game"
	"github.com/rivergrid/rivercfr/pkg/solver"
	"github.com/rivergrid/rivercfr/pkg/tree"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to the JSON solve configuration (required)")
	dumpPath := flag.String("dump-strategy", "", "Write the trained average strategy to this JSON file")
	iterations := flag.Int("iterations", 0, "Override the configured iteration count when > 0")
	algo := flag.String("algo", "", "Algorithm: cfr, cfr+, lcfr, dcfr, mccfr, or all")
	mccfrLinear := flag.Bool("mccfr-linear", false, "Enable linear weighting for MCCFR")
	seed := flag.Uint64("seed", 0, "MCCFR RNG seed (0 uses the fixed default)")
	verbose := flag.Bool("verbose", false, "Show per-checkpoint detail")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: rivercfr --config <path> [flags]")
		flag.PrintDefaults()
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		pterm.Error.Printfln("loading config: %v", err)
		return 1
	}
	if *iterations > 0 {
		cfg.Iterations = *iterations
	}
	if *algo != "" {
		cfg.Algorithm = *algo
	}
	if *mccfrLinear {
		cfg.MCCFRLinear = true
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if cfg.Algorithm == "all" && *dumpPath != "" {
		pterm.Error.Println("--dump-strategy cannot be combined with --algo all")
		return 1
	}

	river, err := cfg.Resolve()
	if err != nil {
		pterm.Error.Printfln("resolving config: %v", err)
		return 1
	}
	gameTree := river.BuildTree()
	eval := evaluator.New(river.Hands[0], river.Hands[1])

	glog.Infof("game: %d vs %d hands, tree %d nodes (max %d actions, depth %d)",
		len(river.Hands[0]), len(river.Hands[1]), len(gameTree.Nodes), gameTree.MaxActions, gameTree.MaxDepth)
	if *verbose {
		pterm.Info.Printfln("hands: %d vs %d, tree: %d nodes", len(river.Hands[0]), len(river.Hands[1]), len(gameTree.Nodes))
	}

	for _, token := range algorithms(cfg.Algorithm) {
		trainer, err := buildTrainer(token, cfg, river, gameTree, eval)
		if err != nil {
			pterm.Error.Printfln("building trainer: %v", err)
			return 1
		}
		expl, ran := train(trainer, token, cfg, river, *verbose)
		pterm.Success.Printfln("%s: exploitability %.4f chips (%.4f%% of pot) after %d iterations",
			token, expl, 100*expl/float64(river.Pot), ran)

		if *dumpPath != "" {
			profile := dump.Build(river, gameTree, trainer)
			if err := profile.Write(*dumpPath); err != nil {
				pterm.Warning.Printfln("strategy dump failed: %v", err)
			} else if *verbose {
				pterm.Info.Printfln("strategy written to %s", *dumpPath)
			}
		}
	}
	return 0
}

// algorithms expands the "all" token to the three non-vanilla deterministic
// variants, run sequentially.
func algorithms(token string) []string {
	if token == "all" {
		return []string{"cfr+", "lcfr", "dcfr"}
	}
	return []string{token}
}

func buildTrainer(token string, cfg *config.Config, river *game.River, tr *tree.Tree, ev *evaluator.Evaluator) (solver.Trainer, error) {
	if token == "mccfr" {
		return solver.NewMCCFR(river, tr, ev, cfg.MCCFRLinear, cfg.Seed), nil
	}
	variant, err := solver.ParseVariant(token)
	if err != nil {
		return nil, err
	}
	params := solver.Params{
		Variant:       variant,
		DiscountAlpha: cfg.DCFRAlpha,
		DiscountBeta:  cfg.DCFRBeta,
		DiscountGamma: cfg.DCFRGamma,
	}
	return solver.NewCFR(river, tr, ev, params), nil
}

// train runs the iteration budget in checkpoint segments, logging
// exploitability at each, and stops early once the target fraction of the
// base pot is reached.
func train(trainer solver.Trainer, token string, cfg *config.Config, river *game.River, verbose bool) (float64, int) {
	checkpoints := append([]int{}, cfg.Checkpoints...)
	sort.Ints(checkpoints)

	done := 0
	expl := 0.0
	runTo := func(target int) bool {
		if target <= done {
			return false
		}
		trainer.Run(target - done)
		done = target
		expl = trainer.Exploitability()
		glog.V(1).Infof("%s iter %d: exploitability %.6f", token, done, expl)
		if verbose {
			pterm.Info.Printfln("%s iter %d: exploitability %.4f", token, done, expl)
		}
		return cfg.TargetExploitability > 0 && expl <= cfg.TargetExploitability*float64(river.Pot)
	}

	for _, cp := range checkpoints {
		if cp > cfg.Iterations {
			break
		}
		if runTo(cp) {
			return expl, done
		}
	}
	runTo(cfg.Iterations)
	return expl, done
}
