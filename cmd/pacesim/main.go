// Command pacesim plays simulated runs against the problem generator and
// prints how the difficulty ramps for a given player skill.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xtding233/codefall/internal/config"
	"github.com/xtding233/codefall/internal/pacing"
	"github.com/xtding233/codefall/internal/problem"
)

func main() {
	var (
		configDir    = flag.String("config", "./config", "config directory")
		profile      = flag.String("profile", "", "config profile")
		catalogue    = flag.String("catalogue", "", "problem catalogue YAML (default: embedded)")
		trials       = flag.Int("trials", 1000, "simulated runs")
		spawns       = flag.Int("spawns", 60, "problems per run")
		seed         = flag.Uint64("seed", 1, "base seed")
		solve        = flag.String("solve", "1=0.9,2=0.7,3=0.5", "solve probability per difficulty")
		defaultSolve = flag.Float64("default-solve", 0.5, "solve probability for unlisted difficulties")
		asJSON       = flag.Bool("json", false, "print JSON")
	)
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cat, err := problem.Load(*catalogue)
	if err != nil {
		log.Fatal().Err(err).Msg("load catalogue")
	}
	_, params, err := config.NewLoader(*configDir).Resolve(*profile)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	probs, err := parseSolve(*solve)
	if err != nil {
		log.Fatal().Err(err).Msg("parse -solve")
	}

	res, err := pacing.RunMonteCarlo(pacing.SimParams{
		Catalogue:           cat,
		Tuning:              params.Tuning,
		Spawns:              *spawns,
		SolveProb:           probs,
		DefaultSolveProb:    *defaultSolve,
		PointsPerDifficulty: 2,
		Seed:                *seed,
	}, *trials)
	if err != nil {
		log.Fatal().Err(err).Msg("simulate")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	fmt.Printf("trials=%d spawns=%d profile=%q\n", *trials, *spawns, *profile)
	printStats("final average difficulty", res.FinalAverage)
	printStats("max difficulty", res.MaxDifficulty)
	printStats("solve rate", res.SolveRate)
	if res.Fallbacks > 0 {
		fmt.Printf("roulette fallbacks: %d\n", res.Fallbacks)
	}
}

func printStats(name string, s pacing.Stats) {
	fmt.Printf("%-26s mean=%.3f sd=%.3f p50=%.3f p90=%.3f p99=%.3f\n", name, s.Mean, s.StdDev, s.P50, s.P90, s.P99)
}

// parseSolve reads "1=0.9,2=0.7" into a difficulty → probability map.
func parseSolve(s string) (map[int]float64, error) {
	out := make(map[int]float64)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("%q: want difficulty=probability", part)
		}
		d, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		out[d] = p
	}
	return out, nil
}
