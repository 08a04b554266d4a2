package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the application.
//
// Boolean flags have no predictor. Calling Complete on it is a no-op unless
// the shell asked for completions, install it with COMP_INSTALL=1 pdash.
func Completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"backend":       predict.Something,
			"snapshot-file": predict.Files("*.json"),
			"log-level":     predict.Set{"debug", "info", "warn", "error"},
		},
		Sub: map[string]*complete.Command{
			"show": {
				Flags: map[string]complete.Predictor{
					"sim":              predict.Something,
					"title":            predict.Something,
					"json":             nil,
					"raw":              nil,
					"skip-simulations": nil,
				},
			},
			"quote": {
				Flags: map[string]complete.Predictor{
					"alloc": predict.Something,
					"raw":   nil,
				},
				Args: predict.Something,
			},
			"serve": {
				Flags: map[string]complete.Predictor{
					"addr":    predict.Something,
					"refresh": predict.Set{"30s", "1m", "5m"},
				},
			},
			"assist": {
				Flags: map[string]complete.Predictor{"raw": nil},
				Args:  predict.Something,
			},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": nil},
				Args:  predict.Set{"simulations", "fx", "margin", "server", "configuration"},
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
