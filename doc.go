// Package pdash computes the portfolio dashboard: the positions of a brokerage
// account, valued in their own currency, in USD and in CZK, merged with a
// session's simulated trades, and the account figures derived from them.
//
// The core functionalities include:
//   - FX Normalization: converting any amount through the CZK rate table of
//     the account snapshot, with a fallback chain for missing rates.
//   - Simulation Ledger: an in-memory list of hypothetical trades, validated
//     at entry and never persisted.
//   - Merge: combining the real positions and the simulations into one row
//     per symbol, creating "ghost" positions for symbols not held.
//   - Aggregation: deriving leverage, cash, net liquidity and percent
//     invested, before and after the simulations.
//   - Engine: keeping the latest snapshot and the ledger, recomputing the
//     view on every change and publishing it to subscribers.
//
// Every computation is a pure function of the snapshot, the simulations and
// a Config. This package serves as the foundational logic for the `pdash`
// command-line tool and its dashboard server.
package pdash
