// Package costbasis tracks the holdings and valuation of an investment
// portfolio from an immutable list of transactions, with exact FIFO cost
// basis accounting in a single base currency.
//
// The core functionalities include:
//   - Ledgers: one per security and one per cash currency. Every buy, sell
//     and dividend of a security is mirrored on the cash ledger it settles
//     in, so that cash balances come from the same lot machinery.
//   - FIFO lots: sells and withdrawals consume the oldest lots first. Every
//     query replays the ledger up to its date, so results never depend on
//     the order of queries.
//   - Currency normalization: cost is converted at the rate of each
//     transaction, market value at the latest known rate.
//   - Valuation: snapshots of open positions, closed positions over a
//     period, dividends, and per-day evolution records for plotting.
//
// This package serves as the foundational logic for the `cbs` command-line
// tool.
package costbasis
