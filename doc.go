// Package debtbook implements a local, offline ledger of informal debts:
// who owes whom, how much, and a dated, commented history of entries per
// client. All state lives in an embedded key-value store; the package
// derives a read-optimized model (per-client balances, sorted histories,
// aggregate stats) from the raw records on every read, and persists edits
// through a debounced, idempotent autosave session.
package debtbook
