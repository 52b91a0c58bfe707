/*
Engine is the single writer of order, position and account state.

# Module
  - queue: bounded command queue drained by one goroutine
  - risk: pre-trade checks turn a new order into DENIED or SUBMITTED
  - cache: orders, order lists and positions
  - accounting: balances of calculated venues follow every fill
  - journal: every applied event is appended with a sequence number

# Source
  - orders from strategies through Submit
  - venue events through Process
  - journal replay on start

# Produce
  - journal records, store rows and position snapshots
*/
package engine
