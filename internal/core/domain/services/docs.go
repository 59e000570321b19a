// Package services holds the read-side domain logic of the service desk:
// rebuilding an order's timeline from its ledger and computing workflow
// analytics over many orders.
//
// The package includes:
//   - TimelineComposer: per-status rows with dwell times for one order
//   - WorkflowAccumulator: single-pass counts, dwell averages and bottlenecks
//   - ProductivityCalculator: per-operator throughput and processing time
//   - StaleOrderDetector: active orders that stopped moving
//
// None of them touch storage; they consume ledger entries handed in by the
// query handlers.
package services
