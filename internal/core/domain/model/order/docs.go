// Package order provides the service-order lifecycle model: the ten statuses,
// the fixed transition graph between them, and the read model of an order as
// the lifecycle core sees it.
//
// The package includes:
//   - Status: the lifecycle state, with wire names such as "AWAITING_PARTS"
//   - StatusGraph: the immutable transition table and validity checks
//   - IsNotifiable: the customer-notification predicate
//   - DefaultReason: stock reason text per target status
//   - Order: identity, cached status, type, priority and assignment
//
// Key business rules:
//   - Received is the only entry state, reachable only from "no predecessor"
//   - Cancelled is terminal
//   - Delivered is soft-terminal and re-enters the graph through Warranty on
//     the same order id
//   - A status never transitions to itself
package order
