// Package history holds the ledger entry of the order lifecycle.
//
// A StatusTransition is immutable once written. Entries of one order are
// strictly increasing in OccurredAt and the first one is always
// NONE -> RECEIVED. The only way entries leave the ledger is the bulk
// retention purge, which removes an order's whole history at once.
package history
