// Package queries contains the read operations of the service desk: order
// history and timelines, transition checks, workflow analytics and ledger
// export. Handlers read through the ports only and never write.
package queries
