// Package standing applies standing events to trainer-faction pairs.
//
// An event clamps the origin faction's value into [faction.MinStanding,
// faction.MaxStanding], recomputes the origin title and then fans out once to
// related factions. Neighbor updates are detached from the caller's
// cancellation and never fail the event: a neighbor that cannot be updated is
// reported in Result.Failures, logged and written to the audit ledger.
package standing
