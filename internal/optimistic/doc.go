// Package optimistic coordinates local-first mutations.
//
// Applying a mutation writes the guessed value into the local state slice
// synchronously and records a pending marker keyed by correlation id. The
// marker resolves to exactly one terminal outcome: Commit replaces it with
// the server's canonical value, Rollback restores the pre-mutation value
// verbatim.
//
// Collision policy is supersede: a second mutation on a still-pending entity
// inherits the original stable value as its rollback target, and the first
// mutation's eventual resolution is discarded.
package optimistic
