// Package gitremote provides the Git operations behind the publish workflow:
// resolving the single push remote of a working repository, cloning the
// hosting branch into a workspace, and staging, committing, and pushing the
// refreshed documentation tree.
//
// The package deliberately fails closed on remote resolution: publishing to
// the wrong remote mutates a real shared branch, so anything other than
// exactly one push-capable remote aborts before any mutating operation.
package gitremote
