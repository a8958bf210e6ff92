// Package workspace manages the scoped temporary directory a publish run
// clones the hosting branch into. The directory exists only for the lifetime
// of one run: callers defer Cleanup immediately after Create so the clone is
// removed whether the run succeeds or fails partway.
package workspace
