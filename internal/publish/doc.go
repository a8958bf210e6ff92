// Package publish orchestrates the documentation publishing pipeline: build
// the docs, resolve the single push remote, clone the hosting branch into a
// scoped workspace, replace the published tree with the fresh build, commit,
// and push.
//
// The pipeline is strictly linear. Any stage failure aborts the run; the
// workspace is removed on return whether the run succeeded or failed.
package publish
