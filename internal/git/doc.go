// Package git keeps a local checkout of the documentation source repository
// in sync with its remote.
//
// The checkout is owned by docnav: it is cloned on first use and afterwards
// fetched and moved to the remote branch tip. Local commits are discarded
// when the remote history diverges.
package git
