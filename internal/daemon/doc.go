// Package daemon keeps a published site current with its source repository.
//
// On a schedule (a Go duration or a cron expression) it syncs the git
// checkout, rebuilds when the checked out commit differs from the last
// successful build, and serves the output through the preview server
// without live reload watchers.
package daemon
