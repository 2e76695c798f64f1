// Package build runs the docnav build pipeline.
//
// A build loads the navigation tree, discovers documents, validates both,
// renders every page and the landing page, verifies internal links and
// finalizes the output. Each stage is timed and reported to the metrics
// recorder; lifecycle events go to the event store and, when configured, to
// NATS.
//
// Full builds render into a staging directory that replaces the output
// directory only after every stage succeeded. Incremental builds write in
// place and skip pages whose fingerprint is unchanged.
package build
