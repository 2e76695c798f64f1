// Package workspace manages build directories in two modes.
//
// Ephemeral workspaces are uniquely named and removed on Cleanup. Full builds
// render into an ephemeral staging directory created next to the output
// directory and Promote it over the output once every page is written, so a
// failed build never leaves a partial site behind.
//
// Persistent workspaces use a fixed path that survives across runs, such as
// the daemon's git checkout.
package workspace
