// Package nav defines the documentation navigation tree.
//
// A Tree holds one or more named sidebars. Each sidebar is an ordered slice of
// nodes; a node is either a leaf referencing exactly one document slug or a
// category grouping further nodes under a label. Sibling order is the
// authoritative display order and also defines next/previous sequencing.
//
// The tree is authored statically (see Parse for the file format), loaded once
// per build and never mutated afterwards.
package nav
