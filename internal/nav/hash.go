package nav

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"
)

// Hash returns a stable digest of the tree's content. Any change in order,
// nesting, labels, slugs or collapsed state changes the hash.
func Hash(t *Tree) string {
	h := sha256.New()
	if t == nil {
		_, _ = h.Write([]byte("nil-tree"))
		return hex.EncodeToString(h.Sum(nil))
	}
	field(h, "v"+strconv.Itoa(t.Version))
	for _, sb := range t.Sidebars {
		field(h, "sidebar")
		field(h, sb.Name)
		_ = Walk(sb.Items, func(n *Node, ancestors []*Node) error {
			field(h, strconv.Itoa(len(ancestors)))
			field(h, string(n.Kind))
			field(h, n.ID)
			field(h, n.Label)
			field(h, strconv.FormatBool(n.Collapsed))
			return nil
		})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// field writes s length-prefixed, so no content can fake a field boundary.
func field(h hash.Hash, s string) {
	_, _ = h.Write([]byte(strconv.Itoa(len(s)) + ":" + s))
}
