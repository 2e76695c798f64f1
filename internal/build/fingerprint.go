package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// contextHash digests everything besides a document's own content that
// shows up in its page: the tree, every label and route, and the site
// options.
func contextHash(tree *nav.Tree, set *docs.Set, router *nav.Router, opts Options) string {
	h := sha256.New()
	h.Write([]byte(nav.Hash(tree)))
	h.Write([]byte{0})

	labels := set.Labels()
	slugs := set.Slugs()
	slices.Sort(slugs)
	for _, s := range slugs {
		h.Write([]byte(s + "\x00" + labels[s] + "\x00" + router.Route(s) + "\x00"))
	}

	// Options contains only plain data; Marshal cannot fail.
	siteJSON, _ := json.Marshal(struct {
		Site    any
		Landing any
	}{opts.Site, opts.Landing})
	h.Write(siteJSON)
	return hex.EncodeToString(h.Sum(nil))
}

// pageFingerprint combines a document's content fingerprint with the
// context hash.
func pageFingerprint(d *docs.Doc, ctxHash string) string {
	content := mdfp.CalculateFingerprintFromParts(string(d.RawFrontmatter), string(d.Body))
	sum := sha256.Sum256([]byte(content + "\x00" + ctxHash))
	return hex.EncodeToString(sum[:])
}
