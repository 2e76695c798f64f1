package nav

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

const (
	typeDoc      = "doc"
	typeCategory = "category"
)

var knownItemKeys = map[string]bool{"type": true, "id": true, "label": true, "items": true, "collapsed": true}

type fileFormat struct {
	Version  int       `yaml:"version"`
	Sidebars yaml.Node `yaml:"sidebars"`
}

// Load reads and parses a tree file.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read navigation file").
			WithContext("path", path).
			Build()
	}
	tree, err := Parse(data)
	if err != nil {
		if c, ok := errors.AsClassified(err); ok {
			return nil, c.WithContext("path", path)
		}
		return nil, err
	}
	return tree, nil
}

// Parse decodes the tree file format. Sidebars keep their mapping order.
//
// A sidebar entry is either a plain string (a leaf slug), a mapping with
// type "doc" and an id, or a mapping with type "category", a label and items.
// Parse only rejects malformed syntax; shape invariants are checked by Validate.
func Parse(data []byte) (*Tree, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid navigation YAML").Build()
	}
	tree := &Tree{Version: f.Version}
	if tree.Version == 0 {
		tree.Version = CurrentVersion
	}
	if tree.Version > CurrentVersion {
		return nil, errors.ValidationError("unsupported navigation file version").
			WithContext("version", tree.Version).
			Build()
	}
	if f.Sidebars.Kind == 0 {
		return tree, nil
	}
	if f.Sidebars.Kind != yaml.MappingNode {
		return nil, syntaxError(&f.Sidebars, "sidebars must be a mapping of name to item list")
	}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(f.Sidebars.Content); i += 2 {
		key, value := f.Sidebars.Content[i], f.Sidebars.Content[i+1]
		name := key.Value
		if seen[name] {
			return nil, syntaxError(key, "duplicate sidebar "+strconv.Quote(name))
		}
		seen[name] = true
		items, err := decodeItems(value, name)
		if err != nil {
			return nil, err
		}
		tree.Sidebars = append(tree.Sidebars, Sidebar{Name: name, Items: items})
	}
	return tree, nil
}

func decodeItems(seq *yaml.Node, path string) ([]*Node, error) {
	if seq.Kind == yaml.ScalarNode && seq.Tag == "!!null" {
		return nil, nil
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, syntaxError(seq, path+" must be a list")
	}
	items := make([]*Node, 0, len(seq.Content))
	for i, child := range seq.Content {
		n, err := decodeItem(child, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}

func decodeItem(node *yaml.Node, path string) (*Node, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Leaf(node.Value), nil
	case yaml.MappingNode:
	default:
		return nil, syntaxError(node, path+" must be a slug or a mapping")
	}

	var (
		typ, id, label string
		collapsed      bool
		itemsNode      *yaml.Node
	)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if !knownItemKeys[key.Value] {
			return nil, syntaxError(key, fmt.Sprintf("%s: unknown key %q", path, key.Value))
		}
		switch key.Value {
		case "type":
			typ = value.Value
		case "id":
			id = value.Value
		case "label":
			label = value.Value
		case "collapsed":
			if err := value.Decode(&collapsed); err != nil {
				return nil, syntaxError(value, path+": collapsed must be a boolean")
			}
		case "items":
			itemsNode = value
		}
	}

	switch typ {
	case typeDoc:
		n := &Node{Kind: KindLeaf, ID: id, Label: label}
		if itemsNode != nil {
			children, err := decodeItems(itemsNode, path+".items")
			if err != nil {
				return nil, err
			}
			n.Children = children
		}
		return n, nil
	case typeCategory:
		n := &Node{Kind: KindCategory, ID: id, Label: label, Collapsed: collapsed}
		if itemsNode != nil {
			children, err := decodeItems(itemsNode, path+".items")
			if err != nil {
				return nil, err
			}
			n.Children = children
		}
		return n, nil
	case "":
		return nil, syntaxError(node, path+": missing type")
	default:
		return nil, syntaxError(node, fmt.Sprintf("%s: unknown type %q", path, typ))
	}
}

func syntaxError(node *yaml.Node, msg string) error {
	return errors.ValidationError(msg).
		WithContext("line", node.Line).
		WithContext("column", node.Column).
		Build()
}

// Marshal encodes t in the tree file format. Leaves are written in the plain
// string form.
func Marshal(t *Tree) ([]byte, error) {
	sidebars := &yaml.Node{Kind: yaml.MappingNode}
	for _, sb := range t.Sidebars {
		sidebars.Content = append(sidebars.Content, scalar(sb.Name), encodeItems(sb.Items))
	}
	version := t.Version
	if version == 0 {
		version = CurrentVersion
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		scalar("version"), {Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(version)},
		scalar("sidebars"), sidebars,
	}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		_ = enc.Close()
		return nil, errors.WrapError(err, errors.CategoryInternal, "encode navigation tree").Build()
	}
	if err := enc.Close(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "encode navigation tree").Build()
	}
	return buf.Bytes(), nil
}

// Save writes t to path in the tree file format.
func Save(path string, t *Tree) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write navigation file").
			WithContext("path", path).
			Build()
	}
	return nil
}

func encodeItems(items []*Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range items {
		seq.Content = append(seq.Content, encodeItem(n))
	}
	return seq
}

func encodeItem(n *Node) *yaml.Node {
	if n.IsLeaf() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.ID}
	}
	m := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		scalar("type"), scalar(typeCategory),
		scalar("label"), scalar(n.Label),
	}}
	if n.Collapsed {
		m.Content = append(m.Content, scalar("collapsed"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	m.Content = append(m.Content, scalar("items"), encodeItems(n.Children))
	return m
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
