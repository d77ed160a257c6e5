package catalog

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lthms/linkdex/internal/manifest"
)

// Node is one level of the tag hierarchy. Path is the full slash-joined
// prefix from the root ("" for the synthetic root), Items the records
// attached directly at this node. Records tagged deeper live in children.
type Node struct {
	Path  string
	Depth int
	Items []manifest.Resource

	children map[string]*Node
	seen     map[string]struct{}
}

// BuildTree folds each record's slash-delimited tags into a tree rooted at
// a synthetic empty-path node. The tree is a derived, disposable view,
// rebuilt from scratch on every call: it has no persistence of its own.
//
// Each tag is split on "/", segments are trimmed and empty segments
// dropped; a tag left with zero segments is ignored with a warning while
// the record itself is kept. The record attaches to the final node of each
// tag path only, never to the ancestors.
func BuildTree(records []manifest.Resource) *Node {
	b := &treeBuilder{
		root:  &Node{children: make(map[string]*Node)},
		arena: make(map[string]*Node),
	}
	for _, r := range records {
		for _, tag := range r.Tags {
			segments := splitTag(tag)
			if len(segments) == 0 {
				slog.Warn("tree: ignoring empty tag", "resource", r.DisplayName(), "tag", tag)
				continue
			}
			b.attach(r, segments)
		}
	}
	return b.root
}

// treeBuilder creates nodes through an arena keyed by full path, so every
// tag path maps to exactly one node.
type treeBuilder struct {
	root  *Node
	arena map[string]*Node
}

func (b *treeBuilder) attach(r manifest.Resource, segments []string) {
	node := b.root
	path := ""
	for _, seg := range segments {
		if path == "" {
			path = seg
		} else {
			path = path + "/" + seg
		}
		child, ok := node.children[seg]
		if !ok {
			child = &Node{
				Path:     path,
				Depth:    node.Depth + 1,
				children: make(map[string]*Node),
				seen:     make(map[string]struct{}),
			}
			node.children[seg] = child
			b.arena[path] = child
		}
		node = child
	}
	node.add(r)
}

// add attaches a record at most once per node, keyed by URL.
func (n *Node) add(r manifest.Resource) {
	if _, ok := n.seen[r.URL]; ok {
		return
	}
	n.seen[r.URL] = struct{}{}
	n.Items = append(n.Items, r)
}

// Count is the recursive item total: direct items plus all descendants. A
// record tagged into two branches counts once per branch it occupies; this
// is a display-count semantic, not set cardinality.
func (n *Node) Count() int {
	total := len(n.Items)
	for _, c := range n.children {
		total += c.Count()
	}
	return total
}

// Child returns the child node for a path segment, or nil.
func (n *Node) Child(segment string) *Node {
	return n.children[segment]
}

// Children returns the child nodes sorted lexicographically by segment, so
// traversal order never depends on insertion order.
func (n *Node) Children() []*Node {
	segments := make([]string, 0, len(n.children))
	for s := range n.children {
		segments = append(segments, s)
	}
	sort.Strings(segments)

	out := make([]*Node, 0, len(segments))
	for _, s := range segments {
		out = append(out, n.children[s])
	}
	return out
}

// Segment returns the node's last path element.
func (n *Node) Segment() string {
	if i := strings.LastIndex(n.Path, "/"); i >= 0 {
		return n.Path[i+1:]
	}
	return n.Path
}

// SortedItems returns the direct items ordered case-insensitively by
// display name.
func (n *Node) SortedItems() []manifest.Resource {
	items := make([]manifest.Resource, len(n.Items))
	copy(items, n.Items)
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].DisplayName()) < strings.ToLower(items[j].DisplayName())
	})
	return items
}

// Nested renders the subtree in the generic nested-object form used for
// JSON export: each node is a map of child segments plus an "_items" list.
func (n *Node) Nested() map[string]any {
	items := make([]map[string]any, 0, len(n.Items))
	for _, r := range n.SortedItems() {
		item := map[string]any{
			"name": r.DisplayName(),
			"url":  r.URL,
			"tags": r.Tags,
		}
		if r.Description != "" {
			item["description"] = r.Description
		}
		items = append(items, item)
	}

	out := map[string]any{"_items": items}
	for seg, child := range n.children {
		out[seg] = child.Nested()
	}
	return out
}

func splitTag(tag string) []string {
	var segments []string
	for _, part := range strings.Split(tag, "/") {
		part = strings.TrimSpace(part)
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
