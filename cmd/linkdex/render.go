package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lthms/linkdex/internal/catalog"
	"github.com/lthms/linkdex/internal/manifest"
)

// RenderCmd renders the catalog grouped by tag hierarchy.
type RenderCmd struct {
	Format string `enum:"markdown,json" default:"markdown" help:"Output format (markdown or json)."`
	Output string `short:"o" help:"Write to a file instead of stdout." placeholder:"FILE"`
}

func (cmd *RenderCmd) Run(cfg *Config) error {
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	root := catalog.BuildTree(resources)

	out := os.Stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", cmd.Output, err)
		}
		defer f.Close()
		out = f
	}

	switch cmd.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(root.Nested())
	default:
		_, err := out.WriteString(renderMarkdown(root))
		return err
	}
}

// renderMarkdown produces a markdown document with one heading per
// category, nested up to three levels deep, each followed by its items.
func renderMarkdown(root *catalog.Node) string {
	var sb strings.Builder
	sb.WriteString("# Resources\n")
	for _, child := range root.Children() {
		writeSection(&sb, child)
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, n *catalog.Node) {
	depth := n.Depth
	if depth > 3 {
		depth = 3
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("#", depth+1))
	sb.WriteString(" ")
	sb.WriteString(headline(n.Segment()))
	sb.WriteString(fmt.Sprintf(" (%d)\n", n.Count()))

	for _, item := range n.SortedItems() {
		sb.WriteString(fmt.Sprintf("\n- [%s](%s)", item.DisplayName(), item.URL))
		if item.Description != "" {
			sb.WriteString(" - ")
			sb.WriteString(item.Description)
		}
		sb.WriteString("\n")
	}

	for _, child := range n.Children() {
		writeSection(sb, child)
	}
}

// headline turns a tag segment into a heading: hyphens become spaces and
// each word is capitalized.
func headline(segment string) string {
	words := strings.Split(segment, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
