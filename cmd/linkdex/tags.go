package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lthms/linkdex/internal/catalog"
	"github.com/lthms/linkdex/internal/manifest"
)

// TagsCmd groups the tag-hierarchy subcommands.
type TagsCmd struct {
	Analyze  TagsAnalyzeCmd  `cmd:"" help:"Summarize tag and category usage."`
	Tree     TagsTreeCmd     `cmd:"" help:"Print the tag hierarchy as a tree."`
	Validate TagsValidateCmd `cmd:"" help:"Check every tag against the naming rules."`
	Export   TagsExportCmd   `cmd:"" help:"Export the tag hierarchy as nested JSON."`
}

// TagsAnalyzeCmd summarizes tag usage.
type TagsAnalyzeCmd struct {
	JSON bool `help:"Emit the analysis as JSON."`
}

func (cmd *TagsAnalyzeCmd) Run(cfg *Config) error {
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	analysis := catalog.AnalyzeTags(resources)

	if cmd.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	fmt.Printf("Resources:   %d\n", analysis.TotalResources)
	fmt.Printf("Unique tags: %d\n", analysis.UniqueTags)
	if len(analysis.Untagged) > 0 {
		fmt.Printf("Untagged:    %d\n", len(analysis.Untagged))
		for _, name := range analysis.Untagged {
			fmt.Printf("  - %s\n", name)
		}
	}
	fmt.Println("Categories:")
	for _, c := range analysis.CategoryUsage {
		fmt.Printf("  %4d  %s\n", c.Count, c.Tag)
	}
	fmt.Println("Tags:")
	for _, t := range analysis.TagUsage {
		fmt.Printf("  %4d  %s\n", t.Count, t.Tag)
	}
	return nil
}

// TagsTreeCmd prints the hierarchy with counts.
type TagsTreeCmd struct{}

func (cmd *TagsTreeCmd) Run(cfg *Config) error {
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	root := catalog.BuildTree(resources)
	for _, line := range treeLines(root, "") {
		fmt.Println(line)
	}
	return nil
}

// treeLines renders a subtree with box-drawing connectors, one line per
// node, each labeled with its recursive item count.
func treeLines(n *catalog.Node, prefix string) []string {
	var lines []string
	children := n.Children()
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		lines = append(lines, fmt.Sprintf("%s%s%s (%d)", prefix, connector, child.Segment(), child.Count()))
		lines = append(lines, treeLines(child, childPrefix)...)
	}
	return lines
}

// TagsValidateCmd checks every tag in the manifest against the naming
// rules.
type TagsValidateCmd struct{}

func (cmd *TagsValidateCmd) Run(cfg *Config) error {
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	issues := manifest.ValidateTags(resources)
	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d invalid tags", len(issues))
	}
	fmt.Println("All tags valid")
	return nil
}

// TagsExportCmd emits the hierarchy as nested JSON.
type TagsExportCmd struct {
	Output string `short:"o" help:"Write to a file instead of stdout." placeholder:"FILE"`
}

func (cmd *TagsExportCmd) Run(cfg *Config) error {
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

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(root.Nested())
}
