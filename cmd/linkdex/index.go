package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lthms/linkdex/internal/catalog"
	"github.com/lthms/linkdex/internal/manifest"
)

// CheckCmd reports whether a URL is already cataloged.
type CheckCmd struct {
	URL string `arg:"" help:"URL to look up."`
}

func (cmd *CheckCmd) Run(cfg *Config) error {
	ix := catalog.OpenIndex(cfg.Catalog.Index)
	entry, ok := ix.Lookup(cmd.URL)
	if !ok {
		fmt.Printf("%s is not cataloged\n", cmd.URL)
		return nil
	}
	fmt.Printf("%s is cataloged as %q", cmd.URL, entry.Name)
	if len(entry.Tags) > 0 {
		fmt.Printf(" [%s]", strings.Join(entry.Tags, ", "))
	}
	fmt.Println()
	return nil
}

// SimilarCmd lists indexed URLs similar to the given one.
type SimilarCmd struct {
	URL       string  `arg:"" help:"URL to compare against the index."`
	Threshold float64 `help:"Minimum similarity score (0-1); overrides the configured default." default:"-1"`
}

func (cmd *SimilarCmd) Run(cfg *Config) error {
	threshold := cmd.Threshold
	if threshold < 0 {
		threshold = cfg.SimilarityThreshold()
	}

	ix := catalog.OpenIndex(cfg.Catalog.Index)
	matches := ix.Similar(cmd.URL, threshold)
	if len(matches) == 0 {
		fmt.Printf("No indexed URLs with similarity >= %.2f\n", threshold)
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%.2f  %s (%s)\n", m.Score, m.Key, m.Entry.Name)
	}
	return nil
}

// RemoveCmd deletes a URL from the index.
type RemoveCmd struct {
	URL string `arg:"" help:"URL to remove."`
}

func (cmd *RemoveCmd) Run(cfg *Config) error {
	ix := catalog.OpenIndex(cfg.Catalog.Index)
	removed, err := ix.Remove(cmd.URL)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%s is not in the index", cmd.URL)
	}
	fmt.Printf("Removed %s\n", cmd.URL)
	return nil
}

// RebuildCmd regenerates the index from the manifest.
type RebuildCmd struct{}

func (cmd *RebuildCmd) Run(cfg *Config) error {
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	ix := catalog.OpenIndex(cfg.Catalog.Index)
	count, err := ix.Rebuild(resources)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d resources (%d unique URLs)\n", count, ix.Len())
	return nil
}

// StatsCmd prints index statistics.
type StatsCmd struct {
	JSON bool `help:"Emit statistics as JSON."`
}

func (cmd *StatsCmd) Run(cfg *Config) error {
	ix := catalog.OpenIndex(cfg.Catalog.Index)
	stats := ix.Stats()

	if cmd.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("URLs:    %d\n", stats.TotalURLs)
	fmt.Printf("Domains: %d\n", stats.TotalDomains)
	fmt.Printf("Tags:    %d\n", stats.TotalTags)
	if len(stats.TopDomains) > 0 {
		fmt.Println("Top domains:")
		for _, d := range stats.TopDomains {
			fmt.Printf("  %4d  %s\n", d.Count, d.Domain)
		}
	}
	return nil
}
