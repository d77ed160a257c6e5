package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lthms/linkdex/internal/catalog"
	"github.com/lthms/linkdex/internal/manifest"
)

// AddCmd adds one resource to the manifest and the URL index. Missing
// fields are prompted for when stdin is a terminal.
type AddCmd struct {
	URL         string   `arg:"" optional:"" help:"Resource URL."`
	Name        string   `short:"n" help:"Resource name."`
	Description string   `short:"d" help:"One-line description."`
	Tags        []string `short:"t" help:"Hierarchical tags (a/b/c)."`
	Force       bool     `help:"Add even when similar URLs already exist."`
}

func (cmd *AddCmd) Run(cfg *Config) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	stdin := bufio.NewReader(os.Stdin)

	if cmd.URL == "" {
		if !interactive {
			return fmt.Errorf("URL is required")
		}
		cmd.URL = promptLine(stdin, "URL: ")
	}

	ix := catalog.OpenIndex(cfg.Catalog.Index)

	if entry, ok := ix.Lookup(cmd.URL); ok {
		return fmt.Errorf("already cataloged as %q (%s)", entry.Name, entry.OriginalURL)
	}

	if !cmd.Force {
		matches := ix.Similar(cmd.URL, cfg.SimilarityThreshold())
		if len(matches) > 0 {
			fmt.Fprintln(os.Stderr, "Similar URLs already indexed:")
			for _, m := range matches {
				fmt.Fprintf(os.Stderr, "  %.2f  %s (%s)\n", m.Score, m.Key, m.Entry.Name)
			}
			return fmt.Errorf("refusing to add; use --force to override")
		}
	}

	if cmd.Name == "" && interactive {
		cmd.Name = promptLine(stdin, "Name: ")
	}
	if cmd.Name == "" {
		return fmt.Errorf("name is required")
	}
	if cmd.Description == "" && interactive {
		cmd.Description = promptLine(stdin, "Description: ")
	}
	if len(cmd.Tags) == 0 && interactive {
		if line := promptLine(stdin, "Tags (comma-separated): "); line != "" {
			for _, t := range strings.Split(line, ",") {
				if t = strings.TrimSpace(t); t != "" {
					cmd.Tags = append(cmd.Tags, t)
				}
			}
		}
	}

	candidate := manifest.Resource{
		Name:        cmd.Name,
		URL:         cmd.URL,
		Description: cmd.Description,
		Tags:        cmd.Tags,
	}
	if issues := manifest.ValidateTags([]manifest.Resource{candidate}); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintln(os.Stderr, issue)
		}
		return fmt.Errorf("tags must be lowercase slash-separated paths")
	}

	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	resources = append(resources, candidate)
	if err := manifest.Save(cfg.Catalog.Manifest, resources); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	if _, err := ix.Add(cmd.URL, cmd.Name, cmd.Tags); err != nil {
		slog.Warn("index not persisted", "error", err)
	}

	fmt.Printf("Added %q (%s)\n", cmd.Name, cmd.URL)
	return nil
}

func promptLine(r *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
