package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/lthms/linkdex/internal/catalog"
	"github.com/lthms/linkdex/internal/manifest"
)

// ImportCmd bulk-imports resources from a YAML batch file into the
// manifest and index.
type ImportCmd struct {
	File           string `arg:"" type:"existingfile" help:"YAML batch file to import."`
	SkipDuplicates bool   `help:"Silently skip URLs that are already indexed."`
	DryRun         bool   `help:"Validate and report without writing anything."`
}

func (cmd *ImportCmd) Run(cfg *Config) error {
	batch, err := manifest.LoadBatch(cmd.File)
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}
	if len(batch) == 0 {
		return fmt.Errorf("%s contains no resources", cmd.File)
	}

	for i, r := range batch {
		if err := manifest.ValidateResource(r); err != nil {
			return fmt.Errorf("resource %d (%s): %w", i+1, r.DisplayName(), err)
		}
	}

	ix := catalog.OpenIndex(cfg.Catalog.Index)
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	bar := progressbar.Default(int64(len(batch)), "importing")
	imported, skipped := 0, 0
	seen := make(map[string]struct{})
	for _, r := range batch {
		bar.Add(1)

		// The batch itself can spell one URL two ways; track canonical
		// keys across the pass so a dry run reports what a real import
		// would do.
		key, err := catalog.Normalize(r.URL)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", r.URL, err)
		}
		_, dup := ix.Lookup(r.URL)
		if !dup {
			_, dup = seen[key]
		}
		if dup {
			if !cmd.SkipDuplicates {
				return fmt.Errorf("duplicate URL: %s (use --skip-duplicates)", r.URL)
			}
			skipped++
			continue
		}
		seen[key] = struct{}{}

		if cmd.DryRun {
			imported++
			continue
		}

		resources = append(resources, r)
		if _, err := ix.Add(r.URL, r.DisplayName(), r.Tags); err != nil {
			slog.Warn("index not persisted", "url", r.URL, "error", err)
		}
		imported++
	}

	if !cmd.DryRun {
		if err := manifest.Save(cfg.Catalog.Manifest, resources); err != nil {
			return fmt.Errorf("save manifest: %w", err)
		}
	}

	verb := "Imported"
	if cmd.DryRun {
		verb = "Would import"
	}
	fmt.Printf("%s %d resources (%d skipped)\n", verb, imported, skipped)
	return nil
}
