package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gopkg.in/yaml.v3"

	"github.com/lthms/linkdex/internal/linkcheck"
	"github.com/lthms/linkdex/internal/manifest"
)

// CheckLinksCmd probes every cataloged URL and reports the dead ones.
type CheckLinksCmd struct {
	NoCache bool   `help:"Probe every URL even when a recent result is cached."`
	Output  string `short:"o" help:"Write the dead-link report to a file." placeholder:"FILE"`
}

func (cmd *CheckLinksCmd) Run(cfg *Config) error {
	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	var store *linkcheck.Store
	if path := cfg.CachePath(); path != "" && !cmd.NoCache {
		store, err = linkcheck.OpenStore(path)
		if err != nil {
			return fmt.Errorf("open check cache: %w", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checker := linkcheck.New(cfg.LinkTimeout(), store, cfg.CacheMaxAge())
	dead, err := checker.Check(ctx, resources)
	if err != nil {
		return err
	}

	if len(dead) == 0 {
		fmt.Printf("All %d links OK\n", len(resources))
		return nil
	}

	report, err := yaml.Marshal(map[string][]linkcheck.DeadLink{"dead_links": dead})
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, report, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		os.Stdout.Write(report)
	}
	return fmt.Errorf("%d dead links", len(dead))
}
