package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lthms/linkdex/internal/catalog"
	"github.com/lthms/linkdex/internal/manifest"
)

func importFixture(t *testing.T) (Config, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := defaultConfig()
	cfg.Catalog.Manifest = filepath.Join(dir, "resources.yml")
	cfg.Catalog.Index = filepath.Join(dir, "url_index.json")
	if err := manifest.Save(cfg.Catalog.Manifest, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	batch := filepath.Join(dir, "batch.yml")
	content := `resources:
  - name: PyTorch
    url: https://pytorch.org
    description: Deep learning framework
    tags: [machine-learning]
  - name: PyTorch again
    url: https://www.pytorch.org/
    description: Same site under another spelling
    tags: [machine-learning]
`
	if err := os.WriteFile(batch, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg, batch
}

func TestImportDryRun_IntraBatchDuplicate(t *testing.T) {
	cfg, batch := importFixture(t)

	cmd := &ImportCmd{File: batch, DryRun: true}
	if err := cmd.Run(&cfg); err == nil {
		t.Error("dry run accepted two spellings of one URL")
	}
}

func TestImportDryRun_SkipDuplicatesWritesNothing(t *testing.T) {
	cfg, batch := importFixture(t)

	cmd := &ImportCmd{File: batch, DryRun: true, SkipDuplicates: true}
	if err := cmd.Run(&cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("dry run wrote %d resources to the manifest", len(resources))
	}
	if n := catalog.OpenIndex(cfg.Catalog.Index).Len(); n != 0 {
		t.Errorf("dry run wrote %d entries to the index", n)
	}
}

func TestImport_SkipsSecondSpelling(t *testing.T) {
	cfg, batch := importFixture(t)

	cmd := &ImportCmd{File: batch, SkipDuplicates: true}
	if err := cmd.Run(&cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	resources, err := manifest.Load(cfg.Catalog.Manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(resources) != 1 {
		t.Fatalf("manifest holds %d resources, want 1", len(resources))
	}
	if resources[0].Name != "PyTorch" {
		t.Errorf("kept %q, want the first spelling", resources[0].Name)
	}
	if n := catalog.OpenIndex(cfg.Catalog.Index).Len(); n != 1 {
		t.Errorf("index holds %d entries, want 1", n)
	}
}
