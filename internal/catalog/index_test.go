package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lthms/linkdex/internal/manifest"
)

func tempIndex(t *testing.T) *Index {
	t.Helper()
	return OpenIndex(filepath.Join(t.TempDir(), "url_index.json"))
}

func TestIndexAdd_FirstWriterWins(t *testing.T) {
	ix := tempIndex(t)

	added, err := ix.Add("https://pytorch.org", "PyTorch", []string{"tools/ml"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !added {
		t.Fatal("first Add returned false")
	}

	added, err = ix.Add("http://www.pytorch.org/", "Duplicate", []string{"other"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added {
		t.Fatal("second Add of an equivalent URL returned true")
	}

	entry, ok := ix.Lookup("pytorch.org")
	if !ok {
		t.Fatal("Lookup failed after Add")
	}
	if entry.Name != "PyTorch" {
		t.Errorf("entry overwritten by duplicate: got %q", entry.Name)
	}
	if ix.Len() != 1 {
		t.Errorf("Len = %d, want 1", ix.Len())
	}
}

func TestIndexAdd_EmptyURL(t *testing.T) {
	ix := tempIndex(t)
	if _, err := ix.Add("   ", "x", nil); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
}

func TestIndexAdd_NilTags(t *testing.T) {
	ix := tempIndex(t)
	if _, err := ix.Add("example.com", "x", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	entry, _ := ix.Lookup("example.com")
	if entry.Tags == nil {
		t.Error("nil tags not replaced with an empty slice")
	}
}

func TestIndexLookup_Variants(t *testing.T) {
	ix := tempIndex(t)
	if _, err := ix.Add("https://www.pytorch.org/", "PyTorch", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	for _, raw := range []string{
		"pytorch.org",
		"www.pytorch.org",
		"http://pytorch.org",
		"HTTPS://PYTORCH.ORG/",
	} {
		if _, ok := ix.Lookup(raw); !ok {
			t.Errorf("Lookup(%q) missed", raw)
		}
	}
	if _, ok := ix.Lookup("tensorflow.org"); ok {
		t.Error("Lookup matched an absent URL")
	}
}

func TestIndexRemove(t *testing.T) {
	ix := tempIndex(t)
	if _, err := ix.Add("pytorch.org", "PyTorch", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	removed, err := ix.Remove("https://www.pytorch.org/")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("Remove of a present URL returned false")
	}
	if ix.Len() != 0 {
		t.Errorf("Len = %d after Remove, want 0", ix.Len())
	}

	removed, err = ix.Remove("pytorch.org")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Error("Remove of an absent URL returned true")
	}
}

func TestIndexPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url_index.json")

	ix := OpenIndex(path)
	if _, err := ix.Add("pytorch.org", "PyTorch", []string{"tools/ml"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened := OpenIndex(path)
	if reopened.Len() != 1 {
		t.Fatalf("reopened Len = %d, want 1", reopened.Len())
	}
	entry, ok := reopened.Lookup("pytorch.org")
	if !ok {
		t.Fatal("Lookup failed after reopen")
	}
	if entry.Name != "PyTorch" || len(entry.Tags) != 1 || entry.Tags[0] != "tools/ml" {
		t.Errorf("entry lost fields across reopen: %+v", entry)
	}
}

func TestOpenIndex_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url_index.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	ix := OpenIndex(path)
	if ix.Len() != 0 {
		t.Errorf("corrupt file produced %d entries, want empty index", ix.Len())
	}
	if _, err := ix.Add("example.com", "x", nil); err != nil {
		t.Errorf("Add after corrupt load: %v", err)
	}
}

func TestIndexAdd_StorageUnavailable(t *testing.T) {
	// Point the index file at a directory so persisting fails.
	dir := t.TempDir()
	ix := OpenIndex(dir)

	added, err := ix.Add("example.com", "x", nil)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !added {
		t.Error("in-memory insert not applied despite storage failure")
	}
	if _, ok := ix.Lookup("example.com"); !ok {
		t.Error("entry missing from memory after storage failure")
	}
}

func TestIndexRebuild(t *testing.T) {
	ix := tempIndex(t)
	if _, err := ix.Add("stale.example.com", "Stale", nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	resources := []manifest.Resource{
		{Name: "First", URL: "https://pytorch.org", Tags: []string{"tools/ml"}},
		{Name: "Second", URL: "http://www.pytorch.org/", Tags: []string{"other"}},
		{Name: "React", URL: "github.com/facebook/react", Tags: []string{"development/web"}},
	}

	count, err := ix.Rebuild(resources)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if count != 3 {
		t.Errorf("Rebuild count = %d, want 3", count)
	}
	if ix.Len() != 2 {
		t.Errorf("Len = %d after Rebuild, want 2", ix.Len())
	}
	if _, ok := ix.Lookup("stale.example.com"); ok {
		t.Error("stale entry survived Rebuild")
	}

	// Later records for the same canonical key win.
	entry, ok := ix.Lookup("pytorch.org")
	if !ok {
		t.Fatal("Lookup failed after Rebuild")
	}
	if entry.Name != "Second" {
		t.Errorf("entry = %q, want last record to win", entry.Name)
	}
}

func TestIndexSimilar(t *testing.T) {
	ix := tempIndex(t)
	for _, raw := range []string{
		"https://pytorch.org/docs",
		"https://pytorch.org/blog",
		"https://completely-unrelated.example.net/x/y/z",
	} {
		if _, err := ix.Add(raw, raw, nil); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	matches := ix.Similar("pytorch.org/doc", 0.8)
	if len(matches) == 0 {
		t.Fatal("no matches above 0.8 for a near-identical URL")
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Error("matches not sorted by descending score")
		}
	}
	for _, m := range matches {
		if m.Score < 0.8 {
			t.Errorf("match %q below threshold: %f", m.Key, m.Score)
		}
	}

	// A lower threshold can only widen the result set.
	loose := ix.Similar("pytorch.org/doc", 0.3)
	if len(loose) < len(matches) {
		t.Errorf("threshold 0.3 returned %d matches, fewer than %d at 0.8", len(loose), len(matches))
	}

	if got := ix.Similar("pytorch.org/doc", 1.01); len(got) != 0 {
		t.Errorf("impossible threshold matched %d entries", len(got))
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("abc", "abc"); got != 1 {
		t.Errorf("similarity of equal strings = %f, want 1", got)
	}
	if got := similarity("", ""); got != 1 {
		t.Errorf("similarity of empty strings = %f, want 1", got)
	}
	if got := similarity("abcd", "abce"); got != 0.75 {
		t.Errorf("similarity(abcd, abce) = %f, want 0.75", got)
	}
	if got := similarity("abc", "xyz"); got != 0 {
		t.Errorf("similarity of disjoint strings = %f, want 0", got)
	}
}

func TestIndexStats(t *testing.T) {
	ix := tempIndex(t)
	adds := []struct {
		url  string
		tags []string
	}{
		{"https://pytorch.org/docs", []string{"tools/ml"}},
		{"https://pytorch.org/blog", []string{"tools/ml", "news"}},
		{"https://github.com/facebook/react", []string{"development/web"}},
	}
	for _, a := range adds {
		if _, err := ix.Add(a.url, a.url, a.tags); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	stats := ix.Stats()
	if stats.TotalURLs != 3 {
		t.Errorf("TotalURLs = %d, want 3", stats.TotalURLs)
	}
	if stats.TotalDomains != 2 {
		t.Errorf("TotalDomains = %d, want 2", stats.TotalDomains)
	}
	if stats.TotalTags != 3 {
		t.Errorf("TotalTags = %d, want 3", stats.TotalTags)
	}
	if len(stats.TopDomains) == 0 || stats.TopDomains[0].Domain != "pytorch.org" || stats.TopDomains[0].Count != 2 {
		t.Errorf("TopDomains = %+v, want pytorch.org first with count 2", stats.TopDomains)
	}
}

func TestIndexTags_Sorted(t *testing.T) {
	ix := tempIndex(t)
	if _, err := ix.Add("a.example.com", "a", []string{"zeta", "alpha"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := ix.Add("b.example.com", "b", []string{"alpha", "mid"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tags := ix.Tags()
	want := []string{"alpha", "mid", "zeta"}
	if len(tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("Tags = %v, want %v", tags, want)
		}
	}
}

func TestIndexFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url_index.json")
	ix := OpenIndex(path)
	if _, err := ix.Add("pytorch.org", "PyTorch", []string{"tools/ml"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("index file is not a JSON object of entries: %v", err)
	}
	entry, ok := entries["https://pytorch.org/"]
	if !ok {
		t.Fatalf("canonical key missing from file: %v", entries)
	}
	if _, ok := entries["pytorch.org"]; ok {
		t.Error("file keyed by raw URL instead of canonical form")
	}
	if entry.OriginalURL != "pytorch.org" {
		t.Errorf("original_url = %q", entry.OriginalURL)
	}
}
