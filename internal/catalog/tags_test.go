package catalog

import (
	"testing"

	"github.com/lthms/linkdex/internal/manifest"
)

func TestAnalyzeTags(t *testing.T) {
	records := []manifest.Resource{
		{Name: "PyTorch", URL: "https://pytorch.org", Tags: []string{"tools/ml"}},
		{Name: "TensorFlow", URL: "https://tensorflow.org", Tags: []string{"tools/ml"}},
		{Name: "React", URL: "https://react.dev", Tags: []string{"development/web"}},
		{Name: "Jupyter", URL: "https://jupyter.org", Tags: []string{"tools/notebooks", "development/web"}},
		{Name: "Orphan", URL: "https://orphan.example.com"},
	}

	a := AnalyzeTags(records)

	if a.TotalResources != 5 {
		t.Errorf("TotalResources = %d, want 5", a.TotalResources)
	}
	if a.UniqueTags != 3 {
		t.Errorf("UniqueTags = %d, want 3", a.UniqueTags)
	}
	if len(a.Untagged) != 1 || a.Untagged[0] != "Orphan" {
		t.Errorf("Untagged = %v, want [Orphan]", a.Untagged)
	}

	wantTags := []TagCount{
		{Tag: "development/web", Count: 2},
		{Tag: "tools/ml", Count: 2},
		{Tag: "tools/notebooks", Count: 1},
	}
	if len(a.TagUsage) != len(wantTags) {
		t.Fatalf("TagUsage = %v, want %v", a.TagUsage, wantTags)
	}
	for i, want := range wantTags {
		if a.TagUsage[i] != want {
			t.Errorf("TagUsage[%d] = %v, want %v", i, a.TagUsage[i], want)
		}
	}

	wantCats := []TagCount{
		{Tag: "tools", Count: 3},
		{Tag: "development", Count: 2},
	}
	if len(a.CategoryUsage) != len(wantCats) {
		t.Fatalf("CategoryUsage = %v, want %v", a.CategoryUsage, wantCats)
	}
	for i, want := range wantCats {
		if a.CategoryUsage[i] != want {
			t.Errorf("CategoryUsage[%d] = %v, want %v", i, a.CategoryUsage[i], want)
		}
	}
}

func TestAnalyzeTags_Empty(t *testing.T) {
	a := AnalyzeTags(nil)
	if a.TotalResources != 0 || a.UniqueTags != 0 {
		t.Errorf("unexpected analysis of empty input: %+v", a)
	}
	if len(a.TagUsage) != 0 || len(a.CategoryUsage) != 0 {
		t.Errorf("non-empty usage lists for empty input: %+v", a)
	}
}

func TestAnalyzeTags_TopLevelTag(t *testing.T) {
	records := []manifest.Resource{
		{Name: "News", URL: "https://news.example.com", Tags: []string{"news"}},
	}
	a := AnalyzeTags(records)
	if len(a.CategoryUsage) != 1 || a.CategoryUsage[0].Tag != "news" {
		t.Errorf("top-level tag not counted as its own category: %+v", a.CategoryUsage)
	}
}
