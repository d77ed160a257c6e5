package catalog

import (
	"sort"
	"strings"

	"github.com/lthms/linkdex/internal/manifest"
)

// TagCount pairs a tag (or top-level category) with its usage count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagAnalysis summarizes tag usage across the manifest.
type TagAnalysis struct {
	TotalResources int        `json:"total_resources"`
	UniqueTags     int        `json:"total_unique_tags"`
	Untagged       []string   `json:"untagged_resources"`
	TagUsage       []TagCount `json:"tag_usage"`
	CategoryUsage  []TagCount `json:"category_usage"`
}

// AnalyzeTags counts tag and top-level-category usage across records.
// Usage lists are sorted most-used first, ties broken alphabetically.
func AnalyzeTags(records []manifest.Resource) TagAnalysis {
	tagUsage := make(map[string]int)
	catUsage := make(map[string]int)
	var untagged []string

	for _, r := range records {
		if len(r.Tags) == 0 {
			untagged = append(untagged, r.DisplayName())
			continue
		}
		for _, tag := range r.Tags {
			tagUsage[tag]++
			cat := tag
			if i := strings.Index(tag, "/"); i >= 0 {
				cat = tag[:i]
			}
			catUsage[cat]++
		}
	}

	return TagAnalysis{
		TotalResources: len(records),
		UniqueTags:     len(tagUsage),
		Untagged:       untagged,
		TagUsage:       sortCounts(tagUsage),
		CategoryUsage:  sortCounts(catUsage),
	}
}

func sortCounts(m map[string]int) []TagCount {
	out := make([]TagCount, 0, len(m))
	for tag, count := range m {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
