package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/lthms/linkdex/internal/manifest"
)

// ErrStorageUnavailable wraps failures to read or write the persisted index
// file. Mutations still apply in memory when it is returned; only
// durability is lost.
var ErrStorageUnavailable = errors.New("catalog: index storage unavailable")

// Entry is the metadata stored under one canonical key.
type Entry struct {
	Name        string   `json:"name"`
	OriginalURL string   `json:"original_url"`
	Tags        []string `json:"tags"`
	AddedDate   *string  `json:"added_date"`
}

// Index maps canonical URL keys to entries, mirrored to a flat JSON object
// on disk after every mutation. The index owns its storage path; callers
// construct one per file instead of sharing ambient state.
//
// Mutations are serialized; read-only operations may run concurrently with
// each other but not with a mutation.
type Index struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
}

// OpenIndex loads the index at path. A missing file yields an empty index.
// An unreadable or corrupt file is reported as a warning and the index
// starts empty; the file is rewritten on the next mutation.
func OpenIndex(path string) *Index {
	ix := &Index{path: path, entries: make(map[string]Entry)}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("index: could not load, starting empty", "path", path, "error", err)
		}
		return ix
	}
	if err := json.Unmarshal(content, &ix.entries); err != nil {
		slog.Warn("index: could not parse, starting empty", "path", path, "error", err)
		ix.entries = make(map[string]Entry)
	}
	return ix
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Add inserts a URL under its canonical key. It returns false when the key
// already exists: the first writer wins and the index is left unchanged. A
// persist failure leaves the in-memory insert in place and is returned
// wrapped in ErrStorageUnavailable.
func (ix *Index) Add(rawURL, name string, tags []string) (bool, error) {
	key, err := Normalize(rawURL)
	if err != nil {
		return false, err
	}
	if tags == nil {
		tags = []string{}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.entries[key]; ok {
		return false, nil
	}
	ix.entries[key] = Entry{Name: name, OriginalURL: rawURL, Tags: tags}
	return true, ix.persist()
}

// Lookup returns the entry stored under the canonical key of rawURL.
func (ix *Index) Lookup(rawURL string) (Entry, bool) {
	key, err := Normalize(rawURL)
	if err != nil {
		return Entry{}, false
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[key]
	return e, ok
}

// Remove deletes the entry for rawURL's canonical key and reports whether a
// deletion occurred.
func (ix *Index) Remove(rawURL string) (bool, error) {
	key, err := Normalize(rawURL)
	if err != nil {
		return false, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.entries[key]; !ok {
		return false, nil
	}
	delete(ix.entries, key)
	return true, ix.persist()
}

// Rebuild clears the index and re-indexes every record. The manifest is
// ground truth here: when two records share a canonical key the last one
// wins, unlike Add. Records with a blank URL are skipped. Returns the number
// of records indexed (a later record overwriting an earlier key still
// counts).
func (ix *Index) Rebuild(records []manifest.Resource) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.entries = make(map[string]Entry, len(records))
	count := 0
	for _, r := range records {
		key, err := Normalize(r.URL)
		if err != nil {
			continue
		}
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		ix.entries[key] = Entry{Name: r.DisplayName(), OriginalURL: r.URL, Tags: tags}
		count++
	}
	return count, ix.persist()
}

// Match is one fuzzy-similarity hit against the index.
type Match struct {
	Key   string  `json:"key"`
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// Similar ranks existing keys by string similarity to the canonical form of
// rawURL, keeping scores >= threshold, descending by score (ties broken by
// key so output is reproducible). It is a secondary signal for callers to
// surface as a warning, never a hard duplicate rejection. A blank or
// unparseable URL still runs against the degraded canonical form.
func (ix *Index) Similar(rawURL string, threshold float64) []Match {
	key, err := Normalize(rawURL)
	if err != nil {
		key = degraded(rawURL)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var matches []Match
	for k, e := range ix.entries {
		score := similarity(key, k)
		if score >= threshold {
			matches = append(matches, Match{Key: k, Entry: e, Score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Key < matches[j].Key
	})
	return matches
}

// similarity is a normalized edit-distance ratio in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// Stats aggregates counts over the index.
type Stats struct {
	TotalURLs    int           `json:"total_urls"`
	TotalDomains int           `json:"total_domains"`
	TotalTags    int           `json:"total_tags"`
	TopDomains   []DomainCount `json:"top_domains"`
}

// DomainCount pairs a host with the number of entries pointing at it.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Stats computes aggregate counts over the index. Domains come from each
// entry's original URL; unparseable URLs are excluded silently. TopDomains
// holds the ten most frequent hosts, most frequent first.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	domains := make(map[string]int)
	tags := make(map[string]struct{})
	for _, e := range ix.entries {
		if host := hostOf(e.OriginalURL); host != "" {
			domains[host]++
		}
		for _, t := range e.Tags {
			tags[t] = struct{}{}
		}
	}

	counts := make([]DomainCount, 0, len(domains))
	for d, c := range domains {
		counts = append(counts, DomainCount{Domain: d, Count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Domain < counts[j].Domain
	})
	if len(counts) > 10 {
		counts = counts[:10]
	}

	return Stats{
		TotalURLs:    len(ix.entries),
		TotalDomains: len(domains),
		TotalTags:    len(tags),
		TopDomains:   counts,
	}
}

// Tags returns the sorted distinct tags across all entries.
func (ix *Index) Tags() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	set := make(map[string]struct{})
	for _, e := range ix.entries {
		for _, t := range e.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// hostOf extracts the lower-cased host of a raw URL, prepending a scheme
// for host-only inputs. Returns "" when no host can be parsed.
func hostOf(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !hasScheme(s) {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// persist mirrors the in-memory map to disk. Callers hold the write lock.
func (ix *Index) persist() error {
	out, err := json.MarshalIndent(ix.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorageUnavailable, err)
	}
	if err := os.WriteFile(ix.path, out, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
