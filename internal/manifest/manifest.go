// Package manifest reads and writes the YAML manifest (resources.yml) that
// backs the link catalog. The manifest is the human-edited source of truth;
// the URL index is derived from it.
package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resource is one cataloged link. Legacy entries use "title" instead of
// "name"; DisplayName resolves the two.
type Resource struct {
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	URL         string   `yaml:"url" json:"url"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// DisplayName returns the resource's label, preferring name over title.
func (r Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Title != "" {
		return r.Title
	}
	return "Unknown"
}

// document is the top-level manifest structure.
type document struct {
	Resources []Resource `yaml:"resources"`
}

// Load reads the manifest at path and returns its resources.
func Load(path string) ([]Resource, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Resources, nil
}

// Save writes the resources back to path under the "resources" key.
func Save(path string, resources []Resource) error {
	out, err := yaml.Marshal(document{Resources: resources})
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// LoadBatch reads a batch import file, accepting either a "resources:" keyed
// document or a bare list of resources.
func LoadBatch(path string) ([]Resource, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(content, &doc); err == nil && doc.Resources != nil {
		return doc.Resources, nil
	}

	var list []Resource
	if err := yaml.Unmarshal(content, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// tagPattern is the canonical tag format: lowercase slash-delimited segments
// of letters, digits and hyphens.
var tagPattern = regexp.MustCompile(`^[a-z0-9\-]+(/[a-z0-9\-]+)*$`)

// ValidateTags checks tag formats across resources and returns one
// human-readable issue per violation.
func ValidateTags(resources []Resource) []string {
	var issues []string
	for _, r := range resources {
		name := r.DisplayName()
		for _, tag := range r.Tags {
			if strings.HasPrefix(tag, "/") {
				issues = append(issues, fmt.Sprintf("tag starts with slash in %q: %s", name, tag))
			}
			if strings.HasSuffix(tag, "/") {
				issues = append(issues, fmt.Sprintf("tag ends with slash in %q: %s", name, tag))
			}
			if strings.Contains(tag, "//") {
				issues = append(issues, fmt.Sprintf("double slash in tag in %q: %s", name, tag))
			}
			if !tagPattern.MatchString(tag) {
				issues = append(issues, fmt.Sprintf("invalid tag format in %q: %s", name, tag))
			}
		}
	}
	return issues
}

// ValidateResource checks a batch-imported entry for the required fields.
func ValidateResource(r Resource) error {
	if r.Name == "" && r.Title == "" {
		return fmt.Errorf("missing name")
	}
	url := strings.TrimSpace(r.URL)
	if url == "" {
		return fmt.Errorf("missing url")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("invalid url format: %s", url)
	}
	if r.Description == "" {
		return fmt.Errorf("missing description")
	}
	if len(r.Tags) == 0 {
		return fmt.Errorf("missing tags")
	}
	for _, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("empty tag")
		}
		if !tagPattern.MatchString(tag) {
			return fmt.Errorf("invalid tag format: %s", tag)
		}
	}
	return nil
}
