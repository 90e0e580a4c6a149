// Package festivals ships the curated festival catalog members submit to.
package festivals

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var catalogYAML []byte

// Festival is one catalog entry. Deadlines are calendar dates in the
// festival's local time; fees are USD.
type Festival struct {
	Slug            string `yaml:"slug" json:"slug"`
	Name            string `yaml:"name" json:"name"`
	Location        string `yaml:"location" json:"location"`
	VeteranFocused  bool   `yaml:"veteran_focused" json:"veteran_focused"`
	SubmissionFee   int    `yaml:"submission_fee" json:"submission_fee"`
	Deadline        string `yaml:"deadline" json:"deadline"`
	AcceptsScripts  bool   `yaml:"accepts_scripts" json:"accepts_scripts"`
	AcceptsProjects bool   `yaml:"accepts_projects" json:"accepts_projects"`
	Website         string `yaml:"website" json:"website"`
}

// DeadlinePassed reports whether the festival's deadline is before now.
// Unparseable deadlines count as open so a catalog typo never blocks entries.
func (f Festival) DeadlinePassed(now time.Time) bool {
	d, err := time.Parse("2006-01-02", f.Deadline)
	if err != nil {
		return false
	}
	return d.Before(now.Truncate(24 * time.Hour))
}

type catalogFile struct {
	Festivals []Festival `yaml:"festivals"`
}

// Catalog is the loaded, slug-indexed festival list.
type Catalog struct {
	bySlug  map[string]Festival
	ordered []Festival
}

// Load parses the embedded catalog. Called once at startup; a malformed
// catalog is a build artifact problem and fails loudly.
func Load() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("parse festival catalog: %w", err)
	}
	if len(file.Festivals) == 0 {
		return nil, fmt.Errorf("festival catalog is empty")
	}

	bySlug := make(map[string]Festival, len(file.Festivals))
	for _, f := range file.Festivals {
		if f.Slug == "" || f.Name == "" {
			return nil, fmt.Errorf("festival catalog entry missing slug or name: %+v", f)
		}
		if _, dup := bySlug[f.Slug]; dup {
			return nil, fmt.Errorf("duplicate festival slug %q", f.Slug)
		}
		bySlug[f.Slug] = f
	}

	ordered := make([]Festival, len(file.Festivals))
	copy(ordered, file.Festivals)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	return &Catalog{bySlug: bySlug, ordered: ordered}, nil
}

// Get returns the festival for a slug.
func (c *Catalog) Get(slug string) (Festival, bool) {
	f, ok := c.bySlug[slug]
	return f, ok
}

// All returns every festival sorted by name.
func (c *Catalog) All() []Festival {
	out := make([]Festival, len(c.ordered))
	copy(out, c.ordered)
	return out
}
