package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/launchgate/internal/types"
)

// Fixture is the on-disk description of an issue hierarchy.
//
//	issues:
//	  - key: ENG-1
//	    parent: LAUNCH-1
//	    summary: ENG-1 Launch Checklist Items
//	    status: In Progress
//	    status_category: In Progress
//	links:
//	  LAUNCH-1:
//	    - type: Implements
//	      outward: ENG-1
//	fail_children: [ENG-9]
type Fixture struct {
	Issues       []FixtureIssue           `yaml:"issues" toml:"issues"`
	Links        map[string][]FixtureLink `yaml:"links" toml:"links"`
	FailChildren []string                 `yaml:"fail_children" toml:"fail_children"`
	FailLinks    []string                 `yaml:"fail_links" toml:"fail_links"`
}

// FixtureIssue is one issue in a fixture file.
type FixtureIssue struct {
	Key            string `yaml:"key" toml:"key"`
	Parent         string `yaml:"parent" toml:"parent"`
	Summary        string `yaml:"summary" toml:"summary"`
	Status         string `yaml:"status" toml:"status"`
	StatusCategory string `yaml:"status_category" toml:"status_category"`
	Assignee       string `yaml:"assignee" toml:"assignee"`
	Priority       string `yaml:"priority" toml:"priority"`
	Updated        string `yaml:"updated" toml:"updated"`
}

// FixtureLink is one link record in a fixture file.
type FixtureLink struct {
	Type    string `yaml:"type" toml:"type"`
	Outward string `yaml:"outward" toml:"outward"`
	Inward  string `yaml:"inward" toml:"inward"`
}

// ErrInjected is returned by keys listed under fail_children or fail_links.
var ErrInjected = errors.New("injected fixture failure")

// LoadFixture reads a YAML (.yaml, .yml) or TOML (.toml) fixture file into a Memory source.
func LoadFixture(path string) (*Memory, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user on the command line
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fx Fixture
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fx); err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &fx)
		if err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse fixture %s: unknown keys %v", path, undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported fixture format %q (want .yaml, .yml or .toml)", ext)
	}

	return fx.Memory()
}

// Memory builds an in-memory source from the fixture.
func (fx Fixture) Memory() (*Memory, error) {
	m := NewMemory()
	seen := make(map[string]bool, len(fx.Issues))
	byParent := make(map[string][]types.Item)
	var parents []string

	for _, fi := range fx.Issues {
		if fi.Key == "" {
			return nil, fmt.Errorf("fixture issue without key (summary %q)", fi.Summary)
		}
		if seen[fi.Key] {
			return nil, fmt.Errorf("duplicate fixture issue key %s", fi.Key)
		}
		if strings.TrimSpace(fi.Summary) == "" {
			return nil, fmt.Errorf("fixture issue %s has an empty summary", fi.Key)
		}
		seen[fi.Key] = true

		item := types.Item{
			Key:            fi.Key,
			Summary:        fi.Summary,
			Status:         fi.Status,
			StatusCategory: fi.StatusCategory,
			Assignee:       fi.Assignee,
			Priority:       fi.Priority,
		}
		if item.Status == "" {
			item.Status = "Unknown"
		}
		if fi.Updated != "" {
			updated, err := time.Parse(time.RFC3339, fi.Updated)
			if err != nil {
				return nil, fmt.Errorf("fixture issue %s: bad updated time: %w", fi.Key, err)
			}
			item.Updated = updated
		}
		if fi.Parent != "" {
			if _, ok := byParent[fi.Parent]; !ok {
				parents = append(parents, fi.Parent)
			}
			byParent[fi.Parent] = append(byParent[fi.Parent], item)
		}
	}

	for _, parent := range parents {
		m.SetChildren(parent, byParent[parent]...)
	}
	for key, links := range fx.Links {
		for _, l := range links {
			m.AddLink(key, types.Link{Type: l.Type, OutwardKey: l.Outward, InwardKey: l.Inward})
		}
	}
	for _, key := range fx.FailChildren {
		m.FailChildren(key, ErrInjected)
	}
	for _, key := range fx.FailLinks {
		m.FailLinks(key, ErrInjected)
	}
	return m, nil
}
