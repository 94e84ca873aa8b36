// Package source defines the Issue Source contract and an in-memory
// implementation backed by fixture files.
package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/steveyegge/launchgate/internal/types"
)

// IssueSource returns raw item records for a parent item.
// Calls may fail with transport or API errors; callers decide how to surface them.
type IssueSource interface {
	// FetchChildren returns the direct children of parentKey.
	FetchChildren(ctx context.Context, parentKey string) (types.ChildPage, error)

	// FetchLinks returns the issue links attached to key.
	FetchLinks(ctx context.Context, key string) ([]types.Link, error)
}

// Memory is an IssueSource holding children and links in maps.
// Failures can be injected per key to exercise partial-failure paths.
type Memory struct {
	mu           sync.RWMutex
	children     map[string][]types.Item
	links        map[string][]types.Link
	childErrors  map[string]error
	linkErrors   map[string]error
	childFetches map[string]int
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{
		children:     make(map[string][]types.Item),
		links:        make(map[string][]types.Link),
		childErrors:  make(map[string]error),
		linkErrors:   make(map[string]error),
		childFetches: make(map[string]int),
	}
}

// SetChildren replaces the children of parentKey.
func (m *Memory) SetChildren(parentKey string, items ...types.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[parentKey] = items
}

// AddLink attaches a link record to key.
func (m *Memory) AddLink(key string, link types.Link) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[key] = append(m.links[key], link)
}

// FailChildren makes FetchChildren(key) return err.
func (m *Memory) FailChildren(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.childErrors[key] = err
}

// FailLinks makes FetchLinks(key) return err.
func (m *Memory) FailLinks(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.linkErrors[key] = err
}

// ChildFetches returns how many times FetchChildren was called for key.
func (m *Memory) ChildFetches(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.childFetches[key]
}

// FetchChildren implements IssueSource.
func (m *Memory) FetchChildren(ctx context.Context, parentKey string) (types.ChildPage, error) {
	if err := ctx.Err(); err != nil {
		return types.ChildPage{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.childFetches[parentKey]++
	if err := m.childErrors[parentKey]; err != nil {
		return types.ChildPage{}, fmt.Errorf("fetch children of %s: %w", parentKey, err)
	}
	items := append([]types.Item(nil), m.children[parentKey]...)
	return types.ChildPage{Items: items, Total: len(items)}, nil
}

// FetchLinks implements IssueSource.
func (m *Memory) FetchLinks(ctx context.Context, key string) ([]types.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.linkErrors[key]; err != nil {
		return nil, fmt.Errorf("fetch links of %s: %w", key, err)
	}
	return append([]types.Link(nil), m.links[key]...), nil
}
