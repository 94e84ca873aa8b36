// Package resolver walks a parent item's issue links to collect the
// engineering checklist items that gate the engineering sign-off.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/launchgate/internal/source"
	"github.com/steveyegge/launchgate/internal/telemetry"
	"github.com/steveyegge/launchgate/internal/types"
)

// MissingChecklistMessage is reported when engineering tickets are linked
// but none of them carries any checklist items.
const MissingChecklistMessage = "No engineering launch checklist found. Add a \"Launch Checklist Items\" sub-task to the linked engineering ticket."

// Defaults used when the corresponding Resolver field is unset.
const (
	DefaultContainerSuffix = "launch checklist items"
	DefaultConcurrency     = 4
)

// DefaultLinkTypes are the link-type name fragments that mark an engineering ticket.
var DefaultLinkTypes = []string{"implement", "block"}

// KeyError records a failure resolving one engineering key.
type KeyError struct {
	Key string
	Err error
}

func (e KeyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e KeyError) Unwrap() error { return e.Err }

// Result is the outcome of one resolution.
type Result struct {
	Items    []types.Item // concatenated in key discovery order
	Error    string       // empty, MissingChecklistMessage, or a link-load failure
	Keys     []string     // candidate engineering keys, duplicates kept
	Failures []KeyError   // per-key fetch failures; other keys still contribute
}

// Resolver collects engineering checklist items for a parent.
type Resolver struct {
	Source          source.IssueSource
	LinkTypes       []string
	ContainerSuffix string
	Concurrency     int
	Logger          *slog.Logger
}

// New creates a resolver with default settings.
func New(src source.IssueSource, logger *slog.Logger) *Resolver {
	return &Resolver{
		Source:          src,
		LinkTypes:       DefaultLinkTypes,
		ContainerSuffix: DefaultContainerSuffix,
		Concurrency:     DefaultConcurrency,
		Logger:          logger,
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

// Resolve fetches the parent's links, picks the engineering keys and gathers
// each key's checklist items.
func (r *Resolver) Resolve(ctx context.Context, parentKey string) Result {
	ctx, span := telemetry.Tracer("github.com/steveyegge/launchgate/resolver").Start(ctx, "resolver.resolve")
	span.SetAttributes(attribute.String("lg.issue.key", parentKey))
	defer span.End()

	log := r.logger().With("parent", parentKey)

	links, err := r.Source.FetchLinks(ctx, parentKey)
	if err != nil {
		log.Warn("failed to load engineering links", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{Error: fmt.Sprintf("Failed to load engineering links: %v", err)}
	}

	keys := r.EngineeringKeys(links)
	span.SetAttributes(attribute.Int("lg.engineering.keys", len(keys)))
	if len(keys) == 0 {
		return Result{}
	}

	perKey := make([][]types.Item, len(keys))
	errs := make([]error, len(keys))

	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, key := range keys {
		g.Go(func() error {
			items, err := r.resolveKey(gctx, key)
			if err != nil {
				// Non-fatal; the remaining keys still contribute.
				errs[i] = err
				return nil
			}
			perKey[i] = items
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Keys: keys}
	for i, key := range keys {
		if errs[i] != nil {
			log.Warn("failed to resolve engineering key", "key", key, "err", errs[i])
			res.Failures = append(res.Failures, KeyError{Key: key, Err: errs[i]})
			continue
		}
		res.Items = append(res.Items, perKey[i]...)
	}

	if len(res.Items) == 0 {
		res.Error = MissingChecklistMessage
	}
	log.Debug("engineering items resolved",
		"keys", len(keys),
		"items", len(res.Items),
		"failures", len(res.Failures))
	return res
}

// EngineeringKeys returns the outward and inward keys of every link whose
// type name contains one of the configured fragments, in link order.
func (r *Resolver) EngineeringKeys(links []types.Link) []string {
	fragments := r.LinkTypes
	if len(fragments) == 0 {
		fragments = DefaultLinkTypes
	}
	var keys []string
	for _, l := range links {
		if !typeMatches(l.Type, fragments) {
			continue
		}
		keys = append(keys, l.Keys()...)
	}
	return keys
}

func typeMatches(name string, fragments []string) bool {
	lower := strings.ToLower(name)
	for _, f := range fragments {
		if f != "" && strings.Contains(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}

// resolveKey fetches the key's children and, if exactly one of them is a
// checklist container, the container's children instead.
func (r *Resolver) resolveKey(ctx context.Context, key string) ([]types.Item, error) {
	ctx, span := telemetry.Tracer("github.com/steveyegge/launchgate/resolver").Start(ctx, "resolver.key")
	span.SetAttributes(attribute.String("lg.issue.key", key))
	defer span.End()

	page, err := r.Source.FetchChildren(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	items := page.Items
	if container, ok := r.container(page.Items); ok {
		inner, err := r.Source.FetchChildren(ctx, container.Key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		items = inner.Items
	}

	tagged := make([]types.Item, len(items))
	for i, item := range items {
		item.ParentKey = key
		tagged[i] = item
	}
	return tagged, nil
}

func (r *Resolver) container(children []types.Item) (types.Item, bool) {
	suffix := strings.ToLower(r.ContainerSuffix)
	if suffix == "" {
		suffix = DefaultContainerSuffix
	}
	var found []types.Item
	for _, c := range children {
		if strings.HasSuffix(strings.ToLower(c.TrimmedSummary()), suffix) {
			found = append(found, c)
		}
	}
	if len(found) != 1 {
		return types.Item{}, false
	}
	return found[0], true
}
