// Package launch assembles checklist groups, readiness and sign-off state
// for one parent item into snapshots that surfaces render.
package launch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/steveyegge/launchgate/internal/checklist"
	"github.com/steveyegge/launchgate/internal/resolver"
	"github.com/steveyegge/launchgate/internal/signoff"
	"github.com/steveyegge/launchgate/internal/source"
	"github.com/steveyegge/launchgate/internal/telemetry"
)

const scopeName = "github.com/steveyegge/launchgate/launch"

// Options configures a session.
type Options struct {
	// Templates are the checklist templates. The one named "Engineering"
	// filters resolved engineering items; the first other one gates the
	// product sign-off; the rest are informational groups.
	Templates []checklist.Template

	// Resolver overrides the engineering resolver. Defaults to resolver.New.
	Resolver *resolver.Resolver

	Logger *slog.Logger
	Now    func() time.Time
}

// Session is one viewing session of a parent item. It owns the latest
// fetched data and the sign-off machine; nothing outlives it.
type Session struct {
	ID        string
	ParentKey string

	src       source.IssueSource
	resolver  *resolver.Resolver
	primary   []checklist.Template
	engTmpl   checklist.Template
	logger    *slog.Logger
	now       func() time.Time
	machine   *signoff.Machine
	confirmed metric.Int64Counter

	mu   sync.RWMutex
	snap Snapshot
}

// NewSession creates a session for parentKey in the initial sign-off state.
func NewSession(parentKey string, src source.IssueSource, opts Options) *Session {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("session", id, "parent", parentKey)

	res := opts.Resolver
	if res == nil {
		res = resolver.New(src, logger)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	primary, eng := splitTemplates(opts.Templates)

	s := &Session{
		ID:        id,
		ParentKey: parentKey,
		src:       src,
		resolver:  res,
		primary:   primary,
		engTmpl:   eng,
		logger:    logger,
		now:       now,
		confirmed: telemetry.SignoffCounter(),
		snap:      Snapshot{SessionID: id, ParentKey: parentKey},
	}
	s.machine = signoff.New(s.ready)
	return s
}

func (s *Session) ready(t signoff.Target) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Readiness.Ready(t)
}

// Load fetches the parent's children and engineering items and replaces
// the session's data. Fetch failures are reported in the snapshot, never
// returned: a primary-list failure clears every group, an engineering
// failure is attached to the engineering group only.
func (s *Session) Load(ctx context.Context) Snapshot {
	ctx, span := telemetry.Tracer(scopeName).Start(ctx, "launch.load")
	span.SetAttributes(
		attribute.String("lg.issue.key", s.ParentKey),
		attribute.String("lg.session.id", s.ID),
	)
	defer span.End()

	next := Snapshot{SessionID: s.ID, ParentKey: s.ParentKey, LoadedAt: s.now()}

	page, err := s.src.FetchChildren(ctx, s.ParentKey)
	if err != nil {
		s.logger.Warn("failed to load launch gates", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		next.Error = fmt.Sprintf("Failed to load launch gates: %v", err)
		return s.store(next)
	}
	if page.Truncated() {
		next.Warnings = append(next.Warnings,
			fmt.Sprintf("Showing %d of %d child issues; increase jira.page_size to see the rest", len(page.Items), page.Total))
	}

	matched, other := checklist.Partition(page.Items, s.primary)

	var productStats checklist.Stats
	var primaryGroups []GroupView
	for i, g := range matched {
		gate := signoff.TargetNone
		if i == 0 {
			gate = signoff.TargetProduct
		}
		view := newGroupView(g.Name, gate, g.Matched)
		if i == 0 {
			productStats = view.Stats
		}
		primaryGroups = append(primaryGroups, view)
	}

	res := s.resolver.Resolve(ctx, s.ParentKey)
	engName := s.engTmpl.Name
	if engName == "" {
		engName = EngineeringGroupName
	}
	// Items outside the engineering template are shown apart but still gate it.
	engItems := res.Items
	var engOther *GroupView
	if len(s.engTmpl.Titles) > 0 {
		g := checklist.Match(res.Items, s.engTmpl)
		engItems = g.Matched
		if len(g.Unmatched) > 0 {
			view := newGroupView(unmatchedGroupName(engName), signoff.TargetEngineering, g.Unmatched)
			engOther = &view
		}
	}
	engView := newGroupView(engName, signoff.TargetEngineering, engItems)
	if res.Error != "" {
		engView.Errors = append(engView.Errors, res.Error)
	}
	for _, f := range res.Failures {
		engView.Errors = append(engView.Errors, fmt.Sprintf("Failed to load %s", f.Error()))
	}

	// Product first, then engineering, then any informational groups and Other.
	if len(primaryGroups) > 0 {
		next.Groups = append(next.Groups, primaryGroups[0])
	}
	next.Groups = append(next.Groups, engView)
	if engOther != nil {
		next.Groups = append(next.Groups, *engOther)
	}
	if len(primaryGroups) > 1 {
		next.Groups = append(next.Groups, primaryGroups[1:]...)
	}
	next.Groups = append(next.Groups, newGroupView(OtherGroupName, signoff.TargetNone, other))

	next.Readiness = ComputeReadiness(productStats, checklist.Aggregate(res.Items), res.Error)
	span.SetAttributes(attribute.Bool("lg.ready", next.Readiness.Overall))
	s.logger.Debug("launch gates loaded",
		"children", len(page.Items),
		"engineering", len(res.Items),
		"ready", next.Readiness.Overall)
	return s.store(next)
}

func (s *Session) store(next Snapshot) Snapshot {
	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return s.Snapshot()
}

// Snapshot returns the latest data with the current sign-off state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	snap.Signoff = s.machine.State()
	return snap
}

// Render passes the current snapshot to surface.
func (s *Session) Render(surface Surface) error {
	return surface.Render(s.Snapshot())
}

// RequestSignoff opens the confirmation step for target.
func (s *Session) RequestSignoff(t signoff.Target) {
	s.machine.RequestSignoff(t)
}

// ConfirmSignoff confirms the pending sign-off if its group is ready.
func (s *Session) ConfirmSignoff(ctx context.Context) bool {
	t, ok := s.machine.ConfirmSignoff()
	result := "rejected"
	if ok {
		result = "signed_off"
	}
	s.confirmed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target", t.String()),
		attribute.String("result", result),
	))
	s.logger.Info("sign-off confirmation", "target", t.String(), "result", result)
	return ok
}

// Cancel closes the confirmation step.
func (s *Session) Cancel() {
	s.machine.Cancel()
}
