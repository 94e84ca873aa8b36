// Package signoff implements the two-flag sign-off state machine.
//
// Each target moves NotSignedOff -> SignedOff exactly once and never back.
// A transient pending target models the confirmation step:
//
//	Idle --RequestSignoff(t)--> Pending(t) --ConfirmSignoff [ready]--> Idle
//	                                       --ConfirmSignoff [not ready]--> Pending(t)
//	                                       --Cancel--> Idle
package signoff

import (
	"fmt"
	"strings"
	"sync"
)

// Target identifies which sign-off a request is for.
type Target int

const (
	TargetNone Target = iota
	TargetEngineering
	TargetProduct
)

func (t Target) String() string {
	switch t {
	case TargetEngineering:
		return "engineering"
	case TargetProduct:
		return "product"
	default:
		return "none"
	}
}

// Title returns the display label for the target.
func (t Target) Title() string {
	switch t {
	case TargetEngineering:
		return "Engineering"
	case TargetProduct:
		return "Product"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTarget parses "engineering"/"eng" or "product"/"prod".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "engineering", "eng", "e":
		return TargetEngineering, nil
	case "product", "prod", "p":
		return TargetProduct, nil
	default:
		return TargetNone, fmt.Errorf("invalid sign-off target %q (expected engineering or product)", s)
	}
}

// State is a snapshot of the machine.
type State struct {
	EngineeringSignedOff bool   `json:"engineering_signed_off"`
	ProductSignedOff     bool   `json:"product_signed_off"`
	Pending              Target `json:"pending"`
}

// SignedOff reports whether target has been signed off.
func (s State) SignedOff(t Target) bool {
	switch t {
	case TargetEngineering:
		return s.EngineeringSignedOff
	case TargetProduct:
		return s.ProductSignedOff
	default:
		return false
	}
}

// ReadinessFunc reports whether target may be signed off right now.
type ReadinessFunc func(Target) bool

// Machine holds the sign-off state for one session.
type Machine struct {
	mu    sync.Mutex
	state State
	ready ReadinessFunc
}

// New creates a machine in the initial state. ready is consulted on every
// confirmation, so it must reflect the latest fetched data.
func New(ready ReadinessFunc) *Machine {
	return &Machine{ready: ready}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RequestSignoff opens the confirmation step for target. It is always
// allowed; readiness is only checked on confirmation.
func (m *Machine) RequestSignoff(t Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Pending = t
}

// ConfirmSignoff sets the pending target's flag if it is ready and returns
// to idle. It returns the target that was pending when the lock was taken.
// When not ready (or nothing is pending) it changes nothing and reports false.
func (m *Machine) ConfirmSignoff() (Target, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.state.Pending
	if t == TargetNone {
		return t, false
	}
	if m.ready == nil || !m.ready(t) {
		return t, false
	}
	switch t {
	case TargetEngineering:
		m.state.EngineeringSignedOff = true
	case TargetProduct:
		m.state.ProductSignedOff = true
	}
	m.state.Pending = TargetNone
	return t, true
}

// Cancel returns to idle without touching either flag.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Pending = TargetNone
}
