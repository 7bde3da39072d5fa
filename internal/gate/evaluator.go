// Package gate consolidates the portal's screen-access decisions into one
// evaluator over a snapshot of externally-fetched facts. Each gate has an
// explicit "unknown" state so that no decision is ever rendered from
// partially-loaded inputs.
package gate

import "github.com/conceptdelta/examdesk/internal/model"

// Facts is a snapshot of the identity/profile/role data the gates decide
// from. The Loaded flags distinguish "not yet fetched" from a fetched
// negative — that distinction is load-bearing for flicker freedom.
type Facts struct {
	IdentityPresent bool

	ProfileLoaded bool
	ProfileExists bool

	RoleLoaded bool
	Role       model.Role

	VisitedLoaded bool
	AdminVisited  bool
}

// ProfileDecision is the profile-completion gate outcome.
type ProfileDecision string

const (
	ProfileUnknown    ProfileDecision = "UNKNOWN"
	ProfileNeedsSetup ProfileDecision = "NEEDS_SETUP"
	ProfileComplete   ProfileDecision = "COMPLETE"
)

// TestDecision is the test-reachability gate outcome. Denial is shaped as
// "not found": a non-admin cannot tell an unpublished test from a missing
// one.
type TestDecision string

const (
	TestUnknown  TestDecision = "UNKNOWN"
	TestGranted  TestDecision = "GRANTED"
	TestNotFound TestDecision = "NOT_FOUND"
)

// AdminDecision is the admin-first-visit gate outcome.
type AdminDecision string

const (
	AdminUnknown  AdminDecision = "UNKNOWN"
	AdminEligible AdminDecision = "ELIGIBLE"
	AdminBlocked  AdminDecision = "BLOCKED"
	AdminDenied   AdminDecision = "DENIED"
)

// Evaluator computes the three gate decisions from the current facts and
// owns the one-shot "mark visited" latch. It is a per-session value; the
// facts cache behind it is read-only from the evaluator's perspective.
type Evaluator struct {
	facts           Facts
	profileComplete bool
	visitFired      bool
}

// NewEvaluator creates an evaluator with no facts loaded; every gate reports
// its unknown state until UpdateFacts delivers resolved inputs.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// UpdateFacts replaces the fact snapshot. The admin-visited flag is
// monotonic: once observed true it never reverts within this evaluator.
func (e *Evaluator) UpdateFacts(f Facts) {
	if e.facts.VisitedLoaded && e.facts.AdminVisited {
		f.VisitedLoaded = true
		f.AdminVisited = true
	}
	e.facts = f
}

// MarkProfileComplete records the externally-triggered "profile saved"
// transition. Terminal for the session.
func (e *Evaluator) MarkProfileComplete() {
	e.profileComplete = true
}

// ProfileGate reports whether the principal must complete profile setup.
// NEEDS_SETUP holds exactly when identity is present and the profile fetch
// has resolved to a true absence — never while the fetch is pending.
func (e *Evaluator) ProfileGate() ProfileDecision {
	if e.profileComplete {
		return ProfileComplete
	}
	if !e.facts.IdentityPresent || !e.facts.ProfileLoaded {
		return ProfileUnknown
	}
	if !e.facts.ProfileExists {
		return ProfileNeedsSetup
	}
	return ProfileComplete
}

// TestGate reports whether the principal may reach a test. Admins reach any
// test; other roles only published ones. testExists=false and
// published=false are indistinguishable to non-admins.
func (e *Evaluator) TestGate(testExists, published bool) TestDecision {
	if !e.facts.RoleLoaded {
		return TestUnknown
	}
	if e.facts.Role == model.RoleAdmin {
		if !testExists {
			return TestNotFound
		}
		return TestGranted
	}
	if !testExists || !published {
		return TestNotFound
	}
	return TestGranted
}

// AdminGate reports whether the principal may enter the admin screen.
// Visiting it is a one-shot lifetime event per admin account; this check is
// advisory UX — the data layer enforces the flag authoritatively.
func (e *Evaluator) AdminGate() AdminDecision {
	if !e.facts.IdentityPresent {
		return AdminDenied
	}
	if !e.facts.RoleLoaded {
		return AdminUnknown
	}
	if e.facts.Role != model.RoleAdmin {
		return AdminDenied
	}
	if !e.facts.VisitedLoaded {
		return AdminUnknown
	}
	if e.facts.AdminVisited {
		return AdminBlocked
	}
	return AdminEligible
}

// ConsumeVisitEffect returns true exactly once, on the first call while the
// admin gate is ELIGIBLE. The caller fires the "mark visited" side effect
// when it gets true; repeated renders can never double-fire it.
func (e *Evaluator) ConsumeVisitEffect() bool {
	if e.visitFired {
		return false
	}
	if e.AdminGate() != AdminEligible {
		return false
	}
	e.visitFired = true
	return true
}
