package gate

import (
	"testing"

	"github.com/conceptdelta/examdesk/internal/model"
	"github.com/stretchr/testify/require"
)

func TestProfileGateNeverFlickers(t *testing.T) {
	e := NewEvaluator()

	// Nothing loaded yet.
	require.Equal(t, ProfileUnknown, e.ProfileGate())

	// Identity resolved but the profile fetch is still pending: the gate
	// must not show the setup prompt yet.
	e.UpdateFacts(Facts{IdentityPresent: true})
	require.Equal(t, ProfileUnknown, e.ProfileGate())

	// Fetch resolved to a true absence.
	e.UpdateFacts(Facts{IdentityPresent: true, ProfileLoaded: true, ProfileExists: false})
	require.Equal(t, ProfileNeedsSetup, e.ProfileGate())

	// Fetch resolved to an existing profile.
	e.UpdateFacts(Facts{IdentityPresent: true, ProfileLoaded: true, ProfileExists: true})
	require.Equal(t, ProfileComplete, e.ProfileGate())
}

func TestProfileGateCompletionIsTerminal(t *testing.T) {
	e := NewEvaluator()
	e.UpdateFacts(Facts{IdentityPresent: true, ProfileLoaded: true, ProfileExists: false})
	require.Equal(t, ProfileNeedsSetup, e.ProfileGate())

	e.MarkProfileComplete()
	require.Equal(t, ProfileComplete, e.ProfileGate())

	// Stale facts cannot reopen the gate within the session.
	e.UpdateFacts(Facts{IdentityPresent: true, ProfileLoaded: true, ProfileExists: false})
	require.Equal(t, ProfileComplete, e.ProfileGate())
}

func TestTestGateRoleRules(t *testing.T) {
	e := NewEvaluator()

	// Role not yet loaded: no decision.
	require.Equal(t, TestUnknown, e.TestGate(true, true))

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleUser})
	require.Equal(t, TestGranted, e.TestGate(true, true))
	// Unpublished and missing are the same "not found" shape to a non-admin.
	require.Equal(t, TestNotFound, e.TestGate(true, false))
	require.Equal(t, TestNotFound, e.TestGate(false, false))

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin})
	require.Equal(t, TestGranted, e.TestGate(true, false))
	require.Equal(t, TestNotFound, e.TestGate(false, false))

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleGuest})
	require.Equal(t, TestNotFound, e.TestGate(true, false))
}

func TestAdminGateStates(t *testing.T) {
	e := NewEvaluator()
	require.Equal(t, AdminDenied, e.AdminGate())

	e.UpdateFacts(Facts{IdentityPresent: true})
	require.Equal(t, AdminUnknown, e.AdminGate())

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleUser})
	require.Equal(t, AdminDenied, e.AdminGate())

	// Admin role known but visited flag still loading.
	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin})
	require.Equal(t, AdminUnknown, e.AdminGate())

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin, VisitedLoaded: true})
	require.Equal(t, AdminEligible, e.AdminGate())

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin, VisitedLoaded: true, AdminVisited: true})
	require.Equal(t, AdminBlocked, e.AdminGate())
}

func TestAdminVisitEffectFiresOnce(t *testing.T) {
	e := NewEvaluator()
	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin, VisitedLoaded: true})

	require.True(t, e.ConsumeVisitEffect())
	// A repeated render never double-fires.
	require.False(t, e.ConsumeVisitEffect())
	require.False(t, e.ConsumeVisitEffect())
}

func TestAdminVisitEffectRequiresEligibility(t *testing.T) {
	e := NewEvaluator()

	// Unknown facts: no effect, and the latch is not consumed.
	require.False(t, e.ConsumeVisitEffect())

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleUser, VisitedLoaded: true})
	require.False(t, e.ConsumeVisitEffect())

	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin, VisitedLoaded: true})
	require.True(t, e.ConsumeVisitEffect())
}

func TestVisitedFlagIsMonotonic(t *testing.T) {
	e := NewEvaluator()
	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin, VisitedLoaded: true, AdminVisited: true})
	require.Equal(t, AdminBlocked, e.AdminGate())

	// A stale snapshot claiming "not visited" cannot revert the flag.
	e.UpdateFacts(Facts{IdentityPresent: true, RoleLoaded: true, Role: model.RoleAdmin, VisitedLoaded: true, AdminVisited: false})
	require.Equal(t, AdminBlocked, e.AdminGate())
}
