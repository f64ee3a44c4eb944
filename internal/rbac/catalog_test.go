package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizonapply/horizon/internal/auth"
)

func TestCatalogFirstMatchWins(t *testing.T) {
	catalog, err := NewCatalog(RuleSet{
		auth.RoleStudent: {
			{Resource: "applications", Action: ActionRead, Conditions: map[string]Condition{"studentId": ConditionSelf}},
			{Resource: "applications", Action: ActionCreate},
		},
	})
	require.NoError(t, err)

	rule, ok := catalog.Match(auth.RoleStudent, "applications", ActionRead)
	require.True(t, ok)
	assert.Equal(t, ConditionSelf, rule.Conditions["studentId"])

	rule, ok = catalog.Match(auth.RoleStudent, "applications", ActionCreate)
	require.True(t, ok)
	assert.Empty(t, rule.Conditions)
}

func TestCatalogNoMatch(t *testing.T) {
	catalog, err := NewCatalog(RuleSet{
		auth.RoleStudent: {
			{Resource: "applications", Action: ActionCreate},
		},
	})
	require.NoError(t, err)

	_, ok := catalog.Match(auth.RoleStudent, "parentNotes", ActionCreate)
	assert.False(t, ok)
	_, ok = catalog.Match(auth.RoleParent, "applications", ActionCreate)
	assert.False(t, ok)
}

func TestCatalogWildcards(t *testing.T) {
	admin := auth.Role("ADMIN")
	catalog, err := NewCatalog(RuleSet{
		admin: {
			{Resource: Wildcard, Action: Wildcard},
		},
		auth.RoleParent: {
			{Resource: "parentNotes", Action: Wildcard},
		},
	})
	require.NoError(t, err)

	for _, resource := range []string{"applications", "parentNotes", "profile"} {
		for _, action := range []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			_, ok := catalog.Match(admin, resource, action)
			assert.True(t, ok, "admin should match %s/%s", resource, action)
		}
	}

	_, ok := catalog.Match(auth.RoleParent, "parentNotes", ActionDelete)
	assert.True(t, ok)
	_, ok = catalog.Match(auth.RoleParent, "applications", ActionDelete)
	assert.False(t, ok)
}

func TestNewCatalogRejectsOverlap(t *testing.T) {
	_, err := NewCatalog(RuleSet{
		auth.RoleStudent: {
			{Resource: "applications", Action: ActionRead},
			{Resource: "applications", Action: ActionRead, Conditions: map[string]Condition{"studentId": ConditionSelf}},
		},
	})
	require.Error(t, err)

	_, err = NewCatalog(RuleSet{
		auth.RoleStudent: {
			{Resource: Wildcard, Action: Wildcard},
			{Resource: "applications", Action: ActionRead},
		},
	})
	require.Error(t, err, "wildcard shadowing must be rejected")
}

func TestNewCatalogRejectsEmptyFields(t *testing.T) {
	_, err := NewCatalog(RuleSet{
		auth.RoleStudent: {{Resource: "", Action: ActionRead}},
	})
	require.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	rule, ok := catalog.Match(auth.RoleStudent, "applications", ActionCreate)
	require.True(t, ok)
	assert.Empty(t, rule.Conditions)

	rule, ok = catalog.Match(auth.RoleStudent, "applications", ActionDelete)
	require.True(t, ok)
	assert.Equal(t, ConditionLinkedStudent, rule.Conditions["studentId"])

	rule, ok = catalog.Match(auth.RoleParent, "applications", ActionRead)
	require.True(t, ok)
	assert.Equal(t, ConditionChildren, rule.Conditions["studentId"])

	_, ok = catalog.Match(auth.RoleParent, "applications", ActionCreate)
	assert.False(t, ok, "parents can never open applications")

	_, ok = catalog.Match(auth.RoleParent, "profile", ActionUpdate)
	assert.False(t, ok)
}
