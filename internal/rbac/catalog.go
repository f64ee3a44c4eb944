package rbac

import (
	"fmt"

	"github.com/horizonapply/horizon/internal/auth"
)

// Catalog is the process-wide permission table: role -> ordered rule list.
// It is immutable after construction and safe for unsynchronized concurrent
// reads. Rule order encodes precedence: the first rule matching a requested
// (resource, action) pair wins, so more specific rules must be declared
// before broader ones.
type Catalog struct {
	rules RuleSet
}

// NewCatalog validates and freezes a rule set. Construction fails when two
// rules for the same role can both match a concrete (resource, action) pair,
// wildcard overlap included, so precedence mistakes surface at process start
// instead of silently at request time.
func NewCatalog(rules RuleSet) (*Catalog, error) {
	frozen := make(RuleSet, len(rules))
	for role, list := range rules {
		for i, rule := range list {
			if rule.Resource == "" || rule.Action == "" {
				return nil, fmt.Errorf("rbac: role %s rule %d: resource and action required", role, i)
			}
			for j := 0; j < i; j++ {
				if overlaps(list[j], rule) {
					return nil, fmt.Errorf(
						"rbac: role %s: rule (%s,%s) is shadowed by earlier rule (%s,%s)",
						role, rule.Resource, rule.Action, list[j].Resource, list[j].Action,
					)
				}
			}
		}
		copied := make([]Rule, len(list))
		copy(copied, list)
		frozen[role] = copied
	}
	return &Catalog{rules: frozen}, nil
}

// MustNewCatalog is NewCatalog for static tables known valid at compile time.
func MustNewCatalog(rules RuleSet) *Catalog {
	catalog, err := NewCatalog(rules)
	if err != nil {
		panic(err)
	}
	return catalog
}

// PermissionsFor returns the role's rules in declaration order. The returned
// slice is shared and must not be mutated.
func (c *Catalog) PermissionsFor(role auth.Role) []Rule {
	return c.rules[role]
}

// Match returns the first rule for the role covering (resource, action).
func (c *Catalog) Match(role auth.Role, resource, action string) (Rule, bool) {
	for _, rule := range c.rules[role] {
		if rule.Matches(resource, action) {
			return rule, true
		}
	}
	return Rule{}, false
}

// overlaps reports whether two rules can match the same concrete pair.
func overlaps(a, b Rule) bool {
	sameResource := a.Resource == b.Resource || a.Resource == Wildcard || b.Resource == Wildcard
	sameAction := a.Action == b.Action || a.Action == Wildcard || b.Action == Wildcard
	return sameResource && sameAction
}

// DefaultCatalog is the shipped permission table. Every grant is explicit;
// there is no super-role bypass, and an admin-like role would be added here
// as explicit wildcard rules rather than as a branch in the decision logic.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(RuleSet{
		auth.RoleStudent: {
			{Resource: "applications", Action: ActionCreate},
			{Resource: "applications", Action: ActionRead, Conditions: map[string]Condition{"studentId": ConditionLinkedStudent}},
			{Resource: "applications", Action: ActionUpdate, Conditions: map[string]Condition{"studentId": ConditionLinkedStudent}},
			{Resource: "applications", Action: ActionDelete, Conditions: map[string]Condition{"studentId": ConditionLinkedStudent}},
			{Resource: "profile", Action: ActionRead, Conditions: map[string]Condition{"studentId": ConditionLinkedStudent}},
			{Resource: "profile", Action: ActionUpdate, Conditions: map[string]Condition{"studentId": ConditionLinkedStudent}},
		},
		auth.RoleParent: {
			{Resource: "applications", Action: ActionRead, Conditions: map[string]Condition{"studentId": ConditionChildren}},
			{Resource: "parentNotes", Action: ActionCreate},
			{Resource: "parentNotes", Action: ActionRead, Conditions: map[string]Condition{"parentId": ConditionSelf}},
			{Resource: "parentNotes", Action: ActionUpdate, Conditions: map[string]Condition{"parentId": ConditionSelf}},
			{Resource: "parentNotes", Action: ActionDelete, Conditions: map[string]Condition{"parentId": ConditionSelf}},
			{Resource: "parentStudents", Action: ActionCreate},
			{Resource: "parentStudents", Action: ActionRead, Conditions: map[string]Condition{"parentId": ConditionSelf}},
			{Resource: "parentStudents", Action: ActionDelete, Conditions: map[string]Condition{"parentId": ConditionSelf}},
		},
	})
}
