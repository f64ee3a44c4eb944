// Package rbac implements the role-based authorization engine: a static
// permission catalog, a relationship-aware condition evaluator, the
// authorization decision function, and the HTTP enforcement middleware.
package rbac

import "github.com/horizonapply/horizon/internal/auth"

// Wildcard matches any resource or action in a rule.
const Wildcard = "*"

// Actions understood by the catalog.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Condition names a relationship test between the principal and one field of
// the authorization context.
type Condition string

const (
	// ConditionSelf holds when the context value equals the principal's own ID.
	ConditionSelf Condition = "self"
	// ConditionChildren holds when the principal is guardian of the student
	// named by the context value. Requires an external lookup.
	ConditionChildren Condition = "children"
	// ConditionLinkedStudent holds when the context value equals the
	// principal's linked student ID.
	ConditionLinkedStudent Condition = "studentId"
)

// Rule grants a role one (resource, action) capability, optionally gated by
// relationship conditions. A nil Conditions map means the grant is
// unconditional once the rule matches.
type Rule struct {
	Resource   string
	Action     string
	Conditions map[string]Condition
}

// Matches reports whether the rule covers the requested resource and action.
func (r Rule) Matches(resource, action string) bool {
	return (r.Resource == resource || r.Resource == Wildcard) &&
		(r.Action == action || r.Action == Wildcard)
}

// Context carries request-derived facts about the target resource for one
// authorization decision. It never outlives the decision.
type Context map[string]string

// Decision is the output of the authorization decision function.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow constructs an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny constructs a denying decision with a diagnostic reason. The reason is
// for logs only and is never written to the wire.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// RuleSet is the per-role rule list keyed by role tag.
type RuleSet map[auth.Role][]Rule
