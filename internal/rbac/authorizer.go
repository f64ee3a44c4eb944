package rbac

import (
	"context"
	"log/slog"

	"github.com/horizonapply/horizon/internal/auth"
)

// Authorizer is the authorization decision function: it composes the catalog
// with the condition evaluator. Decisions are pure given the catalog snapshot
// and the guardianship answers at call time; no state is written per call, so
// a single Authorizer serves all requests concurrently.
type Authorizer struct {
	catalog   *Catalog
	evaluator *Evaluator
}

// NewAuthorizer constructs an Authorizer over an immutable catalog.
func NewAuthorizer(catalog *Catalog, guardians GuardianChecker, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		catalog:   catalog,
		evaluator: NewEvaluator(guardians, logger),
	}
}

// Authorize decides whether the principal may perform action on resource,
// given request-derived facts in authzCtx. First matching rule wins; no match
// denies; an unconditional match allows; a conditional match allows only when
// every condition holds against the context and principal.
func (a *Authorizer) Authorize(ctx context.Context, principal *auth.Principal, resource, action string, authzCtx Context) Decision {
	if principal == nil {
		return Deny("no principal")
	}
	rule, ok := a.catalog.Match(principal.Role, resource, action)
	if !ok {
		return Deny("no matching rule for role " + string(principal.Role))
	}
	if len(rule.Conditions) == 0 {
		return Allow()
	}
	if !a.evaluator.HoldsAll(ctx, rule.Conditions, principal, authzCtx) {
		return Deny("conditions not satisfied")
	}
	return Allow()
}
