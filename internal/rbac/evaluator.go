package rbac

import (
	"context"
	"log/slog"

	"github.com/horizonapply/horizon/internal/auth"
)

// GuardianChecker answers whether a principal is guardian of a student. It is
// the only collaborator the evaluator calls out to. Implementations must not
// panic outward; an error return is treated as "no relationship".
type GuardianChecker interface {
	IsGuardianOf(ctx context.Context, principalID, studentID string) (bool, error)
}

// Evaluator decides whether a matched rule's conditions hold for a principal
// against the supplied authorization context. Every path fails closed: a
// missing context field, an unknown condition kind, or a checker error all
// evaluate to false.
type Evaluator struct {
	guardians GuardianChecker
	logger    *slog.Logger
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(guardians GuardianChecker, logger *slog.Logger) *Evaluator {
	return &Evaluator{guardians: guardians, logger: logger}
}

// HoldsAll reports whether every condition in the rule holds. Conditions are
// ANDed; the first failure decides.
func (e *Evaluator) HoldsAll(ctx context.Context, conditions map[string]Condition, principal *auth.Principal, authzCtx Context) bool {
	for field, kind := range conditions {
		value, ok := authzCtx[field]
		if !ok {
			return false
		}
		if !e.holds(ctx, kind, value, principal) {
			return false
		}
	}
	return true
}

func (e *Evaluator) holds(ctx context.Context, kind Condition, value string, principal *auth.Principal) bool {
	switch kind {
	case ConditionSelf:
		return value != "" && value == principal.ID
	case ConditionLinkedStudent:
		return value != "" && value == principal.LinkedStudentID
	case ConditionChildren:
		return e.isGuardian(ctx, principal.ID, value)
	default:
		if e.logger != nil {
			e.logger.Warn("unknown condition kind", slog.String("kind", string(kind)))
		}
		return false
	}
}

func (e *Evaluator) isGuardian(ctx context.Context, principalID, studentID string) bool {
	if e.guardians == nil || studentID == "" {
		return false
	}
	ok, err := e.guardians.IsGuardianOf(ctx, principalID, studentID)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("guardianship lookup failed",
				slog.String("principal", principalID),
				slog.String("student", studentID),
				slog.Any("error", err),
			)
		}
		return false
	}
	return ok
}
