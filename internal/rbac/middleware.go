package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/platform/httpx"
)

// PrincipalResolver resolves a bearer credential to a principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Principal, error)
}

// ContextBuilder derives the authorization context for a route from the
// in-flight request and the resolved principal.
type ContextBuilder func(r *http.Request, principal *auth.Principal) Context

// Middleware is the enforcement layer: it authenticates the caller, builds
// the authorization context, consults the Authorizer, and either terminates
// the request with one of the two deny shapes or forwards it with the
// principal attached. No error from a collaborator crosses into downstream
// handlers.
type Middleware struct {
	Resolver   PrincipalResolver
	Authorizer *Authorizer
	CookieName string
	Logger     *slog.Logger
}

// Require gates a route on (resource, action). The optional builder supplies
// target facts for conditional rules; nil means an empty context, which
// denies any conditional rule (fail closed).
func (m Middleware) Require(resource, action string, build ContextBuilder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := m.credential(r)
			principal, err := m.Resolver.Resolve(r.Context(), token)
			if err != nil || principal == nil {
				httpx.Unauthorized(w)
				return
			}

			authzCtx := Context{}
			if build != nil {
				authzCtx = build(r, principal)
			}
			decision := m.Authorizer.Authorize(r.Context(), principal, resource, action, authzCtx)
			if !decision.Allowed {
				if m.Logger != nil {
					m.Logger.Info("request denied",
						slog.String("principal", principal.ID),
						slog.String("resource", resource),
						slog.String("action", action),
						slog.String("reason", decision.Reason),
					)
				}
				httpx.Forbidden(w)
				return
			}

			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticate resolves the principal and attaches it without consulting the
// catalog. Routes using it must call the Authorizer themselves once the
// target entity is loaded and its owner fields are known; conditional rules
// still fail closed because the handler supplies the full context.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.Resolver.Resolve(r.Context(), m.credential(r))
		if err != nil || principal == nil {
			httpx.Unauthorized(w)
			return
		}
		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// credential extracts the bearer token from the Authorization header, falling
// back to the configured cookie.
func (m Middleware) credential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if m.CookieName != "" {
		if cookie, err := r.Cookie(m.CookieName); err == nil {
			return cookie.Value
		}
	}
	return ""
}

// SelfContext sets field to the principal's own ID.
func SelfContext(field string) ContextBuilder {
	return func(_ *http.Request, principal *auth.Principal) Context {
		return Context{field: principal.ID}
	}
}

// LinkedStudentContext sets field to the principal's linked student ID.
func LinkedStudentContext(field string) ContextBuilder {
	return func(_ *http.Request, principal *auth.Principal) Context {
		return Context{field: principal.LinkedStudentID}
	}
}

// URLParamContext sets field from a chi route parameter.
func URLParamContext(field, param string) ContextBuilder {
	return func(r *http.Request, _ *auth.Principal) Context {
		return Context{field: chi.URLParam(r, param)}
	}
}

// QueryContext sets field from a URL query parameter.
func QueryContext(field, param string) ContextBuilder {
	return func(r *http.Request, _ *auth.Principal) Context {
		return Context{field: r.URL.Query().Get(param)}
	}
}

// MergeContexts combines builders; later builders win on field collisions.
func MergeContexts(builders ...ContextBuilder) ContextBuilder {
	return func(r *http.Request, principal *auth.Principal) Context {
		merged := Context{}
		for _, build := range builders {
			if build == nil {
				continue
			}
			for field, value := range build(r, principal) {
				merged[field] = value
			}
		}
		return merged
	}
}
