package applications

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/platform/httpx"
	"github.com/horizonapply/horizon/internal/rbac"
)

// Handler wires HTTP endpoints for the applications resource. Collection
// routes are gated by the rbac middleware; item routes authorize in the
// handler once the target's owner is known, passing the loaded facts to the
// same decision function.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	authorizer *rbac.Authorizer
	validator  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authorizer *rbac.Authorizer) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		authorizer: authorizer,
		validator:  validator.New(),
	}
}

type applicationResponse struct {
	ID           string     `json:"id"`
	StudentID    string     `json:"studentId"`
	UniversityID string     `json:"universityId"`
	Type         string     `json:"applicationType"`
	Status       string     `json:"status"`
	Deadline     time.Time  `json:"deadline"`
	SubmittedAt  *time.Time `json:"submittedDate,omitempty"`
	DecisionType string     `json:"decisionType,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type createApplicationRequest struct {
	UniversityID string    `json:"universityId" validate:"required,uuid4"`
	Type         string    `json:"applicationType" validate:"required"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	Notes        string    `json:"notes"`
}

type updateApplicationRequest struct {
	Type         string     `json:"applicationType" validate:"required"`
	Status       string     `json:"status" validate:"required"`
	Deadline     time.Time  `json:"deadline" validate:"required"`
	SubmittedAt  *time.Time `json:"submittedDate"`
	DecisionType string     `json:"decisionType"`
	Notes        string     `json:"notes"`
}

// HandleList serves GET /applications?studentId=...&status=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "studentId query parameter required")
		return
	}
	apps, err := h.service.ListByStudent(r.Context(), studentID, r.URL.Query().Get("status"))
	if err != nil {
		h.logError("list applications", err)
		httpx.RespondError(w, err)
		return
	}
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(&app))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// HandleCreate serves POST /applications. The owning student is always the
// caller's linked student record.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if principal.LinkedStudentID == "" {
		httpx.Forbidden(w)
		return
	}
	var req createApplicationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	app, err := h.service.Create(r.Context(), CreateInput{
		StudentID:    principal.LinkedStudentID,
		UniversityID: req.UniversityID,
		Type:         req.Type,
		Deadline:     req.Deadline,
		Notes:        req.Notes,
	})
	if err != nil {
		h.logError("create application", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toApplicationResponse(app))
}

// HandleGet serves GET /applications/{applicationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadAuthorized(w, r, rbac.ActionRead)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, toApplicationResponse(app))
}

// HandleUpdate serves PUT /applications/{applicationID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadAuthorized(w, r, rbac.ActionUpdate)
	if !ok {
		return
	}
	var req updateApplicationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), app, UpdateInput{
		Type:         req.Type,
		Status:       req.Status,
		Deadline:     req.Deadline,
		SubmittedAt:  req.SubmittedAt,
		DecisionType: req.DecisionType,
		Notes:        req.Notes,
	})
	if err != nil {
		h.logError("update application", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toApplicationResponse(updated))
}

// HandleDelete serves DELETE /applications/{applicationID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadAuthorized(w, r, rbac.ActionDelete)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), app.ID); err != nil {
		h.logError("delete application", err)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadAuthorized fetches the target application and authorizes the action
// against its owner.
func (h *Handler) loadAuthorized(w http.ResponseWriter, r *http.Request, action string) (*Application, bool) {
	principal := auth.PrincipalFromContext(r.Context())
	app, err := h.service.Get(r.Context(), chi.URLParam(r, "applicationID"))
	if err != nil {
		httpx.RespondError(w, err)
		return nil, false
	}
	decision := h.authorizer.Authorize(r.Context(), principal, "applications", action, rbac.Context{
		"studentId": app.StudentID,
	})
	if !decision.Allowed {
		httpx.Forbidden(w)
		return nil, false
	}
	return app, true
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}

func toApplicationResponse(app *Application) applicationResponse {
	return applicationResponse{
		ID:           app.ID,
		StudentID:    app.StudentID,
		UniversityID: app.UniversityID,
		Type:         app.Type,
		Status:       app.Status,
		Deadline:     app.Deadline,
		SubmittedAt:  app.SubmittedAt,
		DecisionType: app.DecisionType,
		Notes:        app.Notes,
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}
}
