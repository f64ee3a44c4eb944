package guardian

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/horizonapply/horizon/internal/auth"
	"github.com/horizonapply/horizon/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the parentStudents resource. Authorization
// is applied by the router via the rbac middleware; handlers trust the
// principal already attached to the request context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type linkResponse struct {
	ParentID    string    `json:"parentId"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createLinkRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid4"`
}

// HandleList serves GET /parent/students.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	links, err := h.service.ListLinks(r.Context(), principal.ID)
	if err != nil {
		h.logError("list links", err)
		httpx.RespondError(w, err)
		return
	}
	out := make([]linkResponse, 0, len(links))
	for _, link := range links {
		out = append(out, toLinkResponse(link))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// HandleCreate serves POST /parent/students.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	var req createLinkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	link, err := h.service.CreateLink(r.Context(), principal.ID, req.StudentID)
	if err != nil {
		h.logError("create link", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toLinkResponse(link))
}

// HandleDelete serves DELETE /parent/students/{studentID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	studentID := chi.URLParam(r, "studentID")
	if err := h.service.DeleteLink(r.Context(), principal.ID, studentID); err != nil {
		h.logError("delete link", err)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}

func toLinkResponse(link Link) linkResponse {
	return linkResponse{
		ParentID:    link.ParentID,
		StudentID:   link.StudentID,
		StudentName: link.StudentName,
		CreatedAt:   link.CreatedAt,
	}
}
