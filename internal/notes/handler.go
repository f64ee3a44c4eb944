package notes

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

// Handler wires HTTP endpoints for the parentNotes resource.
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

type noteResponse struct {
	ID            string    `json:"id"`
	ParentID      string    `json:"parentId"`
	ApplicationID string    `json:"applicationId"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type createNoteRequest struct {
	ApplicationID string `json:"applicationId" validate:"required,uuid4"`
	Content       string `json:"content" validate:"required"`
}

type updateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleList serves GET /parent/notes.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	list, err := h.service.ListByParent(r.Context(), principal.ID)
	if err != nil {
		h.logError("list notes", err)
		httpx.RespondError(w, err)
		return
	}
	out := make([]noteResponse, 0, len(list))
	for _, note := range list {
		out = append(out, toNoteResponse(&note))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// HandleCreate serves POST /parent/notes. The note owner is always the caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	var req createNoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	note, err := h.service.Create(r.Context(), principal.ID, req.ApplicationID, req.Content)
	if err != nil {
		h.logError("create note", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toNoteResponse(note))
}

// HandleUpdate serves PUT /parent/notes/{noteID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	note, ok := h.loadAuthorized(w, r, rbac.ActionUpdate)
	if !ok {
		return
	}
	var req updateNoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), note, req.Content)
	if err != nil {
		h.logError("update note", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toNoteResponse(updated))
}

// HandleDelete serves DELETE /parent/notes/{noteID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	note, ok := h.loadAuthorized(w, r, rbac.ActionDelete)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), note.ID); err != nil {
		h.logError("delete note", err)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadAuthorized fetches the target note and authorizes the action against
// its owner.
func (h *Handler) loadAuthorized(w http.ResponseWriter, r *http.Request, action string) (*Note, bool) {
	principal := auth.PrincipalFromContext(r.Context())
	note, err := h.service.Get(r.Context(), chi.URLParam(r, "noteID"))
	if err != nil {
		httpx.RespondError(w, err)
		return nil, false
	}
	decision := h.authorizer.Authorize(r.Context(), principal, "parentNotes", action, rbac.Context{
		"parentId": note.ParentID,
	})
	if !decision.Allowed {
		httpx.Forbidden(w)
		return nil, false
	}
	return note, true
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}

func toNoteResponse(note *Note) noteResponse {
	return noteResponse{
		ID:            note.ID,
		ParentID:      note.ParentID,
		ApplicationID: note.ApplicationID,
		Content:       note.Content,
		CreatedAt:     note.CreatedAt,
		UpdatedAt:     note.UpdatedAt,
	}
}
