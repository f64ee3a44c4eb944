package students

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/horizonapply/horizon/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the profile resource. The rbac middleware
// gates both routes with the studentId taken from the URL, so by the time a
// handler runs the caller is already confirmed to own or guard the profile.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type profileResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	GraduationYear  int       `json:"graduationYear"`
	GPA             *float64  `json:"gpa,omitempty"`
	SATScore        *int      `json:"satScore,omitempty"`
	ACTScore        *int      `json:"actScore,omitempty"`
	TargetCountries []string  `json:"targetCountries"`
	IntendedMajors  []string  `json:"intendedMajors"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type updateProfileRequest struct {
	Name            string   `json:"name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	GraduationYear  int      `json:"graduationYear" validate:"required,min=2000,max=2100"`
	GPA             *float64 `json:"gpa" validate:"omitempty,min=0,max=5"`
	SATScore        *int     `json:"satScore" validate:"omitempty,min=400,max=1600"`
	ACTScore        *int     `json:"actScore" validate:"omitempty,min=1,max=36"`
	TargetCountries []string `json:"targetCountries"`
	IntendedMajors  []string `json:"intendedMajors"`
}

// HandleGet serves GET /students/{studentID}/profile.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		h.logError("get profile", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProfileResponse(profile))
}

// HandleUpdate serves PUT /students/{studentID}/profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	profile, err := h.service.Update(r.Context(), chi.URLParam(r, "studentID"), UpdateInput{
		Name:            req.Name,
		Email:           req.Email,
		GraduationYear:  req.GraduationYear,
		GPA:             req.GPA,
		SATScore:        req.SATScore,
		ACTScore:        req.ACTScore,
		TargetCountries: req.TargetCountries,
		IntendedMajors:  req.IntendedMajors,
	})
	if err != nil {
		h.logError("update profile", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, slog.Any("error", err))
	}
}

func toProfileResponse(p *Profile) profileResponse {
	return profileResponse{
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		GraduationYear:  p.GraduationYear,
		GPA:             p.GPA,
		SATScore:        p.SATScore,
		ACTScore:        p.ACTScore,
		TargetCountries: p.TargetCountries,
		IntendedMajors:  p.IntendedMajors,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
