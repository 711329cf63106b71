package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/core/ports"
)

// PatientHandler handles patient-facing profile operations.
type PatientHandler struct {
	profiles ports.ProfileService
}

func NewPatientHandler(profiles ports.ProfileService) *PatientHandler {
	return &PatientHandler{profiles: profiles}
}

type profileRequest struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	DateOfBirth      string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	PhoneNumber      string `json:"phoneNumber"`
	Address          string `json:"address"`
	MedicalHistory   string `json:"medicalHistory"`
	Allergies        string `json:"allergies"`
	Medications      string `json:"medications"`
	EmergencyContact string `json:"emergencyContact"`
}

func (r profileRequest) toInput() ports.ProfileInput {
	return ports.ProfileInput{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		DateOfBirth:      r.DateOfBirth,
		PhoneNumber:      r.PhoneNumber,
		Address:          r.Address,
		MedicalHistory:   r.MedicalHistory,
		Allergies:        r.Allergies,
		Medications:      r.Medications,
		EmergencyContact: r.EmergencyContact,
	}
}

// Get returns the caller's medical profile.
//
// @Summary      Get own profile
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PatientProfile
// @Failure      404  {object}  map[string]string
// @Router       /patients/profile [get]
func (h *PatientHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.GetProfile(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Create creates the caller's medical profile.
//
// @Summary      Create own profile
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      201   {object}  domain.PatientProfile
// @Failure      400   {object}  map[string]string
// @Router       /patients/profile [post]
func (h *PatientHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profiles.CreateProfile(c.Request().Context(), sess, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

// Update replaces the caller's medical profile.
//
// @Summary      Update own profile
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  domain.PatientProfile
// @Failure      400   {object}  map[string]string
// @Router       /patients/profile [put]
func (h *PatientHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.profiles.UpdateProfile(c.Request().Context(), sess, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
