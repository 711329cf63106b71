package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/core/ports"
)

// defaultActivityLimit caps the recent-activity response when the caller
// does not ask for a specific length.
const defaultActivityLimit = 50

// AdminHandler covers the admin surface: directory listings, moderation,
// per-patient reconciled views, the global document browser, and analytics.
type AdminHandler struct {
	admin     ports.AdminService
	resolver  ports.Resolver
	documents ports.DocumentService
}

func NewAdminHandler(admin ports.AdminService, resolver ports.Resolver, documents ports.DocumentService) *AdminHandler {
	return &AdminHandler{admin: admin, resolver: resolver, documents: documents}
}

// ListPatients returns every patient account known upstream.
//
// @Summary      List all patient accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PatientUser
// @Router       /admin/patients/all [get]
func (h *AdminHandler) ListPatients(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	patients, err := h.admin.ListPatients(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// ListPatientsWithProfiles returns the profile-backed patient listing.
//
// @Summary      List patients that completed a profile
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PatientProfile
// @Router       /admin/patients [get]
func (h *AdminHandler) ListPatientsWithProfiles(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	profiles, err := h.admin.ListPatientsWithProfiles(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// PatientView returns the reconciled account + profile + documents view.
//
// @Summary      Reconciled view of one patient
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Patient user ID"
// @Success      200  {object}  domain.ReconciledPatientView
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /admin/patients/{id}/view [get]
func (h *AdminHandler) PatientView(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.resolver.ResolvePatientView(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// SetPatientStatus activates or deactivates a patient account.
//
// @Summary      Set patient active status
// @Tags         admin
// @Security     BearerAuth
// @Param        id      path   int   true  "Patient user ID"
// @Param        active  query  bool  true  "Target status"
// @Success      204  "no content"
// @Failure      400  {object}  map[string]string
// @Router       /admin/patients/{id}/status [put]
func (h *AdminHandler) SetPatientStatus(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	active, err := queryBool(c, "active")
	if err != nil {
		return err
	}

	if err := h.admin.SetPatientStatus(c.Request().Context(), sess, id, active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetPatientBan bans or unbans a patient account.
//
// @Summary      Set patient ban flag
// @Tags         admin
// @Security     BearerAuth
// @Param        id      path   int   true  "Patient user ID"
// @Param        banned  query  bool  true  "Target flag"
// @Success      204  "no content"
// @Failure      400  {object}  map[string]string
// @Router       /admin/patients/{id}/ban [put]
func (h *AdminHandler) SetPatientBan(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	banned, err := queryBool(c, "banned")
	if err != nil {
		return err
	}

	if err := h.admin.SetPatientBan(c.Request().Context(), sess, id, banned); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPatientDocuments returns one patient's documents.
//
// @Summary      List a patient's documents
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true  "Patient user ID"
// @Success      200  {array}  domain.Document
// @Router       /admin/patients/{id}/documents [get]
func (h *AdminHandler) ListPatientDocuments(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	docs, err := h.admin.ListPatientDocuments(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

// BrowseDocuments pages through every document with optional filters.
// Filter values "" and "all" are no-ops; changing a filter resets to the
// first page.
//
// @Summary      Browse all documents
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search    query  string  false  "Free-text filter"
// @Param        category  query  string  false  "Category ID or 'all'"
// @Param        owner     query  string  false  "Owner user ID or 'all'"
// @Param        page      query  int     false  "Page number"
// @Param        perPage   query  int     false  "Page size"
// @Success      200  {object}  ports.BrowseOutput
// @Router       /admin/documents [get]
func (h *AdminHandler) BrowseDocuments(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))

	out, err := h.documents.Browse(c.Request().Context(), sess, ports.BrowseInput{
		Search:     c.QueryParam("search"),
		CategoryID: c.QueryParam("category"),
		OwnerID:    c.QueryParam("owner"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// DownloadDocument streams any patient's document file.
//
// @Summary      Download any document
// @Tags         admin
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        id  path  int  true  "Document ID"
// @Success      200  {file}  file
// @Failure      404  {object}  map[string]string
// @Router       /admin/documents/{id}/download [get]
func (h *AdminHandler) DownloadDocument(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	file, err := h.admin.DownloadDocument(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return serveFile(c, file)
}

// Statistics returns the basic analytics report. In demo mode the report
// is canned and labeled "demo".
//
// @Summary      Basic statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.StatisticsReport
// @Router       /admin/statistics [get]
func (h *AdminHandler) Statistics(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	report, err := h.admin.Statistics(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// ExtendedStatistics returns the extended analytics report.
//
// @Summary      Extended statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ExtendedStatisticsReport
// @Router       /admin/statistics/extended [get]
func (h *AdminHandler) ExtendedStatistics(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	report, err := h.admin.ExtendedStatistics(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// RecentActivity returns the newest audit events, newest first.
//
// @Summary      Recent audit activity
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query    int  false  "Max events"
// @Success      200    {array}  domain.AuditEvent
// @Router       /admin/activity [get]
func (h *AdminHandler) RecentActivity(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	events, err := h.admin.RecentActivity(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func queryBool(c echo.Context, name string) (bool, error) {
	v, err := strconv.ParseBool(c.QueryParam(name))
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, name+" must be true or false")
	}
	return v, nil
}
