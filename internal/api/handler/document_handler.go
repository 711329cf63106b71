package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// maxUploadBytes bounds in-memory buffering of uploaded files.
const maxUploadBytes = 25 << 20 // 25 MiB

// DocumentHandler handles patient-facing document operations.
type DocumentHandler struct {
	documents ports.DocumentService
}

func NewDocumentHandler(documents ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type updateDocumentRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	CategoryID   int64  `json:"categoryId" validate:"required,min=1"`
	DoctorName   string `json:"doctorName"`
	HospitalName string `json:"hospitalName"`
	DocumentDate string `json:"documentDate" validate:"omitempty,datetime=2006-01-02"`
}

// List returns the caller's documents.
//
// @Summary      List own documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Document
// @Router       /documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	docs, err := h.documents.ListMine(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

// Get returns one document's metadata.
//
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  map[string]string
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	doc, err := h.documents.Get(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Upload stores a new document with its metadata.
//
// @Summary      Upload a document
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file          formData  file    true   "Document file"
// @Param        title         formData  string  true   "Title"
// @Param        description   formData  string  false  "Description"
// @Param        categoryId    formData  int     true   "Category ID"
// @Param        doctorName    formData  string  false  "Doctor name"
// @Param        hospitalName  formData  string  false  "Hospital name"
// @Param        documentDate  formData  string  false  "Document date (YYYY-MM-DD)"
// @Success      201  {object}  domain.Document
// @Failure      400  {object}  map[string]string
// @Router       /documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return err
	}

	categoryID, _ := strconv.ParseInt(c.FormValue("categoryId"), 10, 64)

	doc, err := h.documents.Upload(c.Request().Context(), sess, ports.UploadDocumentInput{
		Filename:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		CategoryID:   categoryID,
		DoctorName:   c.FormValue("doctorName"),
		HospitalName: c.FormValue("hospitalName"),
		DocumentDate: c.FormValue("documentDate"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// Update replaces a document's metadata. The file payload is immutable.
//
// @Summary      Update document metadata
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Document ID"
// @Param        body  body      updateDocumentRequest  true  "Metadata"
// @Success      200   {object}  domain.Document
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /documents/{id} [put]
func (h *DocumentHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.documents.Update(c.Request().Context(), sess, id, ports.UpdateDocumentInput{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		DoctorName:   req.DoctorName,
		HospitalName: req.HospitalName,
		DocumentDate: req.DocumentDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Delete removes a document.
//
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        id  path  int  true  "Document ID"
// @Success      204  "no content"
// @Failure      404  {object}  map[string]string
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.documents.Delete(c.Request().Context(), sess, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Download streams the document file.
//
// @Summary      Download a document
// @Tags         documents
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        id  path  int  true  "Document ID"
// @Success      200  {file}  file
// @Failure      404  {object}  map[string]string
// @Router       /documents/{id}/download [get]
func (h *DocumentHandler) Download(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	file, err := h.documents.Download(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}

	return serveFile(c, file)
}

// Categories returns the read-only category reference data.
//
// @Summary      List document categories
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.DocumentCategory
// @Router       /documents/categories [get]
func (h *DocumentHandler) Categories(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	categories, err := h.documents.Categories(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func serveFile(c echo.Context, file *domain.FileDownload) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
