package upstream

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// DocumentGateway covers the patient-facing and admin-facing document
// endpoints.
type DocumentGateway struct {
	c *Client
}

func NewDocumentGateway(c *Client) *DocumentGateway {
	return &DocumentGateway{c: c}
}

// documentWire is the upstream response shape. Owner fields arrive as
// userId/username and may be absent on list endpoints.
type documentWire struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	CategoryID       int64  `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	DoctorName       string `json:"doctorName"`
	HospitalName     string `json:"hospitalName"`
	DocumentDate     string `json:"documentDate"`
	FileType         string `json:"fileType"`
	FileSize         int64  `json:"fileSize"`
	UploadDate       string `json:"uploadDate"`
	LastModifiedDate string `json:"lastModifiedDate"`
	DownloadURL      string `json:"downloadUrl"`
	UserID           int64  `json:"userId"`
	Username         string `json:"username"`
}

func (w documentWire) toDomain() domain.Document {
	return domain.Document{
		ID:               w.ID,
		Title:            w.Title,
		Description:      w.Description,
		CategoryID:       w.CategoryID,
		CategoryName:     w.CategoryName,
		DoctorName:       w.DoctorName,
		HospitalName:     w.HospitalName,
		DocumentDate:     w.DocumentDate,
		FileType:         w.FileType,
		FileSize:         w.FileSize,
		UploadDate:       w.UploadDate,
		LastModifiedDate: w.LastModifiedDate,
		DownloadURL:      w.DownloadURL,
		OwnerUserID:      w.UserID,
		OwnerUsername:    w.Username,
	}
}

func toDomainList(wires []documentWire) []domain.Document {
	docs := make([]domain.Document, 0, len(wires))
	for _, w := range wires {
		docs = append(docs, w.toDomain())
	}
	return docs
}

type documentUpdatePayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategoryID   int64  `json:"categoryId"`
	DoctorName   string `json:"doctorName"`
	HospitalName string `json:"hospitalName"`
	DocumentDate string `json:"documentDate"`
}

func (g *DocumentGateway) ListMine(ctx context.Context, sess *domain.Session) ([]domain.Document, error) {
	var wires []documentWire
	if err := g.c.getJSON(ctx, "documents.list", "/documents", sess, &wires); err != nil {
		return nil, err
	}
	return toDomainList(wires), nil
}

func (g *DocumentGateway) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Document, error) {
	var wire documentWire
	if err := g.c.getJSON(ctx, "documents.get", "/documents/"+strconv.FormatInt(id, 10), sess, &wire); err != nil {
		return nil, err
	}
	doc := wire.toDomain()
	return &doc, nil
}

func (g *DocumentGateway) Upload(ctx context.Context, sess *domain.Session, input ports.UploadDocumentInput) (*domain.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", input.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(input.Data); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"title":        input.Title,
		"description":  input.Description,
		"categoryId":   strconv.FormatInt(input.CategoryID, 10),
		"doctorName":   input.DoctorName,
		"hospitalName": input.HospitalName,
		"documentDate": input.DocumentDate,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	data, _, err := g.c.do(ctx, "documents.upload", http.MethodPost, "/documents", sess, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var wire documentWire
	if err := decodeJSON("documents.upload", data, &wire); err != nil {
		return nil, err
	}
	doc := wire.toDomain()
	return &doc, nil
}

func (g *DocumentGateway) Update(ctx context.Context, sess *domain.Session, id int64, input ports.UpdateDocumentInput) (*domain.Document, error) {
	payload := documentUpdatePayload{
		Title:        input.Title,
		Description:  input.Description,
		CategoryID:   input.CategoryID,
		DoctorName:   input.DoctorName,
		HospitalName: input.HospitalName,
		DocumentDate: input.DocumentDate,
	}

	var wire documentWire
	if err := g.c.putJSON(ctx, "documents.update", "/documents/"+strconv.FormatInt(id, 10), sess, payload, &wire); err != nil {
		return nil, err
	}
	doc := wire.toDomain()
	return &doc, nil
}

func (g *DocumentGateway) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	return g.c.delete(ctx, "documents.delete", "/documents/"+strconv.FormatInt(id, 10), sess)
}

func (g *DocumentGateway) Download(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error) {
	return g.download(ctx, "documents.download", "/documents/"+strconv.FormatInt(id, 10)+"/download", sess, id)
}

func (g *DocumentGateway) Categories(ctx context.Context, sess *domain.Session) ([]domain.DocumentCategory, error) {
	var categories []domain.DocumentCategory
	if err := g.c.getJSON(ctx, "documents.categories", "/documents/categories", sess, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (g *DocumentGateway) ListAll(ctx context.Context, sess *domain.Session) ([]domain.Document, error) {
	var wires []documentWire
	if err := g.c.getJSON(ctx, "documents.list_all", "/admin/documents", sess, &wires); err != nil {
		return nil, err
	}
	return toDomainList(wires), nil
}

func (g *DocumentGateway) ListForPatient(ctx context.Context, sess *domain.Session, userID int64) ([]domain.Document, error) {
	var wires []documentWire
	path := "/admin/patients/" + strconv.FormatInt(userID, 10) + "/documents"
	if err := g.c.getJSON(ctx, "documents.list_for_patient", path, sess, &wires); err != nil {
		return nil, err
	}
	return toDomainList(wires), nil
}

func (g *DocumentGateway) AdminDownload(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error) {
	return g.download(ctx, "documents.admin_download", "/admin/documents/"+strconv.FormatInt(id, 10)+"/download", sess, id)
}

func (g *DocumentGateway) download(ctx context.Context, op, path string, sess *domain.Session, id int64) (*domain.FileDownload, error) {
	data, header, err := g.c.do(ctx, op, http.MethodGet, path, sess, nil, "")
	if err != nil {
		return nil, err
	}

	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &domain.FileDownload{
		Data:        data,
		ContentType: contentType,
		Filename:    downloadFilename(header.Get("Content-Disposition"), id),
	}, nil
}

// downloadFilename extracts the filename from a Content-Disposition header,
// falling back to a synthesized default.
func downloadFilename(disposition string, id int64) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("document-%d", id)
}
