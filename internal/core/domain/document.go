package domain

// Document is a medical document owned by exactly one patient. The file
// payload is immutable; metadata is editable only by the owner. Timestamps
// pass through in the upstream's wire format.
type Document struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	CategoryID       int64  `json:"categoryId"`
	CategoryName     string `json:"categoryName,omitempty"`
	DoctorName       string `json:"doctorName"`
	HospitalName     string `json:"hospitalName"`
	DocumentDate     string `json:"documentDate"`
	FileType         string `json:"fileType"`
	FileSize         int64  `json:"fileSize"`
	UploadDate       string `json:"uploadDate"`
	LastModifiedDate string `json:"lastModifiedDate"`
	DownloadURL      string `json:"downloadUrl"`
	OwnerUserID      int64  `json:"ownerUserId,omitempty"`
	OwnerUsername    string `json:"ownerUsername,omitempty"`
}

// DocumentCategory is read-only reference data.
type DocumentCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FileDownload carries a downloaded document payload. Filename comes from
// the upstream Content-Disposition header, or a synthesized default.
type FileDownload struct {
	Data        []byte
	ContentType string
	Filename    string
}
