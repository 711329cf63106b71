package domain

import "encoding/json"

// ReconciledPatientView is the merged admin-facing view of one patient,
// assembled fresh per request and never cached. Secondary lookup failures
// are normalized into the optional fields, never into an error:
//   - Profile == nil implies ProfileMissing == true.
//   - Documents is always non-nil; when the document lookup failed it is
//     empty and DocumentsError explains the gap.
type ReconciledPatientView struct {
	PatientUser    PatientUser     `json:"patientUser"`
	Profile        *PatientProfile `json:"profile,omitempty"`
	Documents      []Document      `json:"documents"`
	ProfileMissing bool            `json:"profileMissing"`
	DocumentsError string          `json:"documentsError,omitempty"`
}

// Statistics is the aggregate admin dashboard payload.
type Statistics struct {
	TotalPatients              int64 `json:"totalPatients"`
	TotalDocuments             int64 `json:"totalDocuments"`
	TotalStorageUsed           int64 `json:"totalStorageUsed"`
	ActiveUsers                int64 `json:"activeUsers"`
	InactiveUsers              int64 `json:"inactiveUsers"`
	DocumentsUploadedToday     int64 `json:"documentsUploadedToday"`
	DocumentsUploadedThisMonth int64 `json:"documentsUploadedThisMonth"`
}

// Statistics sources. Demo data is always labeled so it can never pass as
// live numbers.
const (
	StatsSourceLive = "live"
	StatsSourceDemo = "demo"
)

// StatisticsReport wraps statistics with their provenance.
type StatisticsReport struct {
	Source     string     `json:"source"`
	Statistics Statistics `json:"statistics"`
}

// ExtendedStatisticsReport carries the chart-oriented extended payload
// verbatim; the gateway does not interpret it.
type ExtendedStatisticsReport struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}
