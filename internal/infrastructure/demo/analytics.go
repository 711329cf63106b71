// Package demo serves canned dashboard data for staging and demos. It is
// only reachable when DEMO_MODE is set; the gateway never substitutes demo
// numbers for a failed live call.
package demo

import (
	"encoding/json"

	"github.com/healthics/portal/internal/core/domain"
)

// Statistics returns the canned aggregate dashboard numbers.
func Statistics() domain.Statistics {
	return domain.Statistics{
		TotalPatients:              4,
		TotalDocuments:             2,
		TotalStorageUsed:           235730,
		ActiveUsers:                4,
		InactiveUsers:              0,
		DocumentsUploadedToday:     2,
		DocumentsUploadedThisMonth: 2,
	}
}

// ExtendedStatistics returns the canned chart payload for the analytics
// panels.
func ExtendedStatistics() json.RawMessage {
	return json.RawMessage(`{
  "monthlyUploads": [
    {"month": "2026-03", "count": 14},
    {"month": "2026-04", "count": 22},
    {"month": "2026-05", "count": 17},
    {"month": "2026-06", "count": 31},
    {"month": "2026-07", "count": 26},
    {"month": "2026-08", "count": 2}
  ],
  "categoryDistribution": [
    {"category": "Lab Results", "count": 38},
    {"category": "Prescriptions", "count": 29},
    {"category": "Imaging", "count": 21},
    {"category": "Discharge Summaries", "count": 12},
    {"category": "Other", "count": 12}
  ],
  "storageGrowthBytes": [
    {"month": "2026-06", "bytes": 104857600},
    {"month": "2026-07", "bytes": 157286400},
    {"month": "2026-08", "bytes": 235730944}
  ],
  "fileTypeBreakdown": [
    {"fileType": "application/pdf", "count": 74},
    {"fileType": "image/jpeg", "count": 23},
    {"fileType": "image/png", "count": 15}
  ]
}`)
}
