package domain

// PatientUser is a lightweight directory record. Every registered account
// resolves to one of these, whether or not a medical profile exists.
type PatientUser struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Active        bool   `json:"active"`
	Banned        bool   `json:"banned"`
	HasProfile    bool   `json:"hasProfile"`
	DocumentCount int    `json:"documentCount"`
}

// PatientProfile is the full medical profile. It exists only once the
// patient has completed profile creation; absence is a valid state.
type PatientProfile struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"userId"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	PhoneNumber      string `json:"phoneNumber"`
	Address          string `json:"address"`
	MedicalHistory   string `json:"medicalHistory"`
	Allergies        string `json:"allergies"`
	Medications      string `json:"medications"`
	EmergencyContact string `json:"emergencyContact"`
}
