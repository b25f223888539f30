package patientservice

// Patient модель пациента из PatientService
type Patient struct {
	ID             int64   `json:"id"`
	OrganizationID int64   `json:"organization_id"`
	FullName       string  `json:"full_name"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

// FindOrCreateRequest данные посетителя публичной записи
type FindOrCreateRequest struct {
	OrganizationID int64   `json:"organization_id"`
	FullName       string  `json:"full_name"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

// ErrorResponse модель ошибки от PatientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
