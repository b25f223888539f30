package models

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модели

// CancelRequest запрос на отмену записи
type CancelRequest struct {
	ActorID            int64   `json:"-"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	ActorID int64  `json:"-"`
	Status  string `json:"status"`
}

// ListProviderAppointmentsRequest запрос на получение записей провайдера
type ListProviderAppointmentsRequest struct {
	ActorID          int64
	ProviderID       int64
	From             *time.Time // Начало периода (опционально)
	To               *time.Time // Конец периода, не включая (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool       // Включить отмененные записи
}

// ListPatientAppointmentsRequest запрос на получение записей пациента
type ListPatientAppointmentsRequest struct {
	ActorID   int64
	PatientID int64
	Status    *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	ProviderID      int64     `json:"providerId"`
	PatientID       int64     `json:"patientId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	EndsAt          time.Time `json:"endsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Source          string    `json:"source"`
	Notes           *string   `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		ProviderID:         a.ProviderID,
		PatientID:          a.PatientID,
		ScheduledAt:        a.ScheduledAt,
		EndsAt:             a.EndsAt(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Source:             string(a.Source),
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for i := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(&appointments[i]))
	}

	return resp
}
