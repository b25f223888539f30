package book_appointment

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	ProviderID      int64                // ID провайдера
	PatientID       int64                // ID пациента
	StartAt         time.Time            // Начало приема (абсолютное время)
	DurationMinutes int                  // Длительность в минутах
	Notes           *string              // Заметки (опционально)
	Source          domain.BookingSource // Каким сценарием создана запись
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	ProviderID      int64
	PatientID       int64
	ScheduledAt     time.Time
	EndsAt          time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
	Source          domain.BookingSource
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		ProviderID:      a.ProviderID,
		PatientID:       a.PatientID,
		ScheduledAt:     a.ScheduledAt,
		EndsAt:          a.EndsAt(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Source:          a.Source,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
