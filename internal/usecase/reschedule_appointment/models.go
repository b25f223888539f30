package reschedule_appointment

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID   int64     // ID записи
	ActorID         int64     // Провайдер, выполняющий перенос
	StartAt         time.Time // Новое начало приема
	DurationMinutes int       // Новая длительность, 0 - оставить прежнюю
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID              int64
	ProviderID      int64
	PatientID       int64
	ScheduledAt     time.Time
	EndsAt          time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
	PreviousStartAt time.Time
}
