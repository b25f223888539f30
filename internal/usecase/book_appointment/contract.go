package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/patientservice"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// SlotChecker повторная проверка слота на данных, прочитанных в транзакции
type SlotChecker interface {
	Check(ctx context.Context, in validate_slot.CheckInput) (scheduling.ValidationResult, error)
}

// ProviderDirectory справочник провайдеров
type ProviderDirectory interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
}

// PatientServiceClient интерфейс клиента для PatientService
type PatientServiceClient interface {
	GetPatient(ctx context.Context, patientID int64) (*patientservice.Patient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для метрик бронирований
type Metrics interface {
	RecordBooking(source, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
