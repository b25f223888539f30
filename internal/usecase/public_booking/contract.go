package public_booking

import (
	"context"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/patientservice"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
)

// ProviderDirectory справочник провайдеров
type ProviderDirectory interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
}

// SlotChecker предварительная проверка слота до создания пациента
type SlotChecker interface {
	Check(ctx context.Context, in validate_slot.CheckInput) (scheduling.ValidationResult, error)
}

// PatientServiceClient интерфейс клиента для PatientService
type PatientServiceClient interface {
	FindOrCreate(ctx context.Context, input patientservice.FindOrCreateRequest) (*patientservice.Patient, error)
}

// Booker оркестратор бронирования
type Booker interface {
	Execute(ctx context.Context, req *book_appointment.Request) (*book_appointment.Response, error)
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
