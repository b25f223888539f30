package validate_slot

import (
	"context"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListActiveByDay(ctx context.Context, providerID int64, day domain.Weekday) ([]domain.AvailabilityWindow, error)
}

// ExclusionRepository интерфейс репозитория блоков исключений
type ExclusionRepository interface {
	ListIntersecting(ctx context.Context, providerID int64, from, to time.Time) ([]domain.ExclusionBlock, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListByProvider(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error)
}

// ProviderDirectory справочник провайдеров
type ProviderDirectory interface {
	GetProvider(ctx context.Context, providerID int64) (*domain.Provider, error)
}

// Metrics интерфейс для метрик проверок слотов
type Metrics interface {
	RecordSlotValidation(result string)
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
