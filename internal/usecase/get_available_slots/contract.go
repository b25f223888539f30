package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	// ListActiveByDay получает активные окна провайдера на день недели
	ListActiveByDay(ctx context.Context, providerID int64, day domain.Weekday) ([]domain.AvailabilityWindow, error)
}

// ExclusionRepository интерфейс репозитория блоков исключений
type ExclusionRepository interface {
	// ListIntersecting получает блоки, пересекающиеся с интервалом [from, to)
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

// TransactionManager интерфейс для чтения в одной транзакции
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для метрик генерации слотов
type Metrics interface {
	RecordSlots(reason string, count int)
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
